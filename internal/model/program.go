package model

import (
	"time"

	"gorm.io/gorm"
)

// Program 健康训练项目（拉伸、呼吸、冥想等）
// swagger:model Program
type Program struct {
	ID           string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Category     string         `gorm:"size:50;index" json:"category"`
	Duration     int            `json:"duration"` // 分钟
	Level        string         `gorm:"size:20" json:"level"`
	Description  string         `gorm:"type:text" json:"description"`
	Instructions StringList     `gorm:"type:json" json:"instructions"`
	Benefits     StringList     `gorm:"type:json" json:"benefits"`
	VideoURL     string         `gorm:"size:255" json:"videoUrl,omitempty"`
	Thumbnail    string         `gorm:"size:255" json:"thumbnail,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Program) TableName() string {
	return "programs"
}

const (
	CategoryStretchMobility = "stretch_mobility"
	CategoryBreathStress    = "breath_stress"
	CategoryMindsetGrowth   = "mindset_growth"
)
