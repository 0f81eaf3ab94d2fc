package model

import (
	"time"

	"gorm.io/gorm"
)

// Challenge 健康挑战，完成后奖励积分
// swagger:model Challenge
type Challenge struct {
	ID           string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Type         string         `gorm:"size:20;index" json:"type"` // daily / weekly
	Points       int            `gorm:"default:0" json:"points"`
	Category     string         `gorm:"size:50" json:"category"`
	Requirements JSONMap        `gorm:"type:json" json:"requirements"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Challenge) TableName() string {
	return "challenges"
}

const (
	ChallengeDaily  = "daily"
	ChallengeWeekly = "weekly"
)
