package model

import "time"

// Booking 教练一对一预约
// swagger:model Booking
type Booking struct {
	BaseModel
	UserID      uint      `gorm:"index;not null" json:"userId"`
	CoachID     string    `gorm:"size:64;not null" json:"coachId"`
	SessionType string    `gorm:"size:50" json:"sessionType"`
	Date        time.Time `gorm:"not null" json:"date"`
	Duration    int       `gorm:"default:30" json:"duration"` // 分钟
	Status      string    `gorm:"size:20;default:'confirmed'" json:"status"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}
