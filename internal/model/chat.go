package model

// ChatRecord Welly AI 对话记录，按 session 分组
// swagger:model ChatRecord
type ChatRecord struct {
	BaseModel
	UserID        uint       `gorm:"index;not null" json:"userId"`
	SessionID     string     `gorm:"size:36;index" json:"sessionId"`
	UserMessage   string     `gorm:"type:text" json:"userMessage"`
	AIResponse    string     `gorm:"type:text" json:"aiResponse"`
	Goals         StringList `gorm:"type:json" json:"goals"`
	CurrentStreak int        `gorm:"default:0" json:"currentStreak"`
	WellyPoints   int        `gorm:"default:0" json:"wellyPoints"`
}

func (ChatRecord) TableName() string {
	return "chat_records"
}
