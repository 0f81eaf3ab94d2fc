package repository

import (
	"teamwelly_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) Create(record *model.ChatRecord) error {
	return r.DB.Create(record).Error
}

// FindBySession 按时间正序返回一个会话的完整对话
func (r *ChatRepository) FindBySession(userID uint, sessionID string) ([]model.ChatRecord, error) {
	var records []model.ChatRecord
	err := r.DB.Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// FindRecentByUser 返回用户最近的对话记录，时间倒序
func (r *ChatRepository) FindRecentByUser(userID uint, limit int) ([]model.ChatRecord, error) {
	var records []model.ChatRecord
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
