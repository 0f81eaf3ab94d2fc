package repository

import (
	"teamwelly_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) FindByID(id string) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, "id = ?", id).Error
	return &challenge, err
}

// FindAll 按类型筛选挑战，空参数返回全部
func (r *ChallengeRepository) FindAll(challengeType string) ([]model.Challenge, error) {
	var challenges []model.Challenge
	query := r.DB.Order("created_at ASC")
	if challengeType != "" {
		query = query.Where("type = ?", challengeType)
	}
	err := query.Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Challenge{}).Count(&count).Error
	return count, err
}
