package repository

import (
	"teamwelly_backend/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(tx *model.PaymentTransaction) error {
	return r.DB.Create(tx).Error
}

func (r *PaymentRepository) FindBySessionID(sessionID string) (*model.PaymentTransaction, error) {
	var tx model.PaymentTransaction
	err := r.DB.Where("session_id = ?", sessionID).First(&tx).Error
	return &tx, err
}

func (r *PaymentRepository) FindByUser(userID uint) ([]model.PaymentTransaction, error) {
	var txs []model.PaymentTransaction
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&txs).Error
	return txs, err
}

func (r *PaymentRepository) UpdateStatus(sessionID, status, paymentStatus string) error {
	return r.DB.Model(&model.PaymentTransaction{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": paymentStatus,
		}).Error
}
