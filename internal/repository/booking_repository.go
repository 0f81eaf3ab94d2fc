package repository

import (
	"teamwelly_backend/internal/model"

	"gorm.io/gorm"
)

type BookingRepository struct {
	DB *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

func (r *BookingRepository) Create(booking *model.Booking) error {
	return r.DB.Create(booking).Error
}

func (r *BookingRepository) FindByID(id uint) (*model.Booking, error) {
	var booking model.Booking
	err := r.DB.First(&booking, id).Error
	return &booking, err
}

func (r *BookingRepository) FindByUser(userID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.DB.Where("user_id = ?", userID).Order("date DESC").Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) UpdateStatus(id uint, status string) error {
	return r.DB.Model(&model.Booking{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}
