package service

import (
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/internal/util"
	"time"
)

type BookingService struct {
	BookingRepo *repository.BookingRepository
}

func NewBookingService(bookingRepo *repository.BookingRepository) *BookingService {
	return &BookingService{BookingRepo: bookingRepo}
}

type CreateBookingInput struct {
	CoachID     string    `json:"coachId" binding:"required"`
	SessionType string    `json:"sessionType"`
	Date        time.Time `json:"date" binding:"required"`
	Duration    int       `json:"duration"`
	Notes       string    `json:"notes"`
}

func (s *BookingService) Create(userID uint, input CreateBookingInput) (*model.Booking, error) {
	booking := &model.Booking{
		UserID:      userID,
		CoachID:     input.CoachID,
		SessionType: input.SessionType,
		Date:        input.Date,
		Duration:    input.Duration,
		Status:      "confirmed",
		Notes:       input.Notes,
	}
	if booking.Duration <= 0 {
		booking.Duration = 30
	}
	if err := s.BookingRepo.Create(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) ListByUser(userID uint) ([]model.Booking, error) {
	return s.BookingRepo.FindByUser(userID)
}

// Cancel 只允许本人取消自己的预约
func (s *BookingService) Cancel(userID, bookingID uint) error {
	booking, err := s.BookingRepo.FindByID(bookingID)
	if err != nil {
		return util.ErrBookingNotFound
	}
	if booking.UserID != userID {
		return util.ErrPermissionDenied
	}
	return s.BookingRepo.UpdateStatus(bookingID, "cancelled")
}
