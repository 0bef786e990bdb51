package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourd/internal/apperr"
	"tourd/internal/models"
)

type bookingStore struct {
	db *gorm.DB
}

func (s *bookingStore) Create(ctx context.Context, booking *models.Booking) error {
	if booking.Price <= 0 {
		return apperr.BadRequest("a booking must have a price")
	}
	return apperr.FromDB(s.db.WithContext(ctx).Create(booking).Error)
}

func (s *bookingStore) ByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &booking, nil
}

func (s *bookingStore) List(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return bookings, nil
}

func (s *bookingStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Tour").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return bookings, nil
}

func (s *bookingStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id)
	if res.Error != nil {
		return apperr.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("booking not found")
	}
	return nil
}
