package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's rating of a tour. One review per (tour, user) pair.
type Review struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Review string    `gorm:"type:text;not null" json:"review"`
	Rating float64   `gorm:"not null" json:"rating"`

	TourID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_tour_user" json:"tour"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_tour_user" json:"user"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	User *User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"author,omitempty"`
}
