package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking records a purchased (or pending) seat on a tour. Price is copied
// from the tour at checkout time so later price changes do not rewrite
// history.
type Booking struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TourID uuid.UUID `gorm:"type:uuid;not null;index" json:"tour"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user"`
	Price  float64   `gorm:"not null" json:"price"`
	Paid   bool      `gorm:"not null;default:true" json:"paid"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Tour *Tour `gorm:"constraint:OnDelete:CASCADE;foreignKey:TourID;references:ID" json:"tourDetail,omitempty"`
}
