package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Tour difficulty levels.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// ValidDifficulty reports whether d is one of the allowed difficulty values.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyDifficult:
		return true
	}
	return false
}

// Defaults applied to a tour with no reviews.
const (
	DefaultRatingsAverage  = 4.5
	DefaultRatingsQuantity = 0
)

// Tour is a bookable trip. RatingsAverage and RatingsQuantity are derived
// from the review set and recomputed on every review mutation.
type Tour struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"type:text;uniqueIndex;not null" json:"name"`
	Slug          string         `gorm:"type:text;index;not null" json:"slug"`
	Duration      int            `gorm:"not null" json:"duration"`
	MaxGroupSize  int            `gorm:"not null" json:"maxGroupSize"`
	Difficulty    string         `gorm:"type:text;not null" json:"difficulty"`
	Price         float64        `gorm:"not null" json:"price"`
	PriceDiscount float64        `json:"priceDiscount,omitempty"`
	Summary       string         `gorm:"type:text;not null" json:"summary"`
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	ImageCover    string         `gorm:"type:text" json:"imageCover,omitempty"`
	Images        datatypes.JSON `gorm:"type:jsonb" json:"images,omitempty"`
	StartDates    datatypes.JSON `gorm:"type:jsonb" json:"startDates,omitempty"`

	RatingsAverage  float64 `gorm:"not null;default:4.5" json:"ratingsAverage"`
	RatingsQuantity int     `gorm:"not null;default:0" json:"ratingsQuantity"`

	// Secret tours are hidden from normal reads.
	Secret bool `gorm:"not null;default:false" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
