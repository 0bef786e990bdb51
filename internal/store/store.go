// Package store is the persistence layer. Validation and credential
// hashing are explicit steps on the write path, and the soft-delete /
// secret-tour predicates are applied inside the read path, so callers never
// see hidden records and control flow stays traceable.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourd/internal/models"
)

// Store bundles the per-aggregate stores over one database handle.
type Store struct {
	Users    UserStore
	Tours    TourStore
	Reviews  ReviewStore
	Bookings BookingStore
}

// New wires the gorm-backed store implementations.
func New(database *gorm.DB) *Store {
	return &Store{
		Users:    &userStore{db: database},
		Tours:    &tourStore{db: database},
		Reviews:  &reviewStore{db: database},
		Bookings: &bookingStore{db: database},
	}
}

// UserStore manages credential records. All reads exclude soft-deleted
// (inactive) users.
type UserStore interface {
	Create(ctx context.Context, user *models.User, password, confirm string) error
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email, photo string) (*models.User, error)
	SetPassword(ctx context.Context, user *models.User, password, confirm string) error
	SaveResetToken(ctx context.Context, id uuid.UUID, hashedToken string, expires time.Time) error
	ClearResetToken(ctx context.Context, id uuid.UUID) error
	SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// TourListOptions narrows and orders tour listings.
type TourListOptions struct {
	Sort          string // one of the whitelisted sort keys
	Limit         int
	Difficulty    string
	IncludeSecret bool // admin-scoped reads only
}

// TourStats is an aggregate row grouped by difficulty.
type TourStats struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"numTours"`
	AvgRating  float64 `json:"avgRating"`
	AvgPrice   float64 `json:"avgPrice"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
}

// TourStore manages tours. Reads exclude secret tours unless the caller is
// explicitly admin-scoped.
type TourStore interface {
	Create(ctx context.Context, tour *models.Tour) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Tour, error)
	// ByIDAny also returns secret tours; only role-gated write paths use it.
	ByIDAny(ctx context.Context, id uuid.UUID) (*models.Tour, error)
	BySlug(ctx context.Context, slug string) (*models.Tour, error)
	List(ctx context.Context, opts TourListOptions) ([]models.Tour, error)
	Update(ctx context.Context, tour *models.Tour) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) ([]TourStats, error)
}

// ReviewStore manages reviews and keeps the tour rating aggregate in sync:
// every mutation triggers a synchronous recomputation for the affected tour.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
	ListByTour(ctx context.Context, tourID uuid.UUID) ([]models.Review, error)
	Update(ctx context.Context, id uuid.UUID, text string, rating float64) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingStore manages bookings.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
