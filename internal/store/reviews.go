package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourd/internal/apperr"
	"tourd/internal/models"
)

type reviewStore struct {
	db *gorm.DB
}

func validateReview(text string, rating float64) error {
	if strings.TrimSpace(text) == "" {
		return apperr.BadRequest("review cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return apperr.BadRequest("rating must be between 1 and 5")
	}
	return nil
}

func (s *reviewStore) Create(ctx context.Context, review *models.Review) error {
	if err := validateReview(review.Review, review.Rating); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return apperr.FromDB(err)
	}
	return s.afterReviewMutation(ctx, review.TourID)
}

func (s *reviewStore) ByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &review, nil
}

func (s *reviewStore) List(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return reviews, nil
}

func (s *reviewStore) ListByTour(ctx context.Context, tourID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("tour_id = ?", tourID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return reviews, nil
}

func (s *reviewStore) Update(ctx context.Context, id uuid.UUID, text string, rating float64) (*models.Review, error) {
	if err := validateReview(text, rating); err != nil {
		return nil, err
	}
	review, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	review.Review = text
	review.Rating = rating
	err = s.db.WithContext(ctx).Model(review).
		Updates(map[string]any{"review": text, "rating": rating}).Error
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	if err := s.afterReviewMutation(ctx, review.TourID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewStore) Delete(ctx context.Context, id uuid.UUID) error {
	review, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error; err != nil {
		return apperr.FromDB(err)
	}
	return s.afterReviewMutation(ctx, review.TourID)
}

type ratingAggregate struct {
	Quantity int     `gorm:"column:quantity"`
	Average  float64 `gorm:"column:average"`
}

// afterReviewMutation recomputes the affected tour's rating aggregate from
// the full review set and writes it back unconditionally (last write wins).
// An empty review set resets to the defaults instead of leaving stale
// values behind.
func (s *reviewStore) afterReviewMutation(ctx context.Context, tourID uuid.UUID) error {
	var agg ratingAggregate
	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS quantity, COALESCE(AVG(rating), 0) AS average FROM reviews WHERE tour_id = ?`,
		tourID).
		Scan(&agg).Error
	if err != nil {
		return apperr.FromDB(err)
	}

	if agg.Quantity == 0 {
		agg.Average = models.DefaultRatingsAverage
	}

	return apperr.FromDB(s.db.WithContext(ctx).Exec(
		`UPDATE tours SET ratings_quantity = ?, ratings_average = ? WHERE id = ?`,
		agg.Quantity, agg.Average, tourID).Error)
}
