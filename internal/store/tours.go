package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourd/internal/apperr"
	"tourd/internal/models"
)

type tourStore struct {
	db *gorm.DB
}

// publicTours hides secret tours from every ordinary read.
func (s *tourStore) publicTours(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("secret = ?", false)
}

// Sort keys accepted from the outside; anything else falls back to name.
var tourSortColumns = map[string]string{
	"price":           "price ASC",
	"-price":          "price DESC",
	"ratingsAverage":  "ratings_average ASC",
	"-ratingsAverage": "ratings_average DESC",

	// Combined key used by the best-value listing.
	"-ratingsAverage,price": "ratings_average DESC, price ASC",
	"duration":        "duration ASC",
	"-duration":       "duration DESC",
}

func validateTour(tour *models.Tour) error {
	name := strings.TrimSpace(tour.Name)
	if len(name) < 10 || len(name) > 40 {
		return apperr.BadRequest("a tour name must have between 10 and 40 characters")
	}
	if tour.Duration <= 0 {
		return apperr.BadRequest("a tour must have a duration")
	}
	if tour.MaxGroupSize <= 0 {
		return apperr.BadRequest("a tour must have a group size")
	}
	if !models.ValidDifficulty(tour.Difficulty) {
		return apperr.BadRequest("difficulty must be easy, medium or difficult")
	}
	if tour.Price <= 0 {
		return apperr.BadRequest("a tour must have a price")
	}
	if tour.PriceDiscount != 0 && tour.PriceDiscount >= tour.Price {
		return apperr.BadRequest("discount price should be below the regular price")
	}
	if strings.TrimSpace(tour.Summary) == "" {
		return apperr.BadRequest("a tour must have a summary")
	}
	tour.Name = name
	return nil
}

func (s *tourStore) Create(ctx context.Context, tour *models.Tour) error {
	if err := validateTour(tour); err != nil {
		return err
	}
	tour.Slug = Slugify(tour.Name)
	if tour.RatingsAverage == 0 {
		tour.RatingsAverage = models.DefaultRatingsAverage
	}
	return apperr.FromDB(s.db.WithContext(ctx).Create(tour).Error)
}

func (s *tourStore) ByID(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	var tour models.Tour
	if err := s.publicTours(ctx).First(&tour, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &tour, nil
}

// ByIDAny skips the secret-tour predicate so role-gated write paths can
// manage hidden tours.
func (s *tourStore) ByIDAny(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	var tour models.Tour
	if err := s.db.WithContext(ctx).First(&tour, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &tour, nil
}

func (s *tourStore) BySlug(ctx context.Context, slug string) (*models.Tour, error) {
	var tour models.Tour
	if err := s.publicTours(ctx).First(&tour, "slug = ?", slug).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &tour, nil
}

func (s *tourStore) List(ctx context.Context, opts TourListOptions) ([]models.Tour, error) {
	q := s.db.WithContext(ctx)
	if !opts.IncludeSecret {
		q = q.Where("secret = ?", false)
	}
	if opts.Difficulty != "" {
		q = q.Where("difficulty = ?", opts.Difficulty)
	}
	if order, ok := tourSortColumns[opts.Sort]; ok {
		q = q.Order(order)
	} else {
		q = q.Order("name")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var tours []models.Tour
	if err := q.Find(&tours).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return tours, nil
}

func (s *tourStore) Update(ctx context.Context, tour *models.Tour) error {
	if err := validateTour(tour); err != nil {
		return err
	}
	tour.Slug = Slugify(tour.Name)
	res := s.db.WithContext(ctx).Model(&models.Tour{}).
		Where("id = ?", tour.ID).
		Updates(map[string]any{
			"name":           tour.Name,
			"slug":           tour.Slug,
			"duration":       tour.Duration,
			"max_group_size": tour.MaxGroupSize,
			"difficulty":     tour.Difficulty,
			"price":          tour.Price,
			"price_discount": tour.PriceDiscount,
			"summary":        tour.Summary,
			"description":    tour.Description,
			"image_cover":    tour.ImageCover,
			"images":         tour.Images,
			"start_dates":    tour.StartDates,
			"secret":         tour.Secret,
		})
	if res.Error != nil {
		return apperr.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("tour not found")
	}
	return nil
}

func (s *tourStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Tour{}, "id = ?", id)
	if res.Error != nil {
		return apperr.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("tour not found")
	}
	return nil
}

// Stats aggregates the public tour catalogue by difficulty.
func (s *tourStore) Stats(ctx context.Context) ([]TourStats, error) {
	var stats []TourStats
	err := s.db.WithContext(ctx).Raw(`
		SELECT difficulty,
		       COUNT(*)             AS num_tours,
		       AVG(ratings_average) AS avg_rating,
		       AVG(price)           AS avg_price,
		       MIN(price)           AS min_price,
		       MAX(price)           AS max_price
		FROM tours
		WHERE secret = false
		GROUP BY difficulty
		ORDER BY avg_price`).
		Scan(&stats).Error
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return stats, nil
}
