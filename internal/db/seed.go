package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourd/internal/auth"
	"tourd/internal/models"
	"tourd/internal/store"
)

//go:embed seed_tours.yaml
var seedTours []byte

type seedTour struct {
	Name         string   `yaml:"name"`
	Duration     int      `yaml:"duration"`
	MaxGroupSize int      `yaml:"maxGroupSize"`
	Difficulty   string   `yaml:"difficulty"`
	Price        float64  `yaml:"price"`
	Summary      string   `yaml:"summary"`
	Description  string   `yaml:"description"`
	ImageCover   string   `yaml:"imageCover"`
	Images       []string `yaml:"images"`
	StartDates   []string `yaml:"startDates"`
	Secret       bool     `yaml:"secret"`
}

// Seed inserts baseline demo tours and an initial admin account. Existing
// rows are left untouched.
func Seed(ctx context.Context, database *gorm.DB, adminEmail, adminPassword string) error {
	var tours []seedTour
	if err := yaml.Unmarshal(seedTours, &tours); err != nil {
		return fmt.Errorf("parse seed tours: %w", err)
	}

	for _, st := range tours {
		images, err := json.Marshal(st.Images)
		if err != nil {
			return err
		}
		dates, err := json.Marshal(st.StartDates)
		if err != nil {
			return err
		}

		tour := models.Tour{
			Name:            st.Name,
			Slug:            store.Slugify(st.Name),
			Duration:        st.Duration,
			MaxGroupSize:    st.MaxGroupSize,
			Difficulty:      st.Difficulty,
			Price:           st.Price,
			Summary:         st.Summary,
			Description:     st.Description,
			ImageCover:      st.ImageCover,
			Images:          datatypes.JSON(images),
			StartDates:      datatypes.JSON(dates),
			RatingsAverage:  models.DefaultRatingsAverage,
			RatingsQuantity: models.DefaultRatingsQuantity,
			Secret:          st.Secret,
		}
		if err := database.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&tour).Error; err != nil {
			return fmt.Errorf("seed tour %q: %w", st.Name, err)
		}
	}

	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
		Active:       true,
	}
	return database.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&admin).Error
}
