package store

import (
	"testing"

	"tourd/internal/models"
)

func validTour() *models.Tour {
	return &models.Tour{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   models.DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike",
	}
}

func TestValidateTour(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Tour)
		wantErr bool
	}{
		{name: "valid", mutate: func(*models.Tour) {}},
		{name: "name too short", mutate: func(tr *models.Tour) { tr.Name = "Short" }, wantErr: true},
		{name: "name too long", mutate: func(tr *models.Tour) {
			tr.Name = "This tour name is far far far too long to be accepted"
		}, wantErr: true},
		{name: "missing duration", mutate: func(tr *models.Tour) { tr.Duration = 0 }, wantErr: true},
		{name: "bad difficulty", mutate: func(tr *models.Tour) { tr.Difficulty = "extreme" }, wantErr: true},
		{name: "missing price", mutate: func(tr *models.Tour) { tr.Price = 0 }, wantErr: true},
		{name: "discount above price", mutate: func(tr *models.Tour) { tr.PriceDiscount = 400 }, wantErr: true},
		{name: "missing summary", mutate: func(tr *models.Tour) { tr.Summary = " " }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tour := validTour()
			tt.mutate(tour)
			err := validateTour(tour)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateTour() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
