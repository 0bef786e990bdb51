package handlers

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"tourd/internal/apperr"
	"tourd/internal/auth"
	"tourd/internal/config"
	"tourd/internal/models"
	"tourd/internal/render"
	"tourd/internal/store"
)

// In-memory store fakes backing the handler tests. They mirror the
// read-path predicates of the real store: inactive users and secret tours
// stay invisible.

type fakeUsers struct {
	mu    sync.Mutex
	users []*models.User
}

func (f *fakeUsers) Create(_ context.Context, user *models.User, password, confirm string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(password) < 8 || password != confirm {
		return apperr.BadRequest("passwords must match and have at least 8 characters")
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperr.BadRequest("duplicate field value")
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user.ID = uuid.New()
	user.PasswordHash = hash
	user.Active = true
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUsers) ByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id && u.Active {
			return u, nil
		}
	}
	return nil, apperr.NotFound("no user found with that ID")
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.Active {
			return u, nil
		}
	}
	return nil, apperr.NotFound("no user found with that email")
}

func (f *fakeUsers) ByResetToken(_ context.Context, hashedToken string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Active && u.PasswordResetToken == hashedToken && u.HasActiveResetToken(now) {
			return u, nil
		}
	}
	return nil, apperr.NotFound("no user found for that token")
}

func (f *fakeUsers) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, id uuid.UUID, name, email, photo string) (*models.User, error) {
	u, err := f.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if name != "" {
		u.Name = name
	}
	if email != "" {
		u.Email = email
	}
	if photo != "" {
		u.Photo = photo
	}
	return u, nil
}

func (f *fakeUsers) SetPassword(_ context.Context, user *models.User, password, confirm string) error {
	if len(password) < 8 || password != confirm {
		return apperr.BadRequest("passwords must match and have at least 8 characters")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := time.Now().Add(-time.Second)
	user.PasswordHash = hash
	user.PasswordChangedAt = &changed
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	return nil
}

func (f *fakeUsers) SaveResetToken(ctx context.Context, id uuid.UUID, hashedToken string, expires time.Time) error {
	u, err := f.ByID(ctx, id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u.PasswordResetToken = hashedToken
	u.PasswordResetExpires = &expires
	return nil
}

func (f *fakeUsers) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	u, err := f.ByID(ctx, id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
	return nil
}

func (f *fakeUsers) SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, apperr.BadRequest("invalid role")
	}
	u, err := f.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	return u, nil
}

func (f *fakeUsers) Deactivate(ctx context.Context, id uuid.UUID) error {
	u, err := f.ByID(ctx, id)
	if err != nil {
		return err
	}
	u.Active = false
	return nil
}

type fakeTours struct {
	mu    sync.Mutex
	tours []*models.Tour
}

func (f *fakeTours) Create(_ context.Context, tour *models.Tour) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tour.ID = uuid.New()
	tour.Slug = store.Slugify(tour.Name)
	if tour.RatingsAverage == 0 {
		tour.RatingsAverage = models.DefaultRatingsAverage
	}
	f.tours = append(f.tours, tour)
	return nil
}

func (f *fakeTours) ByID(_ context.Context, id uuid.UUID) (*models.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tours {
		if t.ID == id && !t.Secret {
			return t, nil
		}
	}
	return nil, apperr.NotFound("tour not found")
}

func (f *fakeTours) ByIDAny(_ context.Context, id uuid.UUID) (*models.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tours {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, apperr.NotFound("tour not found")
}

func (f *fakeTours) BySlug(_ context.Context, slug string) (*models.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tours {
		if t.Slug == slug && !t.Secret {
			return t, nil
		}
	}
	return nil, apperr.NotFound("tour not found")
}

func (f *fakeTours) List(_ context.Context, opts store.TourListOptions) ([]models.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Tour
	for _, t := range f.tours {
		if t.Secret && !opts.IncludeSecret {
			continue
		}
		if opts.Difficulty != "" && t.Difficulty != opts.Difficulty {
			continue
		}
		out = append(out, *t)
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeTours) Update(ctx context.Context, tour *models.Tour) error {
	existing, err := f.ByIDAny(ctx, tour.ID)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	*existing = *tour
	existing.Slug = store.Slugify(existing.Name)
	return nil
}

func (f *fakeTours) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tours {
		if t.ID == id {
			f.tours = append(f.tours[:i], f.tours[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("tour not found")
}

func (f *fakeTours) Stats(_ context.Context) ([]store.TourStats, error) {
	return []store.TourStats{}, nil
}

type fakeReviews struct {
	mu      sync.Mutex
	reviews []*models.Review
}

func (f *fakeReviews) Create(_ context.Context, review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if review.Rating < 1 || review.Rating > 5 {
		return apperr.BadRequest("rating must be between 1.0 and 5.0")
	}
	for _, rv := range f.reviews {
		if rv.TourID == review.TourID && rv.UserID == review.UserID {
			return apperr.BadRequest("duplicate field value")
		}
	}
	review.ID = uuid.New()
	f.reviews = append(f.reviews, review)
	return nil
}

func (f *fakeReviews) ByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rv := range f.reviews {
		if rv.ID == id {
			return rv, nil
		}
	}
	return nil, apperr.NotFound("review not found")
}

func (f *fakeReviews) List(_ context.Context) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Review, 0, len(f.reviews))
	for _, rv := range f.reviews {
		out = append(out, *rv)
	}
	return out, nil
}

func (f *fakeReviews) ListByTour(_ context.Context, tourID uuid.UUID) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Review
	for _, rv := range f.reviews {
		if rv.TourID == tourID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (f *fakeReviews) Update(ctx context.Context, id uuid.UUID, text string, rating float64) (*models.Review, error) {
	rv, err := f.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, apperr.BadRequest("rating must be between 1.0 and 5.0")
	}
	rv.Review = text
	rv.Rating = rating
	return rv, nil
}

func (f *fakeReviews) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, rv := range f.reviews {
		if rv.ID == id {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("review not found")
}

type fakeBookings struct {
	mu       sync.Mutex
	bookings []*models.Booking
}

func (f *fakeBookings) Create(_ context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking.ID = uuid.New()
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeBookings) ByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, apperr.NotFound("booking not found")
}

func (f *fakeBookings) List(_ context.Context) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.bookings {
		if b.ID == id {
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("booking not found")
}

type testEnv struct {
	api      *API
	server   *httptest.Server
	users    *fakeUsers
	tours    *fakeTours
	reviews  *fakeReviews
	bookings *fakeBookings
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    &fakeUsers{},
		tours:    &fakeTours{},
		reviews:  &fakeReviews{},
		bookings: &fakeBookings{},
	}

	renderer, err := render.New()
	require.NoError(t, err)

	cfg := config.Config{
		Addr:          ":0",
		Env:           "test",
		JWTSecret:     "test-secret",
		JWTTTL:        time.Hour,
		JWTCookieTTL:  time.Hour,
		PublicBaseURL: "http://example.test",
		RateLimit:     1000,
	}

	env.api, err = New(cfg, &store.Store{
		Users:    env.users,
		Tours:    env.tours,
		Reviews:  env.reviews,
		Bookings: env.bookings,
	}, renderer, opts...)
	require.NoError(t, err)

	env.server = httptest.NewServer(env.api.Routes())
	t.Cleanup(env.server.Close)
	return env
}

// seedUser inserts a user directly and returns it with a valid session token.
func (env *testEnv) seedUser(t *testing.T, name, email, role string) (*models.User, string) {
	t.Helper()

	user := &models.User{Name: name, Email: email, Role: role}
	require.NoError(t, env.users.Create(context.Background(), user, "pass1234", "pass1234"))

	token, err := auth.IssueToken(user.ID, []byte(env.api.cfg.JWTSecret), time.Hour)
	require.NoError(t, err)
	return user, token
}

// seedTour inserts a public tour.
func (env *testEnv) seedTour(t *testing.T, name string, price float64) *models.Tour {
	t.Helper()

	tour := &models.Tour{
		Name:         name,
		Duration:     5,
		MaxGroupSize: 10,
		Difficulty:   models.DifficultyEasy,
		Price:        price,
		Summary:      "a summary",
	}
	require.NoError(t, env.tours.Create(context.Background(), tour))
	return tour
}
