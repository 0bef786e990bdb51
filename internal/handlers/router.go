package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tourd/internal/apperr"
	"tourd/internal/version"
)

// Routes assembles the full HTTP surface: rendered views at the root and
// the JSON API under /api/v1. Role checks are bound per route; no handler
// relies on middleware ordering for its protection.
func (api *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Rendered views.
	r.Group(func(r chi.Router) {
		r.Use(api.LoggedIn)
		r.Get("/", api.viewOverview)
		r.Get("/tour/{slug}", api.viewTour)
		r.Get("/login", api.viewLogin)
	})
	r.With(api.ProtectView).Get("/me", api.viewAccount)

	// JSON API.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.Limit(api.cfg.RateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP)))

		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", api.handleSignup)
			r.Post("/login", api.handleLogin)
			r.Get("/logout", api.handleLogout)
			r.Post("/forgotPassword", api.handleForgotPassword)
			r.Patch("/resetPassword/{token}", api.handleResetPassword)

			r.With(api.Protect).Patch("/updateMyPassword", api.handleUpdatePassword)
			r.With(api.Protect).Get("/me", api.handleGetMe)
			r.With(api.Protect).Patch("/updateMe", api.handleUpdateMe)
			r.With(api.Protect).Delete("/deleteMe", api.handleDeleteMe)

			admin := r.With(api.Protect, api.authorize(opUsersAdmin))
			admin.Get("/", api.handleListUsers)
			admin.Post("/", api.handleCreateUserStub)
			admin.Get("/{id}", api.handleGetUser)
			admin.Patch("/{id}", api.handleUpdateUser)
			admin.Delete("/{id}", api.handleDeleteUser)
		})

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", api.handleListTours)
			r.Get("/top-5-cheap", api.handleTopCheapTours)
			r.Get("/stats", api.handleTourStats)
			r.Get("/{id}", api.handleGetTour)

			write := r.With(api.Protect, api.authorize(opToursWrite))
			write.Post("/", api.handleCreateTour)
			write.Patch("/{id}", api.handleUpdateTour)
			write.Delete("/{id}", api.handleDeleteTour)

			r.With(api.Protect, api.authorize(opToursImages)).
				Post("/{id}/images", api.handleTourImageUpload)

			// Nested review routes scoped to one tour.
			r.Route("/{tourID}/reviews", func(r chi.Router) {
				r.Get("/", api.handleListReviews)
				r.With(api.Protect, api.authorize(opReviewsCreate)).
					Post("/", api.handleCreateReview)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", api.handleListReviews)
			r.With(api.Protect, api.authorize(opReviewsCreate)).Post("/", api.handleCreateReview)

			write := r.With(api.Protect, api.authorize(opReviewsWrite))
			write.Patch("/{id}", api.handleUpdateReview)
			write.Delete("/{id}", api.handleDeleteReview)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.With(api.Protect).Get("/checkout-session/{tourID}", api.handleCheckoutSession)
			r.With(api.Protect).Get("/my", api.handleMyBookings)

			admin := r.With(api.Protect, api.authorize(opBookingsAdmin))
			admin.Get("/", api.handleListBookings)
			admin.Get("/{id}", api.handleGetBooking)
			admin.Delete("/{id}", api.handleDeleteBooking)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			api.respondErr(w, r, apperr.NotFound("can't find %s on this server", r.URL.Path))
		})
	})

	return otelhttp.NewHandler(r, version.Name)
}
