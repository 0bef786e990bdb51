package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tourd/internal/apperr"
	"tourd/internal/store"
)

// renderHTML executes a view template and writes it, falling back to the
// error page on failure.
func (api *API) renderHTML(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	html, err := api.renderer.Render(name, data)
	if err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		api.renderError(w, r, apperr.New(http.StatusInternalServerError, "please try again later"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

// renderError writes the error page with an operational message when one
// exists and a generic one otherwise.
func (api *API) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "please try again later"
	if ae := apperr.As(err); ae != nil {
		status, message = ae.Status, ae.Message
	} else {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("view error")
	}

	html, rerr := api.renderer.Render("error.tmpl", map[string]any{"Message": message})
	if rerr != nil {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

// viewOverview is the landing page: all public tours.
func (api *API) viewOverview(w http.ResponseWriter, r *http.Request) {
	tours, err := api.store.Tours.List(r.Context(), store.TourListOptions{})
	if err != nil {
		api.renderError(w, r, err)
		return
	}
	api.renderHTML(w, r, http.StatusOK, "overview.tmpl", map[string]any{
		"User":  currentUser(r.Context()),
		"Tours": tours,
	})
}

// viewTour shows a single tour by slug with its reviews.
func (api *API) viewTour(w http.ResponseWriter, r *http.Request) {
	tour, err := api.store.Tours.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.Status == http.StatusNotFound {
			api.renderError(w, r, apperr.NotFound("there is no tour with that name"))
			return
		}
		api.renderError(w, r, err)
		return
	}

	reviews, err := api.store.Reviews.ListByTour(r.Context(), tour.ID)
	if err != nil {
		api.renderError(w, r, err)
		return
	}

	api.renderHTML(w, r, http.StatusOK, "tour.tmpl", map[string]any{
		"User":    currentUser(r.Context()),
		"Tour":    tour,
		"Reviews": reviews,
	})
}

func (api *API) viewLogin(w http.ResponseWriter, r *http.Request) {
	api.renderHTML(w, r, http.StatusOK, "login.tmpl", map[string]any{
		"User": currentUser(r.Context()),
	})
}

// viewAccount is the authenticated user's dashboard with their bookings.
func (api *API) viewAccount(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	bookings, err := api.store.Bookings.ListByUser(r.Context(), user.ID)
	if err != nil {
		api.renderError(w, r, err)
		return
	}
	api.renderHTML(w, r, http.StatusOK, "account.tmpl", map[string]any{
		"User":     user,
		"Bookings": bookings,
	})
}
