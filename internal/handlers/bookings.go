package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tourd/internal/apperr"
	"tourd/internal/bus"
	"tourd/internal/metrics"
	"tourd/internal/models"
	"tourd/internal/payments"
)

// handleCheckoutSession opens a checkout session for a tour and records a
// pending booking. The booking copies the tour price at checkout time so a
// later price change does not alter what the customer owes.
func (api *API) handleCheckoutSession(w http.ResponseWriter, r *http.Request) {
	if api.payments == nil {
		api.respondErr(w, r, apperr.New(http.StatusFailedDependency,
			"payments are not configured"))
		return
	}

	tourID, err := uuid.Parse(chi.URLParam(r, "tourID"))
	if err != nil {
		api.respondErr(w, r, apperr.BadRequest("invalid tour id"))
		return
	}
	tour, err := api.store.Tours.ByID(r.Context(), tourID)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}

	user := currentUser(r.Context())
	session, err := api.payments.CreateSession(r.Context(), payments.CheckoutInput{
		TourID:     tour.ID,
		TourName:   tour.Name,
		UserID:     user.ID,
		UserEmail:  user.Email,
		AmountUnit: int64(tour.Price * 100),
		SuccessURL: api.cfg.PublicBaseURL + "/me",
		CancelURL:  api.cfg.PublicBaseURL + "/tour/" + tour.Slug,
	})
	if err != nil {
		log.Error().Err(err).Str("tour_id", tour.ID.String()).Msg("create checkout session failed")
		api.respondErr(w, r, apperr.New(http.StatusBadGateway,
			"could not reach the payment provider, try again later"))
		return
	}

	booking := &models.Booking{
		TourID: tour.ID,
		UserID: user.ID,
		Price:  tour.Price,
		Paid:   false,
	}
	if err := api.store.Bookings.Create(r.Context(), booking); err != nil {
		api.respondErr(w, r, err)
		return
	}

	metrics.CheckoutSessions.Inc()
	_ = api.bus.Publish(r.Context(), bus.SubjectBookingMade, map[string]any{
		"booking_id": booking.ID,
		"tour_id":    tour.ID,
		"user_id":    user.ID,
	})

	respondJSON(w, http.StatusOK, map[string]any{"session": session})
}

// handleMyBookings lists the authenticated user's bookings with their tours.
func (api *API) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := api.store.Bookings.ListByUser(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": len(bookings), "bookings": bookings})
}

func (api *API) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := api.store.Bookings.List(r.Context())
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": len(bookings), "bookings": bookings})
}

func (api *API) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.respondErr(w, r, apperr.BadRequest("invalid booking id"))
		return
	}
	booking, err := api.store.Bookings.ByID(r.Context(), id)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

func (api *API) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.respondErr(w, r, apperr.BadRequest("invalid booking id"))
		return
	}
	if err := api.store.Bookings.Delete(r.Context(), id); err != nil {
		api.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
