package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tourd/internal/apperr"
	"tourd/internal/bus"
	"tourd/internal/metrics"
	"tourd/internal/models"
)

// tourIDFromRoute extracts the tour id when a route is nested under
// /tours/{tourID}/reviews. Returns uuid.Nil on the flat route.
func tourIDFromRoute(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "tourID")
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.BadRequest("invalid tour id")
	}
	return id, nil
}

// handleListReviews serves either all reviews or, on the nested route, the
// reviews of one tour.
func (api *API) handleListReviews(w http.ResponseWriter, r *http.Request) {
	tourID, err := tourIDFromRoute(r)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}

	var reviews []models.Review
	if tourID != uuid.Nil {
		reviews, err = api.store.Reviews.ListByTour(r.Context(), tourID)
	} else {
		reviews, err = api.store.Reviews.List(r.Context())
	}
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": len(reviews), "reviews": reviews})
}

type createReviewRequest struct {
	Review string    `json:"review"`
	Rating float64   `json:"rating"`
	TourID uuid.UUID `json:"tour"`
}

// handleCreateReview files a review as the authenticated user. The author
// always comes from the session, never from the body.
func (api *API) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}

	tourID, err := tourIDFromRoute(r)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	if tourID == uuid.Nil {
		tourID = req.TourID
	}
	if tourID == uuid.Nil {
		api.respondErr(w, r, apperr.BadRequest("a review must belong to a tour"))
		return
	}
	if _, err := api.store.Tours.ByID(r.Context(), tourID); err != nil {
		api.respondErr(w, r, err)
		return
	}

	review := &models.Review{
		Review: req.Review,
		Rating: req.Rating,
		TourID: tourID,
		UserID: currentUser(r.Context()).ID,
	}
	if err := api.store.Reviews.Create(r.Context(), review); err != nil {
		api.respondErr(w, r, err)
		return
	}

	metrics.ReviewRatings.Observe(review.Rating)
	_ = api.bus.Publish(r.Context(), bus.SubjectReviewChanged, map[string]any{
		"review_id": review.ID,
		"tour_id":   review.TourID,
	})

	respondJSON(w, http.StatusCreated, map[string]any{"review": review})
}

// reviewForWrite loads the target review and enforces ownership: the
// author may edit their own review, admins may edit any.
func (api *API) reviewForWrite(r *http.Request) (*models.Review, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, apperr.BadRequest("invalid review id")
	}
	review, err := api.store.Reviews.ByID(r.Context(), id)
	if err != nil {
		return nil, err
	}

	user := currentUser(r.Context())
	if review.UserID != user.ID && user.Role != models.RoleAdmin {
		return nil, apperr.Forbidden("you can only modify your own reviews")
	}
	return review, nil
}

type updateReviewRequest struct {
	Review *string  `json:"review"`
	Rating *float64 `json:"rating"`
}

func (api *API) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	review, err := api.reviewForWrite(r)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}

	var req updateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}

	// Partial updates keep the stored value for any omitted field.
	text, rating := review.Review, review.Rating
	if req.Review != nil {
		text = *req.Review
	}
	if req.Rating != nil {
		rating = *req.Rating
	}

	updated, err := api.store.Reviews.Update(r.Context(), review.ID, text, rating)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}

	metrics.ReviewRatings.Observe(updated.Rating)
	_ = api.bus.Publish(r.Context(), bus.SubjectReviewChanged, map[string]any{
		"review_id": updated.ID,
		"tour_id":   updated.TourID,
	})

	respondJSON(w, http.StatusOK, map[string]any{"review": updated})
}

func (api *API) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	review, err := api.reviewForWrite(r)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}

	if err := api.store.Reviews.Delete(r.Context(), review.ID); err != nil {
		api.respondErr(w, r, err)
		return
	}

	_ = api.bus.Publish(r.Context(), bus.SubjectReviewChanged, map[string]any{
		"review_id": review.ID,
		"tour_id":   review.TourID,
	})

	w.WriteHeader(http.StatusNoContent)
}
