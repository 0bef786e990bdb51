package handlers

import (
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tourd/internal/apperr"
	"tourd/internal/models"
	"tourd/internal/store"
)

// handleListTours serves the tour collection. Query parameters narrow the
// listing: sort (whitelisted keys), limit, difficulty.
func (api *API) handleListTours(w http.ResponseWriter, r *http.Request) {
	opts := store.TourListOptions{
		Sort:       r.URL.Query().Get("sort"),
		Difficulty: r.URL.Query().Get("difficulty"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			api.respondErr(w, r, apperr.BadRequest("limit must be a non-negative integer"))
			return
		}
		opts.Limit = limit
	}

	tours, err := api.store.Tours.List(r.Context(), opts)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": len(tours), "tours": tours})
}

// handleTopCheapTours is the canned "best value" listing: highest rated
// first, cheapest among equals, capped at five.
func (api *API) handleTopCheapTours(w http.ResponseWriter, r *http.Request) {
	tours, err := api.store.Tours.List(r.Context(), store.TourListOptions{
		Sort:  "-ratingsAverage,price",
		Limit: 5,
	})
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": len(tours), "tours": tours})
}

func (api *API) handleTourStats(w http.ResponseWriter, r *http.Request) {
	stats, err := api.store.Tours.Stats(r.Context())
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (api *API) handleGetTour(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.respondErr(w, r, apperr.BadRequest("invalid tour id"))
		return
	}
	tour, err := api.store.Tours.ByID(r.Context(), id)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tour": tour})
}

// tourRequest is the write payload for the role-gated tour routes. Secret
// is writable here even though it never appears in responses; the derived
// rating fields are not accepted at all.
type tourRequest struct {
	Name          *string         `json:"name"`
	Duration      *int            `json:"duration"`
	MaxGroupSize  *int            `json:"maxGroupSize"`
	Difficulty    *string         `json:"difficulty"`
	Price         *float64        `json:"price"`
	PriceDiscount *float64        `json:"priceDiscount"`
	Summary       *string         `json:"summary"`
	Description   *string         `json:"description"`
	ImageCover    *string         `json:"imageCover"`
	Images        *datatypes.JSON `json:"images"`
	StartDates    *datatypes.JSON `json:"startDates"`
	Secret        *bool           `json:"secret"`
}

// apply overlays the provided fields onto tour, leaving omitted ones as
// they are.
func (req *tourRequest) apply(tour *models.Tour) {
	if req.Name != nil {
		tour.Name = *req.Name
	}
	if req.Duration != nil {
		tour.Duration = *req.Duration
	}
	if req.MaxGroupSize != nil {
		tour.MaxGroupSize = *req.MaxGroupSize
	}
	if req.Difficulty != nil {
		tour.Difficulty = *req.Difficulty
	}
	if req.Price != nil {
		tour.Price = *req.Price
	}
	if req.PriceDiscount != nil {
		tour.PriceDiscount = *req.PriceDiscount
	}
	if req.Summary != nil {
		tour.Summary = *req.Summary
	}
	if req.Description != nil {
		tour.Description = *req.Description
	}
	if req.ImageCover != nil {
		tour.ImageCover = *req.ImageCover
	}
	if req.Images != nil {
		tour.Images = *req.Images
	}
	if req.StartDates != nil {
		tour.StartDates = *req.StartDates
	}
	if req.Secret != nil {
		tour.Secret = *req.Secret
	}
}

func (api *API) handleCreateTour(w http.ResponseWriter, r *http.Request) {
	var req tourRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}

	var tour models.Tour
	req.apply(&tour)
	if err := api.store.Tours.Create(r.Context(), &tour); err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"tour": &tour})
}

func (api *API) handleUpdateTour(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.respondErr(w, r, apperr.BadRequest("invalid tour id"))
		return
	}

	tour, err := api.store.Tours.ByIDAny(r.Context(), id)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}

	var req tourRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}
	req.apply(tour)
	if err := api.store.Tours.Update(r.Context(), tour); err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tour": tour})
}

func (api *API) handleDeleteTour(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.respondErr(w, r, apperr.BadRequest("invalid tour id"))
		return
	}
	if err := api.store.Tours.Delete(r.Context(), id); err != nil {
		api.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type tourImageRequest struct {
	Filename string `json:"filename"`
}

// handleTourImageUpload presigns an upload slot for a tour image. The
// object key is namespaced per tour so uploads cannot clobber each other.
func (api *API) handleTourImageUpload(w http.ResponseWriter, r *http.Request) {
	if api.images == nil {
		api.respondErr(w, r, apperr.New(http.StatusFailedDependency,
			"image storage is not configured"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.respondErr(w, r, apperr.BadRequest("invalid tour id"))
		return
	}
	if _, err := api.store.Tours.ByIDAny(r.Context(), id); err != nil {
		api.respondErr(w, r, err)
		return
	}

	var req tourImageRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}
	name := path.Base(req.Filename)
	if name == "" || name == "." || name == "/" {
		api.respondErr(w, r, apperr.BadRequest("a filename is required"))
		return
	}

	key := fmt.Sprintf("tours/%s/%d-%s", id, time.Now().UnixNano(), name)
	url, err := api.images.PresignPut(r.Context(), api.cfg.ImageBucket, key, presignURLExpiry)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"uploadUrl": url,
		"key":       key,
		"expiresIn": int(presignURLExpiry.Seconds()),
	})
}
