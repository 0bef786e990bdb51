package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"tourd/internal/apperr"
)

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return apperr.BadRequest("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return apperr.BadRequest("invalid request body: %v", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// respondErr is the single place errors become responses. Operational
// errors pass their message and status through; everything else is logged
// and reduced to a generic message so internals never leak (always in
// production, and with detail attached only during development).
func (api *API) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	if op := apperr.As(err); op != nil {
		respondJSON(w, op.Status, map[string]any{"error": op.Message})
		return
	}

	log.Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("unhandled error")

	msg := "something went very wrong"
	if !api.cfg.Production() {
		msg = err.Error()
	}
	respondJSON(w, http.StatusInternalServerError, map[string]any{"error": msg})
}
