package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tourd/internal/apperr"
)

// handleGetMe returns the authenticated user's own profile.
func (api *API) handleGetMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"user": currentUser(r.Context())})
}

type updateMeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`

	// Password fields are rejected here; the dedicated password route is
	// the only write path that re-hashes credentials.
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (api *API) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}
	if req.Password != "" || req.PasswordConfirm != "" {
		api.respondErr(w, r, apperr.BadRequest(
			"this route is not for password updates, please use /updateMyPassword"))
		return
	}

	user := currentUser(r.Context())
	updated, err := api.store.Users.UpdateProfile(r.Context(), user.ID, req.Name, req.Email, req.Photo)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}

// handleDeleteMe soft-deletes the account. The record stays in the table
// but disappears from every read path.
func (api *API) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := api.store.Users.Deactivate(r.Context(), currentUser(r.Context()).ID); err != nil {
		api.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Admin user management below.

func (api *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := api.store.Users.List(r.Context())
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": len(users), "users": users})
}

func (api *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.respondErr(w, r, apperr.BadRequest("invalid user id"))
		return
	}
	user, err := api.store.Users.ByID(r.Context(), id)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

type adminUpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Role  string `json:"role"`
}

func (api *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.respondErr(w, r, apperr.BadRequest("invalid user id"))
		return
	}

	var req adminUpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}

	user, err := api.store.Users.UpdateProfile(r.Context(), id, req.Name, req.Email, req.Photo)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	if req.Role != "" {
		if user, err = api.store.Users.SetRole(r.Context(), id, req.Role); err != nil {
			api.respondErr(w, r, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (api *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.respondErr(w, r, apperr.BadRequest("invalid user id"))
		return
	}
	if err := api.store.Users.Deactivate(r.Context(), id); err != nil {
		api.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateUserStub keeps POST /users mapped but accounts are only
// created through signup, where credentials are handled properly.
func (api *API) handleCreateUserStub(w http.ResponseWriter, r *http.Request) {
	api.respondErr(w, r, apperr.New(http.StatusInternalServerError,
		"this route is not defined, please use /signup instead"))
}
