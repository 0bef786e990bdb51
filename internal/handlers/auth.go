package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tourd/internal/apperr"
	"tourd/internal/auth"
	"tourd/internal/bus"
	"tourd/internal/metrics"
	"tourd/internal/models"
)

// createSendToken issues a session token for user, sets the session cookie,
// and writes the standard token+user payload.
func (api *API) createSendToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := auth.IssueToken(user.ID, []byte(api.cfg.JWTSecret), api.cfg.JWTTTL)
	if err != nil {
		api.respondErr(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(api.cfg.JWTCookieTTL),
		HttpOnly: true,
		Secure:   api.cfg.CookieSecure || api.cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, status, map[string]any{
		"token": token,
		"user":  user,
	})
}

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// handleSignup creates an account from the whitelisted fields only; a role
// in the body would be a privilege grab and is rejected by the strict
// decoder.
func (api *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.RoleUser,
	}
	if err := api.store.Users.Create(r.Context(), user, req.Password, req.PasswordConfirm); err != nil {
		api.respondErr(w, r, err)
		return
	}

	metrics.Signups.Inc()
	_ = api.bus.Publish(r.Context(), bus.SubjectUserSignedUp, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})

	if api.mailer != nil {
		if err := api.mailer.SendWelcome(user.Email, user.Name, api.cfg.PublicBaseURL+"/me"); err != nil {
			log.Warn().Err(err).Str("email", user.Email).Msg("send welcome mail failed")
		}
	}

	api.createSendToken(w, r, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin never reveals which of email or password was wrong.
func (api *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		api.respondErr(w, r, apperr.BadRequest("please provide email and password"))
		return
	}

	user, err := api.store.Users.ByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.Logins.WithLabelValues("failure").Inc()
		api.respondErr(w, r, apperr.Unauthorized("incorrect email or password"))
		return
	}

	metrics.Logins.WithLabelValues("success").Inc()
	api.createSendToken(w, r, http.StatusOK, user)
}

// handleLogout overwrites the client's cookie with a short-lived sentinel.
func (api *API) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    logoutSentinel,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// handleForgotPassword issues a one-time reset token and mails the raw
// value. If delivery fails the stored token is cleared again, so no valid
// reset credential dangles that the user never received.
func (api *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}

	user, err := api.store.Users.ByEmail(r.Context(), req.Email)
	if err != nil {
		if apperr.As(err) != nil {
			api.respondErr(w, r, apperr.NotFound("there is no user with that email address"))
			return
		}
		api.respondErr(w, r, err)
		return
	}

	raw, hashed, err := auth.NewResetToken()
	if err != nil {
		api.respondErr(w, r, err)
		return
	}
	expires := time.Now().Add(resetTokenTTL)
	if err := api.store.Users.SaveResetToken(r.Context(), user.ID, hashed, expires); err != nil {
		api.respondErr(w, r, err)
		return
	}

	resetURL := api.cfg.PublicBaseURL + "/api/v1/users/resetPassword/" + raw
	var sendErr error
	if api.mailer == nil {
		sendErr = apperr.New(http.StatusInternalServerError, "mail delivery is not configured")
	} else {
		sendErr = api.mailer.SendPasswordReset(user.Email, user.Name, resetURL)
	}
	if sendErr != nil {
		// Compensating action: the user never saw the token.
		if clearErr := api.store.Users.ClearResetToken(r.Context(), user.ID); clearErr != nil {
			log.Error().Err(clearErr).Str("email", user.Email).Msg("clear reset token failed")
		}
		log.Warn().Err(sendErr).Str("email", user.Email).Msg("send reset mail failed")
		api.respondErr(w, r, apperr.New(http.StatusInternalServerError,
			"there was an error sending the email, try again later"))
		return
	}

	metrics.PasswordResets.WithLabelValues("requested").Inc()
	respondJSON(w, http.StatusOK, map[string]any{"message": "token sent to email"})
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// handleResetPassword redeems a raw reset token. Redemption re-hashes the
// password, stamps the change time, clears the reset fields, and logs the
// user in with a fresh session token.
func (api *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}

	hashed := auth.HashResetToken(chi.URLParam(r, "token"))
	user, err := api.store.Users.ByResetToken(r.Context(), hashed, time.Now())
	if err != nil {
		if apperr.As(err) != nil {
			api.respondErr(w, r, apperr.BadRequest("token is invalid or has expired"))
			return
		}
		api.respondErr(w, r, err)
		return
	}

	if err := api.store.Users.SetPassword(r.Context(), user, req.Password, req.PasswordConfirm); err != nil {
		api.respondErr(w, r, err)
		return
	}

	metrics.PasswordResets.WithLabelValues("redeemed").Inc()
	api.createSendToken(w, r, http.StatusOK, user)
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// handleUpdatePassword lets a logged-in user rotate their password after
// re-proving the current one.
func (api *API) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())

	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		api.respondErr(w, r, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.PasswordCurrent) {
		api.respondErr(w, r, apperr.Unauthorized("your current password is wrong"))
		return
	}

	if err := api.store.Users.SetPassword(r.Context(), user, req.Password, req.PasswordConfirm); err != nil {
		api.respondErr(w, r, err)
		return
	}

	api.createSendToken(w, r, http.StatusOK, user)
}
