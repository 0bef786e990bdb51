package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tourd/internal/apperr"
	"tourd/internal/auth"
)

// bearerFromRequest locates the session token: the Authorization header
// takes precedence, then the session cookie. The logout sentinel counts as
// no token.
func bearerFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		// A non-Bearer header (Basic, proxy schemes) does not preclude a
		// valid session cookie.
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != logoutSentinel {
		return cookie.Value
	}
	return ""
}

// resolveUser turns a raw token into a live user: verify, resolve against
// the credential store (active users only), reject tokens issued before the
// last password change.
func (api *API) resolveUser(r *http.Request) (*http.Request, error) {
	token := bearerFromRequest(r)
	if token == "" {
		return r, apperr.Unauthorized("you are not logged in, please log in to get access")
	}

	userID, issuedAt, err := auth.VerifyToken(token, []byte(api.cfg.JWTSecret))
	if err != nil {
		return r, apperr.FromToken(err)
	}

	user, err := api.store.Users.ByID(r.Context(), userID)
	if err != nil {
		if apperr.As(err) != nil {
			return r, apperr.Unauthorized("the user belonging to this token no longer exists")
		}
		return r, err
	}

	if user.ChangedPasswordAfter(issuedAt) {
		return r, apperr.Unauthorized("password changed recently, please log in again")
	}

	return r.WithContext(withUser(r.Context(), user)), nil
}

// Protect is the blocking session middleware: no valid session, no access.
func (api *API) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved, err := api.resolveUser(r)
		if err != nil {
			api.respondErr(w, r, err)
			return
		}
		next.ServeHTTP(w, resolved)
	})
}

// LoggedIn is the non-blocking variant for rendered pages: resolution
// failure just means no user attached.
func (api *API) LoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if resolved, err := api.resolveUser(r); err == nil {
			r = resolved
		}
		next.ServeHTTP(w, r)
	})
}

// ProtectView is Protect for rendered pages: an anonymous visitor is sent
// to the login page instead of a JSON error.
func (api *API) ProtectView(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved, err := api.resolveUser(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, resolved)
	})
}

// requestLogger emits one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}
