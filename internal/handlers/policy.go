package handlers

import (
	"fmt"
	"net/http"

	"tourd/internal/apperr"
	"tourd/internal/models"
)

// Role-restricted operations. Every entry is bound to its route explicitly
// in Routes; nothing inherits a restriction from middleware ordering.
const (
	opToursWrite    = "tours.write"
	opToursImages   = "tours.images"
	opReviewsCreate = "reviews.create"
	opReviewsWrite  = "reviews.write"
	opUsersAdmin    = "users.admin"
	opBookingsAdmin = "bookings.admin"
)

// routePolicy is the declarative access table: operation -> allowed roles.
var routePolicy = map[string][]string{
	opToursWrite:    {models.RoleAdmin, models.RoleLeadGuide},
	opToursImages:   {models.RoleAdmin, models.RoleLeadGuide},
	opReviewsCreate: {models.RoleUser},
	opReviewsWrite:  {models.RoleUser, models.RoleAdmin},
	opUsersAdmin:    {models.RoleAdmin},
	opBookingsAdmin: {models.RoleAdmin},
}

// authorize enforces the policy table for one operation. It must run after
// Protect; finding no user in the context is a wiring bug, not a client
// error, and surfaces as a programming error.
func (api *API) authorize(op string) func(http.Handler) http.Handler {
	allowed, ok := routePolicy[op]
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ok {
				api.respondErr(w, r, fmt.Errorf("authorize: unknown operation %q", op))
				return
			}
			user := currentUser(r.Context())
			if user == nil {
				api.respondErr(w, r, fmt.Errorf("authorize(%s): no authenticated user in context", op))
				return
			}
			for _, role := range allowed {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			api.respondErr(w, r, apperr.Forbidden("you do not have permission to perform this action"))
		})
	}
}
