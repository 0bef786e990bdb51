package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourd/internal/models"
	"tourd/internal/payments"
)

// stubProvider imitates the payment provider's checkout-session endpoint.
func stubProvider(t *testing.T, capture *map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if capture != nil {
			m := map[string]string{}
			for k := range r.Form {
				m[k] = r.Form.Get(k)
			}
			*capture = m
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":  "cs_test_123",
			"url": "https://checkout.test/cs_test_123",
		})
	}))
}

func TestCheckoutSessionCreatesPendingBooking(t *testing.T) {
	var form map[string]string
	provider := stubProvider(t, &form)
	defer provider.Close()

	env := newTestEnv(t, WithPayments(payments.New(provider.URL, "sk_test")))
	tour := env.seedTour(t, "The Forest Hiker", 397)
	user, token := env.seedUser(t, "Alice", "alice@example.com", models.RoleUser)

	resp, body := doJSON(t, http.MethodGet,
		env.server.URL+"/api/v1/bookings/checkout-session/"+tour.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "cs_test_123")

	// Amount is sent in the smallest currency unit.
	assert.Equal(t, "39700", form["line_items[0][amount]"])
	assert.Equal(t, "alice@example.com", form["customer_email"])

	bookings, err := env.bookings.ListByUser(t.Context(), user.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, tour.Price, bookings[0].Price)
	assert.False(t, bookings[0].Paid)
}

func TestCheckoutSessionProviderDown(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer provider.Close()

	env := newTestEnv(t, WithPayments(payments.New(provider.URL, "sk_test")))
	tour := env.seedTour(t, "The Forest Hiker", 397)
	user, token := env.seedUser(t, "Alice", "alice@example.com", models.RoleUser)

	resp, body := doJSON(t, http.MethodGet,
		env.server.URL+"/api/v1/bookings/checkout-session/"+tour.ID.String(), token, nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, string(body), "payment provider")

	// No booking is recorded when the provider fails.
	bookings, err := env.bookings.ListByUser(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestCheckoutSessionWithoutPayments(t *testing.T) {
	env := newTestEnv(t)
	tour := env.seedTour(t, "The Forest Hiker", 397)
	_, token := env.seedUser(t, "Alice", "alice@example.com", models.RoleUser)

	resp, body := doJSON(t, http.MethodGet,
		env.server.URL+"/api/v1/bookings/checkout-session/"+tour.ID.String(), token, nil)
	require.Equal(t, http.StatusFailedDependency, resp.StatusCode)
	assert.Contains(t, string(body), "payments are not configured")
}

func TestMyBookings(t *testing.T) {
	env := newTestEnv(t)
	tour := env.seedTour(t, "The Forest Hiker", 397)
	alice, aliceToken := env.seedUser(t, "Alice", "alice@example.com", models.RoleUser)
	_, bobToken := env.seedUser(t, "Bob", "bob@example.com", models.RoleUser)

	require.NoError(t, env.bookings.Create(t.Context(), &models.Booking{
		TourID: tour.ID, UserID: alice.ID, Price: tour.Price,
	}))

	resp, body := doJSON(t, http.MethodGet, env.server.URL+"/api/v1/bookings/my", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Results int `json:"results"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 1, out.Results)

	resp, body = doJSON(t, http.MethodGet, env.server.URL+"/api/v1/bookings/my", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 0, out.Results)
}

func TestBookingAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	tour := env.seedTour(t, "The Forest Hiker", 397)
	alice, userToken := env.seedUser(t, "Alice", "alice@example.com", models.RoleUser)
	_, adminToken := env.seedUser(t, "Root", "root@example.com", models.RoleAdmin)

	booking := &models.Booking{TourID: tour.ID, UserID: alice.ID, Price: tour.Price}
	require.NoError(t, env.bookings.Create(t.Context(), booking))

	resp, _ := doJSON(t, http.MethodGet, env.server.URL+"/api/v1/bookings/", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, env.server.URL+"/api/v1/bookings/", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete,
		env.server.URL+"/api/v1/bookings/"+booking.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
