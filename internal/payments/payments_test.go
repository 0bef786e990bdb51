package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	userID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "guide@example.com", r.PostForm.Get("customer_email"))
		assert.Equal(t, "39700", r.PostForm.Get("line_items[0][amount]"))
		assert.Equal(t, userID.String(), r.PostForm.Get("metadata[user_id]"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":  "cs_123",
			"url": "https://pay.example.com/cs_123",
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "sk_test")
	session, err := client.CreateSession(context.Background(), CheckoutInput{
		TourID:     uuid.New(),
		TourName:   "The Forest Hiker",
		UserID:     userID,
		UserEmail:  "guide@example.com",
		AmountUnit: 39700,
		SuccessURL: "https://tourd.local/",
		CancelURL:  "https://tourd.local/tour/the-forest-hiker",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_123", session.ID)
	assert.Equal(t, "https://pay.example.com/cs_123", session.RedirectURL)
}

func TestCreateSessionProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL, "sk_test")
	_, err := client.CreateSession(context.Background(), CheckoutInput{AmountUnit: 100})
	require.Error(t, err)
}

func TestNilClient(t *testing.T) {
	var client *Client
	_, err := client.CreateSession(context.Background(), CheckoutInput{})
	require.Error(t, err)
}
