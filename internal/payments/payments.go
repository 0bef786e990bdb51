// Package payments creates checkout sessions against an external payment
// provider's HTTP API.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is a provider-side checkout session the client gets redirected to.
type Session struct {
	ID          string `json:"id"`
	RedirectURL string `json:"url"`
}

// Client talks to the checkout-session endpoint of the payment provider.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// New builds a Client; returns nil when no base URL is configured so the
// checkout handler can report payments as unavailable.
func New(baseURL, secretKey string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		return nil
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// CheckoutInput describes the purchase a session is created for.
type CheckoutInput struct {
	TourID     uuid.UUID
	TourName   string
	UserID     uuid.UUID
	UserEmail  string
	AmountUnit int64 // price in the smallest currency unit
	SuccessURL string
	CancelURL  string
}

// CreateSession asks the provider for a new checkout session. No retries:
// a failure surfaces immediately to the caller.
func (c *Client) CreateSession(ctx context.Context, in CheckoutInput) (*Session, error) {
	if c == nil {
		return nil, fmt.Errorf("payments not configured")
	}

	form := url.Values{}
	form.Set("client_reference_id", in.TourID.String())
	form.Set("customer_email", in.UserEmail)
	form.Set("success_url", in.SuccessURL)
	form.Set("cancel_url", in.CancelURL)
	form.Set("line_items[0][name]", in.TourName)
	form.Set("line_items[0][amount]", strconv.FormatInt(in.AmountUnit, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[user_id]", in.UserID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment provider returned %s", resp.Status)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("payment provider returned an empty session")
	}
	return &session, nil
}
