// Package handlers wires the HTTP surface: REST API, rendered views, and
// the session middleware in front of both.
package handlers

import (
	"errors"
	"time"

	"tourd/internal/bus"
	"tourd/internal/config"
	"tourd/internal/mail"
	"tourd/internal/payments"
	"tourd/internal/render"
	"tourd/internal/storage"
	"tourd/internal/store"
)

const (
	sessionCookie  = "jwt"
	logoutSentinel = "loggedout"

	resetTokenTTL    = 10 * time.Minute
	presignURLExpiry = 15 * time.Minute
)

// API wires dependencies, template renderer, and configuration for HTTP
// handlers. Mail, payments, object storage, and the event bus are optional;
// the routes needing them degrade with an explicit error.
type API struct {
	cfg      config.Config
	store    *store.Store
	renderer *render.Engine
	mailer   mail.Sender
	payments *payments.Client
	images   *storage.Client
	bus      *bus.Bus
}

// New initialises the API layer.
func New(cfg config.Config, st *store.Store, renderer *render.Engine, opts ...Option) (*API, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is required")
	}

	api := &API{
		cfg:      cfg,
		store:    st,
		renderer: renderer,
	}
	for _, opt := range opts {
		opt(api)
	}
	return api, nil
}

// Option attaches an optional dependency to the API.
type Option func(*API)

func WithMailer(m mail.Sender) Option        { return func(a *API) { a.mailer = m } }
func WithPayments(p *payments.Client) Option { return func(a *API) { a.payments = p } }
func WithImageStorage(c *storage.Client) Option {
	return func(a *API) { a.images = c }
}
func WithBus(b *bus.Bus) Option { return func(a *API) { a.bus = b } }
