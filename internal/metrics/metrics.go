// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Signups counts successfully created accounts.
	Signups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourd_signups_total",
		Help: "Number of accounts created.",
	})

	// Logins counts login attempts by outcome (success, failure).
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourd_logins_total",
		Help: "Number of login attempts by outcome.",
	}, []string{"outcome"})

	// PasswordResets counts reset requests and redemptions by stage.
	PasswordResets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourd_password_resets_total",
		Help: "Password reset activity by stage (requested, redeemed).",
	}, []string{"stage"})

	// CheckoutSessions counts created payment checkout sessions.
	CheckoutSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourd_checkout_sessions_total",
		Help: "Number of payment checkout sessions created.",
	})

	// ReviewRatings observes the submitted ratings distribution.
	ReviewRatings = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tourd_review_ratings",
		Help:    "Distribution of submitted review ratings.",
		Buckets: []float64{1, 2, 3, 4, 5},
	})
)
