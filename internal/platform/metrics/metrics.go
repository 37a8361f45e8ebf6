// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics declares the Prometheus collectors shared by the auth gate
// and the credential use cases, and exposes the scrape handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login results recorded by [RecordLogin].
const (
	LoginSucceeded = "succeeded"
	LoginRejected  = "rejected"
	LoginFailed    = "failed"
)

var (
	// gateOutcomes counts auth gate decisions by outcome.
	gateOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userhub",
		Name:      "auth_gate_outcomes_total",
		Help:      "Total number of bearer token checks by outcome",
	}, []string{"outcome"})

	// loginAttempts counts credential checks by result.
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userhub",
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts by result",
	}, []string{"result"})
)

// RecordGateOutcome increments the gate counter for outcome.
func RecordGateOutcome(outcome string) {
	gateOutcomes.WithLabelValues(outcome).Inc()
}

// RecordLogin increments the login counter for result.
func RecordLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
