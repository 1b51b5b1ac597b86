// Package metrics defines and registers all custom Prometheus metrics for
// the user service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_service"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "validation_failed", "conflict", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "rejected" (bad credentials), or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenChecksTotal counts bearer-token verifications on protected routes.
// Label:
//   - result: "ok" or "rejected" — rejection reasons are deliberately not
//     broken out, mirroring the opaque 401 returned to clients
var TokenChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_checks_total",
		Help:      "Total number of authentication token verifications, by result.",
	},
	[]string{"result"},
)

// ProfileUpdatesTotal counts accepted profile mutations. Every accepted
// mutation bumps the user's version and invalidates outstanding tokens.
var ProfileUpdatesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_updates_total",
		Help:      "Total number of accepted profile updates.",
	},
)
