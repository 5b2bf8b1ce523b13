package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// authRequestsTotal counts authentication requests by role and result.
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total authentication requests by role and result",
		},
		[]string{"role", "result"}, // result: success | failure
	)

	// authDuration tracks authentication duration by role.
	authDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Authentication duration by role",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"role"},
	)

	// forbiddenAttempts counts role-gate rejections by role and method.
	forbiddenAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forbidden_attempts_total",
			Help: "Forbidden access attempts by role and method",
		},
		[]string{"role", "method"},
	)
)

// RecordAuthRequest records an authentication request.
func RecordAuthRequest(role, result string) {
	authRequestsTotal.WithLabelValues(role, result).Inc()
}

// RecordAuthDuration records authentication duration.
func RecordAuthDuration(role string, durationSeconds float64) {
	authDuration.WithLabelValues(role).Observe(durationSeconds)
}

// RecordForbiddenAttempt records a role-gate rejection.
func RecordForbiddenAttempt(role, method string) {
	forbiddenAttempts.WithLabelValues(role, method).Inc()
}
