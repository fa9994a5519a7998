// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_backend_requests_total",
			Help: "Total number of backend API requests by operation and status class",
		},
		[]string{"operation", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_backend_request_duration_seconds",
			Help:    "Duration of backend API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	BackendRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "console_backend_requests_in_flight",
			Help: "Number of backend API requests currently awaiting a response",
		},
		[]string{"operation"},
	)

	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_wizard_transitions_total",
			Help: "Onboarding wizard step transitions by outcome",
		},
		[]string{"from", "to", "outcome"},
	)

	MachineryResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "console_wizard_machinery_resets_total",
			Help: "Times machinery was cleared because the unit type changed",
		},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_submissions_total",
			Help: "Company and job submissions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_login_attempts_total",
			Help: "Login attempts by outcome (success, failure, dropped)",
		},
		[]string{"outcome"},
	)

	RouteGuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_route_guard_decisions_total",
			Help: "Route guard decisions by result",
		},
		[]string{"decision"},
	)
)

// StatusClass buckets an HTTP status into "2xx", "4xx" and so on.
// Zero means the request never got a response.
func StatusClass(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
