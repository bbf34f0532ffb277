// Package metrics defines the Prometheus collectors for the ranking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Candidate outcomes recorded by CandidatesTotal.
const (
	OutcomeResolved          = "resolved"
	OutcomeDroppedNoMatch    = "dropped_no_match"
	OutcomeDroppedNoDetails  = "dropped_no_details"
	OutcomeDroppedLookupErr  = "dropped_lookup_error"
	OutcomeDroppedUnscorable = "dropped_unscorable"
	OutcomeScored            = "scored"
)

var (
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total ranking requests by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "End-to-end ranking request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"category"},
	)

	CandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_candidates_total",
			Help: "Candidates processed by outcome",
		},
		[]string{"category", "outcome"},
	)

	ExternalCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_calls_total",
			Help: "Outbound provider calls by provider, operation and status",
		},
		[]string{"provider", "operation", "status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	ArchiveWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_writes_total",
			Help: "Ranking results written to the object store by status",
		},
		[]string{"status"},
	)

	WorkerMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_messages_total",
			Help: "Ranking request messages consumed by the worker by outcome",
		},
		[]string{"outcome"},
	)
)

// CallStatus maps an error to the status label used by ExternalCalls.
func CallStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
