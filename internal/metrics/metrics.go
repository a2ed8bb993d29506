// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - trade_submissions_total{outcome} – acceptance outcomes (accepted|rejected|unavailable)
//   - trade_requests_resolved_total{result} – worker resolutions (inserted|replaced|superseded|failed)
//   - trade_upsert_retries_total – trade store write retries
//   - channel_publish_failures_total – publishes that failed and rolled back a PENDING record
//
// Counters are registered in init() and served by the HTTP handler each
// binary starts at the configured metrics path.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Submissions counts acceptance-path outcomes by label.
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_submissions_total",
			Help: "Trade submissions by acceptance outcome",
		},
		[]string{"outcome"},
	)

	// Resolutions counts worker-side request resolutions by result.
	Resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_requests_resolved_total",
			Help: "Requests resolved by the worker, by result",
		},
		[]string{"result"},
	)

	// UpsertRetries counts retried trade store writes.
	UpsertRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trade_upsert_retries_total",
			Help: "Trade store write attempts that failed and were retried",
		},
	)

	// PublishFailures counts channel publishes that failed at acceptance.
	PublishFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "channel_publish_failures_total",
			Help: "Channel publish failures that failed a pending request",
		},
	)
)

// Label values for Submissions.
const (
	OutcomeAccepted    = "accepted"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
)

func init() {
	prometheus.MustRegister(Submissions, Resolutions, UpsertRetries, PublishFailures)
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
