// Package metrics provides Prometheus metrics for the publication pipeline
// and the generation endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "autopublisher"
)

var (
	// Pipeline metrics - one observation per run
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by outcome (create, update, skip, failed)",
		},
		[]string{"outcome"},
	)

	RunFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "failures_total",
			Help:      "Total number of failed pipeline runs by error kind",
		},
		[]string{"kind"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Pipeline run duration in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		},
	)

	SkippedTriggersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "skipped_triggers_total",
			Help:      "Triggers dropped because a previous run was still active",
		},
	)

	MediaUploadFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publisher",
			Name:      "media_upload_failures_total",
			Help:      "Featured image uploads that failed without aborting post creation",
		},
	)

	// HTTP metrics - generation endpoint
	GenerateRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "generate_requests_total",
			Help:      "Generation endpoint requests by route and status code",
		},
		[]string{"route", "status"},
	)
)

// RecordRun records the outcome label and duration of a finished run.
func RecordRun(outcome, errorKind string, duration time.Duration) {
	RunsTotal.WithLabelValues(outcome).Inc()
	if errorKind != "" {
		RunFailuresTotal.WithLabelValues(errorKind).Inc()
	}
	RunDuration.Observe(duration.Seconds())
}
