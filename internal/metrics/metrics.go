// Package metrics exposes Prometheus instrumentation for the ingestion
// pipeline. Collectors register with the default registry on import.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// EventsRecorded counts successfully persisted analytics events by type.
	EventsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitepulse",
			Name:      "events_recorded_total",
			Help:      "Total number of persisted analytics events.",
		},
		[]string{"event_type"},
	)

	// EventsRejected counts signals rejected at validation time.
	EventsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitepulse",
			Name:      "events_rejected_total",
			Help:      "Total number of signals rejected for missing mandatory fields.",
		},
	)

	// RollupFailures counts best-effort daily rollup upserts that failed.
	// The triggering event write still succeeds; this is the only place the
	// failure is visible besides the log.
	RollupFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitepulse",
			Name:      "rollup_failures_total",
			Help:      "Total number of failed daily rollup upserts.",
		},
	)

	// ActiveSessions is a gauge of distinct sessions seen within the
	// configured realtime window, refreshed by the background scheduler.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sitepulse",
			Name:      "active_sessions",
			Help:      "Distinct sessions active within the realtime window.",
		},
	)
)

func init() {
	prometheus.MustRegister(EventsRecorded, EventsRejected, RollupFailures, ActiveSessions)
}
