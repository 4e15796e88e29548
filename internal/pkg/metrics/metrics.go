// Package metrics defines and registers all custom Prometheus metrics for the
// sactel console and its dev backend. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sactel"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts handled by the auth service.
// Label:
//   - result: "success", "invalid_credentials", "inactive", "rate_limited" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Billing metrics ───────────────────────────────────────────────────────────

// InvoicesCreatedTotal counts newly created invoices.
// Label:
//   - estado: "pendiente" or "pagada"
var InvoicesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_created_total",
		Help:      "Total number of invoices created, by initial status.",
	},
	[]string{"estado"},
)

// RoomUpdatesTotal counts successful room patches.
// Label:
//   - estado: the room status after the update
var RoomUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "room_updates_total",
		Help:      "Total number of room updates, by resulting status.",
	},
	[]string{"estado"},
)

// ── Console metrics ───────────────────────────────────────────────────────────

// ClientRequestsTotal counts calls made through the API access layer.
// Labels:
//   - service: "data" or "auth"
//   - outcome: the HTTP status code, or the failure kind when no response arrived
var ClientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of outbound API calls, by service and outcome.",
	},
	[]string{"service", "outcome"},
)

// ClientRequestDuration measures outbound API call latency.
// Label:
//   - service: "data" or "auth"
var ClientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of outbound API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"service"},
)

// SessionTransitionsTotal counts session state changes.
// Labels:
//   - state: "absent" or "present"
//   - source: "remote", "fallback", "cache" or "" when absent
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "transitions_total",
		Help:      "Total number of session state transitions.",
	},
	[]string{"state", "source"},
)

// ── Activity log metrics ──────────────────────────────────────────────────────

// ActivityProcessedTotal counts activity entries persisted by the dispatcher.
// Label:
//   - kind: the activity kind (e.g. "room.updated")
var ActivityProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "processed_total",
		Help:      "Total number of activity entries successfully recorded.",
	},
	[]string{"kind"},
)

// ActivityErrorsTotal counts activity entries that were not recorded.
// Label:
//   - reason: "dropped" (queue full or closed) or "failed" (processing error)
var ActivityErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "errors_total",
		Help:      "Total number of activity entries that could not be recorded.",
	},
	[]string{"reason"},
)

// ActivityQueueDepth tracks the number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "queue_depth",
		Help:      "Current number of entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityProcessingDuration measures how long one entry takes from dequeue to persistence.
var ActivityProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "processing_duration_seconds",
		Help:      "Duration of activity processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
