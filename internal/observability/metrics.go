package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts public operation invocations by name and outcome.
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wastewatch_operations_total",
		Help: "Total number of public operations by name and status",
	}, []string{"operation", "status"})

	// SimulatedLatency records the injected pre-call delay in seconds.
	SimulatedLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wastewatch_simulated_latency_seconds",
		Help:    "Simulated network latency injected before each operation",
		Buckets: prometheus.DefBuckets,
	})

	// NotificationsDispatched counts notifications entering the fan-out
	// engine by shape and outcome.
	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wastewatch_notifications_dispatched_total",
		Help: "Total number of notifications handed to the fan-out engine",
	}, []string{"type", "outcome"})

	// ListenerInvocations counts listener callback invocations.
	ListenerInvocations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wastewatch_listener_invocations_total",
		Help: "Total number of listener callback invocations",
	})

	// SnapshotFlushes counts whole-snapshot writes to the blob backend.
	SnapshotFlushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wastewatch_snapshot_flushes_total",
		Help: "Total number of snapshot flushes to durable storage",
	})

	// SnapshotBytes is the size of the last persisted snapshot.
	SnapshotBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wastewatch_snapshot_bytes",
		Help: "Size in bytes of the most recently persisted snapshot",
	})
)
