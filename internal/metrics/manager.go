package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds the Prometheus collectors used across the service.
type Manager struct {
	// counters
	CounterRequests       *prometheus.CounterVec
	CounterAggregations   prometheus.Counter
	CounterOutOfOrderRuns prometheus.Counter
	CounterSetsImported   prometheus.Counter

	// gauges
	GaugeRunsInFlight     prometheus.Gauge
	GaugeSnapshotSessions prometheus.Gauge

	// histograms
	HistAggregationDuration  prometheus.Histogram
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("liftstats", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("liftstats", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterAggregations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "aggregations",
			Help:      "The total number of completed aggregation runs",
		}),
		CounterOutOfOrderRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "out_of_order_runs",
			Help:      "Background runs that completed after a later-submitted run",
		}),
		CounterSetsImported: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sets_imported",
			Help:      "The total number of set records imported",
		}),
		GaugeRunsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "aggregation_runs_in_flight",
			Help:      "Background aggregation runs currently executing",
		}),
		GaugeSnapshotSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "snapshot_sessions",
			Help:      "Sessions in the latest published snapshot",
		}),
		HistAggregationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of one aggregation run",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}
