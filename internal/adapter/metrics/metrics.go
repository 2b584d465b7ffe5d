package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ExplorerMetrics holds all Prometheus metrics for the explorer client.
type ExplorerMetrics struct {
	QueriesTotal   *prometheus.CounterVec
	QueryDuration  prometheus.Histogram
	EntriesLoaded  prometheus.Counter
	ExportsTotal   *prometheus.CounterVec
	SSEReconnects  prometheus.Counter
	SSEEventsTotal *prometheus.CounterVec
}

// NewExplorerMetrics initializes and registers the Prometheus metrics.
func NewExplorerMetrics(reg prometheus.Registerer) *ExplorerMetrics {
	factory := promauto.With(reg)
	return &ExplorerMetrics{
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logscope",
			Subsystem: "backend",
			Name:      "queries_total",
			Help:      "Total number of backend queries by endpoint and status.",
		}, []string{"endpoint", "status"}), // status: ok, error
		QueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "logscope",
			Subsystem: "backend",
			Name:      "query_duration_seconds",
			Help:      "Latency of backend entry queries.",
			Buckets:   prometheus.DefBuckets,
		}),
		EntriesLoaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "logscope",
			Subsystem: "explorer",
			Name:      "entries_loaded_total",
			Help:      "Total number of log entries materialized in memory.",
		}),
		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logscope",
			Subsystem: "explorer",
			Name:      "exports_total",
			Help:      "Total number of NDJSON exports by status.",
		}, []string{"status"}),
		SSEReconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "logscope",
			Subsystem: "watch",
			Name:      "sse_reconnects_total",
			Help:      "Total number of reconnect attempts on the file-change stream.",
		}),
		SSEEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logscope",
			Subsystem: "watch",
			Name:      "sse_events_total",
			Help:      "Total number of file-change events received by type.",
		}, []string{"change_type"}),
	}
}
