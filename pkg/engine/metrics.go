package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess        = "success"
	statusFailure        = "failure"
	statusNotImplemented = "notimplemented"
)

// metrics is a container of metrics for an [Engine].
type metrics struct {
	queries       *prometheus.CounterVec
	queryDuration prometheus.Histogram

	logicalPlanning  prometheus.Histogram
	physicalPlanning prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		queries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "quarry_engine_queries_total",
			Help: "Total number of executed queries by status",
		}, []string{"status"}),
		queryDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "quarry_engine_query_duration_seconds",
			Help:    "Time spent planning and executing a query",
			Buckets: prometheus.DefBuckets,
		}),

		logicalPlanning: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "quarry_engine_logical_planning_duration_seconds",
			Help:    "Time spent optimizing logical plans",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		physicalPlanning: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "quarry_engine_physical_planning_duration_seconds",
			Help:    "Time spent creating physical plans",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
}
