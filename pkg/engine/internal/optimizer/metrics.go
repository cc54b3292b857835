package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

type metrics struct {
	ruleRuns     *prometheus.CounterVec
	ruleDuration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		ruleRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "quarry_optimizer_rule_runs_total",
			Help: "Total number of optimizer rule applications by rule and status",
		}, []string{"rule", "status"}),
		ruleDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quarry_optimizer_rule_duration_seconds",
			Help:    "Time spent applying a single optimizer rule to a plan",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"rule"}),
	}
}
