// Package metrics provides observability for coverage evaluation and
// strategy optimization.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Coverage evaluations by camera
	Evaluations *prometheus.CounterVec

	// Evaluation latency
	EvaluateLatency prometheus.Histogram

	// Optimizer runs by searcher and outcome
	OptimizerRuns *prometheus.CounterVec

	// Optimizer run latency by searcher
	OptimizerLatency *prometheus.HistogramVec

	// HTTP requests by method, path pattern and status
	HTTPRequests *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered on
// the default registry.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skysight_evaluations_total",
			Help: "Total coverage evaluations by camera",
		}, []string{"camera"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "skysight_evaluate_duration_seconds",
			Help:    "Duration of coverage evaluations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),

		OptimizerRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skysight_optimizer_runs_total",
			Help: "Total optimizer runs by searcher and outcome",
		}, []string{"searcher", "outcome"}), // outcome: "completed", "failed"

		OptimizerLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skysight_optimizer_duration_seconds",
			Help:    "Duration of optimizer runs by searcher",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"searcher"}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skysight_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		}, []string{"method", "path", "status"}),
	}
}

// ObserveEvaluation records one coverage evaluation.
func (m *Metrics) ObserveEvaluation(camera string, d time.Duration) {
	if m != nil {
		m.Evaluations.WithLabelValues(camera).Inc()
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// ObserveOptimizerRun records one optimizer run.
func (m *Metrics) ObserveOptimizerRun(searcher, outcome string, d time.Duration) {
	if m != nil {
		m.OptimizerRuns.WithLabelValues(searcher, outcome).Inc()
		m.OptimizerLatency.WithLabelValues(searcher).Observe(d.Seconds())
	}
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	}
}
