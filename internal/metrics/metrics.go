// Package metrics exposes Prometheus collectors for the extraction pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the pipeline collectors behind one registry. It is built
// once at startup and passed to the components that record into it.
type Metrics struct {
	registry *prometheus.Registry

	tasksTotal          *prometheus.CounterVec
	taskDurationSeconds *prometheus.HistogramVec
	activeWorkers       prometheus.Gauge
	actionRetriesTotal  *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New builds the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		tasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_tasks_total",
				Help: "Total number of tracking tasks processed, labeled by carrier and status.",
			},
			[]string{"carrier", "status"},
		),
		taskDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tracker_task_duration_seconds",
				Help:    "Histogram of per-task wall time, labeled by carrier.",
				Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"carrier"},
		),
		activeWorkers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tracker_active_workers",
				Help: "Number of workers currently processing a task.",
			},
		),
		actionRetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_action_retries_total",
				Help: "Total page-action retry attempts, labeled by action.",
			},
			[]string{"action"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_http_requests_total",
				Help: "Total HTTP requests on the operational endpoint.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tracker_http_request_duration_seconds",
				Help:    "Histogram of operational endpoint request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Handler returns an http.Handler exposing this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTask records the outcome and duration of one task.
func (m *Metrics) ObserveTask(carrier, status string, duration time.Duration) {
	m.tasksTotal.WithLabelValues(carrier, status).Inc()
	m.taskDurationSeconds.WithLabelValues(carrier).Observe(duration.Seconds())
}

// IncActiveWorkers increments the active workers gauge.
func (m *Metrics) IncActiveWorkers() {
	m.activeWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func (m *Metrics) DecActiveWorkers() {
	m.activeWorkers.Dec()
}

// ObserveActionRetry counts one retried page action.
func (m *Metrics) ObserveActionRetry(action string) {
	m.actionRetriesTotal.WithLabelValues(action).Inc()
}
