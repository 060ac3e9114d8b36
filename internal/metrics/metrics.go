// Package metrics exposes Prometheus collectors for HTTP traffic and
// place store operations.
//
// Collectors live on a private registry owned by Metrics so tests can build
// as many instances as they like without duplicate registration panics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "travel_bucket"

// Outcome label values for StoreOperations.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPLatency     *prometheus.HistogramVec
	StoreOperations *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status.",
			},
			[]string{"path", "method", "status"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		StoreOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "place_store_operations_total",
				Help:      "Place store operations by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPLatency,
		m.StoreOperations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(path, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPLatency.WithLabelValues(path, method).Observe(elapsed.Seconds())
	m.HTTPRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

// ObserveStoreOp records one place store call.
func (m *Metrics) ObserveStoreOp(operation, outcome string) {
	if m == nil {
		return
	}
	m.StoreOperations.WithLabelValues(operation, outcome).Inc()
}

// Gatherer exposes the private registry, mostly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
