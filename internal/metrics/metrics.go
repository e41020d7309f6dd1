// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. Each instance owns its
// registry so several routers can coexist in one process (tests).
type Metrics struct {
	Registry            *prometheus.Registry
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AuthFailuresTotal   *prometheus.CounterVec
	UploadsTotal        *prometheus.CounterVec
}

// New creates and registers the collectors.
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: labels,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "Histogram of HTTP request latency",
				ConstLabels: labels,
				Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		AuthFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "auth_failures_total",
				Help:        "Bearer authentication failures by reason",
				ConstLabels: labels,
			},
			[]string{"reason"},
		),
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "file_uploads_total",
				Help:        "File uploads by result",
				ConstLabels: labels,
			},
			[]string{"result"},
		),
	}

	m.Registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthFailuresTotal,
		m.UploadsTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// AuthFailure counts one failed authentication. Safe on a nil receiver.
func (m *Metrics) AuthFailure(reason string) {
	if m == nil {
		return
	}
	m.AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// Upload counts one upload attempt. Safe on a nil receiver.
func (m *Metrics) Upload(result string) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(result).Inc()
}

// Handler serves the registry for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
