// Package observability collects prometheus metrics for the HTTP service.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registered collectors. A single instance is created at
// startup and shared by the components that record into it.
type Metrics struct {
	registry *prometheus.Registry

	ExtractionsTotal *prometheus.CounterVec
	ItemsExtracted   *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ExtractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentlab_extractions_total",
				Help: "Number of extraction requests by method and result",
			},
			[]string{"method", "result"},
		),
		ItemsExtracted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentlab_action_items_extracted_total",
				Help: "Number of action items produced by extraction method",
			},
			[]string{"method"},
		),
		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentlab_upstream_request_duration_seconds",
				Help:    "Duration of upstream round trips by service",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}

	collectors := []prometheus.Collector{
		m.ExtractionsTotal,
		m.ItemsExtracted,
		m.UpstreamDuration,
	}
	for _, collector := range collectors {
		if err := m.registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordExtraction counts one extraction call and its item yield.
func (m *Metrics) RecordExtraction(method, result string, items int) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(method, result).Inc()
	if items > 0 {
		m.ItemsExtracted.WithLabelValues(method).Add(float64(items))
	}
}

// ObserveUpstream records the duration of one upstream round trip.
func (m *Metrics) ObserveUpstream(service string, seconds float64) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(service).Observe(seconds)
}
