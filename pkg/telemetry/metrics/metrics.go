// Package metrics exposes Prometheus instrumentation for the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns every Prometheus metric the gateway records. A nil
// Collector is valid and records nothing, so components can be constructed
// without instrumentation in tests.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	backendRequests *prometheus.CounterVec
	relayRecords    *prometheus.CounterVec
	relayOutcomes   *prometheus.CounterVec
	endpointUp      *prometheus.GaugeVec
	activeRelays    prometheus.Gauge
}

// NewCollector creates a collector registered against the given registry.
// If registry is nil a fresh one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ollamagate",
			Name:      "requests_total",
			Help:      "Inbound HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ollamagate",
			Name:      "request_duration_seconds",
			Help:      "Inbound HTTP request latency.",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"method", "path"}),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ollamagate",
			Name:      "backend_requests_total",
			Help:      "Outbound backend calls by method, path and outcome.",
		}, []string{"method", "path", "outcome"}),
		relayRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ollamagate",
			Name:      "relay_records_total",
			Help:      "Streamed records forwarded to or dropped from clients.",
		}, []string{"result"}),
		relayOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ollamagate",
			Name:      "relay_operations_total",
			Help:      "Completed relay operations by terminal state.",
		}, []string{"outcome"}),
		endpointUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ollamagate",
			Name:      "endpoint_up",
			Help:      "Whether the last connectivity probe of an endpoint succeeded.",
		}, []string{"endpoint"}),
		activeRelays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ollamagate",
			Name:      "active_relays",
			Help:      "Relay operations currently streaming.",
		}),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.backendRequests,
		c.relayRecords,
		c.relayOutcomes,
		c.endpointUp,
		c.activeRelays,
	)

	return c
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordRequest records one completed inbound request.
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordBackendRequest records one outbound backend call.
func (c *Collector) RecordBackendRequest(method, path, outcome string) {
	if c == nil {
		return
	}
	c.backendRequests.WithLabelValues(method, path, outcome).Inc()
}

// RecordRelayRecord counts a single streamed record, result is
// "forwarded" or "dropped".
func (c *Collector) RecordRelayRecord(result string) {
	if c == nil {
		return
	}
	c.relayRecords.WithLabelValues(result).Inc()
}

// RecordRelayOutcome counts a finished relay operation, outcome is one of
// "complete", "failed" or "client_closed".
func (c *Collector) RecordRelayOutcome(outcome string) {
	if c == nil {
		return
	}
	c.relayOutcomes.WithLabelValues(outcome).Inc()
}

// SetEndpointUp reports the result of a connectivity probe.
func (c *Collector) SetEndpointUp(endpoint string, up bool) {
	if c == nil {
		return
	}
	v := 0.0
	if up {
		v = 1.0
	}
	c.endpointUp.WithLabelValues(endpoint).Set(v)
}

// RelayStarted marks a relay operation as in flight.
func (c *Collector) RelayStarted() {
	if c != nil {
		c.activeRelays.Inc()
	}
}

// RelayFinished marks a relay operation as done.
func (c *Collector) RelayFinished() {
	if c != nil {
		c.activeRelays.Dec()
	}
}
