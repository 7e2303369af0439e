package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for the service. All record
// methods tolerate a nil receiver so tests can wire handlers without a
// registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	provisionOutcomes *prometheus.CounterVec
	orphansRecorded   prometheus.Gauge
}

// NewMetrics initializes a dedicated registry and registers collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total failed HTTP requests by error code",
		}, []string{"method", "path", "code"}),
		provisionOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "staff_provision_outcomes_total",
			Help: "Staff provisioning pipeline outcomes",
		}, []string{"outcome"}),
		orphansRecorded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orphaned_identities_recorded",
			Help: "Identities created without a profile row, pending reconciliation",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.errorsTotal,
		m.provisionOutcomes,
		m.orphansRecorded,
	)
	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments request counters and observes latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(method, path, code).Inc()
}

// RecordProvisionOutcome counts a pipeline outcome.
func (m *Metrics) RecordProvisionOutcome(outcome string) {
	if m == nil {
		return
	}
	m.provisionOutcomes.WithLabelValues(outcome).Inc()
}

// IncOrphansRecorded bumps the pending-orphan gauge.
func (m *Metrics) IncOrphansRecorded() {
	if m == nil {
		return
	}
	m.orphansRecorded.Inc()
}

// DecOrphansRecorded lowers the pending-orphan gauge.
func (m *Metrics) DecOrphansRecorded() {
	if m == nil {
		return
	}
	m.orphansRecorded.Dec()
}
