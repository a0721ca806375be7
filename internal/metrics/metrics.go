// Package metrics exposes Prometheus collectors for the HTTP layer and the
// appointment workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	AppointmentsCreated prometheus.Counter
	Rejections          *prometheus.CounterVec
	Transitions         *prometheus.CounterVec
	StatsCache          *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "petshop",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AppointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "appointments_created_total",
			Help:      "Appointments successfully booked.",
		}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "appointment_rejections_total",
			Help:      "Appointment writes rejected by a scheduling rule.",
		}, []string{"reason"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "appointment_transitions_total",
			Help:      "Status transitions applied, by target status.",
		}, []string{"status"}),
		StatsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Name:      "dashboard_stats_cache_total",
			Help:      "Dashboard statistics cache lookups by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.AppointmentsCreated,
		m.Rejections,
		m.Transitions,
		m.StatsCache,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The helpers below are no-ops on a nil *Metrics so callers and tests can
// leave metrics out.

func (m *Metrics) AppointmentCreated() {
	if m == nil {
		return
	}
	m.AppointmentsCreated.Inc()
}

func (m *Metrics) AppointmentRejected(reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) StatusTransition(status string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) StatsCacheResult(result string) {
	if m == nil {
		return
	}
	m.StatsCache.WithLabelValues(result).Inc()
}
