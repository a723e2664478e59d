package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	ClockTransitions *prometheus.CounterVec
	SkewFlagged      prometheus.Counter
	ActiveToday      prometheus.Gauge
	PendingApprovals prometheus.Gauge
	ApprovedInterns  prometheus.Gauge

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates collectors registered on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ClockTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dtr_clock_transitions_total",
			Help: "Clock-in/clock-out attempts by outcome.",
		}, []string{"action", "outcome"}),
		SkewFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dtr_clock_skew_flagged_total",
			Help: "Clock-outs earlier than their clock-in, clamped to zero hours.",
		}),
		ActiveToday: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dtr_active_today",
			Help: "Users currently clocked in for today's date key.",
		}),
		PendingApprovals: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dtr_pending_approvals",
			Help: "Interns awaiting approval.",
		}),
		ApprovedInterns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dtr_approved_interns",
			Help: "Approved interns.",
		}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.ClockTransitions, m.SkewFlagged,
		m.ActiveToday, m.PendingApprovals, m.ApprovedInterns,
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveClock records the outcome of a clock transition. Safe on a nil receiver.
func (m *Metrics) ObserveClock(action, outcome string) {
	if m == nil {
		return
	}
	m.ClockTransitions.WithLabelValues(action, outcome).Inc()
}

// ObserveSkew counts a clamped clock-out. Safe on a nil receiver.
func (m *Metrics) ObserveSkew() {
	if m == nil {
		return
	}
	m.SkewFlagged.Inc()
}

// Handler serves the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument measures in-flight requests, counts and latency by chi route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := strconv.Itoa(sw.code)

		m.httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
