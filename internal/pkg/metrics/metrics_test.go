package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveClock(t *testing.T) {
	m := New()
	m.ObserveClock("clock_in", "ok")
	m.ObserveClock("clock_in", "ok")
	m.ObserveClock("clock_in", "already_clocked_in")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ClockTransitions.WithLabelValues("clock_in", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClockTransitions.WithLabelValues("clock_in", "already_clocked_in")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveClock("clock_out", "ok")
		m.ObserveSkew()
	})
}

func TestInstrument_UsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/abc", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/users/{id}", "418")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "dtr_clock_transitions_total") ||
		strings.Contains(rec.Body.String(), "http_requests_total"))
}
