package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cassiomorais/coursepay/internal/infrastructure/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("test", reg)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r := chi.NewRouter()
	r.Use(Metrics(metrics))
	r.Post("/checkout/verify", handler)

	req := httptest.NewRequest("POST", "/checkout/verify", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)

	var foundRequestsTotal, foundDuration bool
	for _, mf := range metricFamilies {
		if *mf.Name == "test_http_requests_total" {
			foundRequestsTotal = true
			assert.Greater(t, len(mf.Metric), 0)
		}
		if *mf.Name == "test_http_request_duration_seconds" {
			foundDuration = true
		}
	}

	assert.True(t, foundRequestsTotal, "http_requests_total metric should be recorded")
	assert.True(t, foundDuration, "http_request_duration metric should be recorded")
}

func TestMetrics_NoRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("test", reg)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	// No chi routing, so the raw path is used as the label.
	wrapped := Metrics(metrics)(handler)

	req := httptest.NewRequest("GET", "/unknown", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusWriter_WriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

	sw.WriteHeader(http.StatusCreated)

	assert.Equal(t, http.StatusCreated, sw.statusCode)
	assert.Equal(t, http.StatusCreated, w.Code)
}
