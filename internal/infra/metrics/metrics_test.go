package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/posts", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/posts", http.StatusOK, 30*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/auth/login", http.StatusUnauthorized, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/posts", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/auth/login", "401")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestMetrics_ObserveAuth(t *testing.T) {
	m := New()

	m.ObserveAuth("login", "success")
	m.ObserveAuth("login", "InvalidCredentials")
	m.ObserveAuth("login", "InvalidCredentials")
	m.ObserveRateLimited("/auth/login")

	assert.InDelta(t, 2, testutil.ToFloat64(m.authOutcomes.WithLabelValues("login", "InvalidCredentials")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.rateLimited.WithLabelValues("/auth/login")), 0)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveAuth("register", "success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `quill_auth_outcomes_total{operation="register",outcome="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
