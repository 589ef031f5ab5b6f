package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/ride-scheduler/pkg/logger"
	"github.com/Temutjin2k/ride-scheduler/pkg/metrics"
)

func requestCount(t *testing.T, service, method, path, status string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.HttpRequestsTotal.WithLabelValues(service, method, path, status).Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	const service = "metrics-label-test"

	mux := http.NewServeMux()
	mux.HandleFunc("GET /rides/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := NewMiddleware(logger.Discard()).Metrics(service)(mux)

	for _, path := range []string{"/rides/1", "/rides/2", "/wp-login.php", "/.env"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, requestCount(t, service, http.MethodGet, "GET /rides/{id}", "200"))
	assert.Equal(t, 2.0, requestCount(t, service, http.MethodGet, "unmatched", "404"))
	assert.Zero(t, requestCount(t, service, http.MethodGet, "/rides/1", "200"))
	assert.Zero(t, requestCount(t, service, http.MethodGet, "/wp-login.php", "404"))
}
