package middleware

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/ride-scheduler/pkg/metrics"
)

// Metrics records request count, latency and in-flight requests per service.
func (m *Middleware) Metrics(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// scrapes would count themselves
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			inFlight := metrics.HttpRequestsInFlight.WithLabelValues(serviceName)
			inFlight.Inc()
			defer inFlight.Dec()

			rw := newStatusRecorder(w)
			next.ServeHTTP(rw, r)

			metrics.RecordHTTPMetrics(serviceName, r.Method, routeLabel(r), rw.status, time.Since(start))
		})
	}
}

// routeLabel is the mux pattern that served r, so arbitrary paths do not create new series.
// The mux fills r.Pattern while serving, read it afterwards.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}
