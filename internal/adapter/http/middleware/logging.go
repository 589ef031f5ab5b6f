package middleware

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
)

// Logging logs every ops request once it is served. Probes and scrapes are logged at debug,
// anything else at info so unexpected callers show up.
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newStatusRecorder(w)

		next.ServeHTTP(rw, r)

		ctx := wrap.WithAction(r.Context(), types.ActionHTTPRequest)
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start),
		}

		switch r.URL.Path {
		case "/health", "/metrics":
			m.log.Debug(ctx, "request served", args...)
		default:
			m.log.Info(ctx, "request served", args...)
		}
	})
}
