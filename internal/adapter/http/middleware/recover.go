package middleware

import (
	"fmt"
	"net/http"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
)

// Recover turns a handler panic into a 500 and closes the connection.
func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("%v", rec)
				m.log.Error(wrap.WithAction(r.Context(), types.ActionHTTPPanic), "recovered from panic", err, "path", r.URL.Path)

				w.Header().Set("Connection", "close")
				errorResponse(w, http.StatusInternalServerError, err.Error())
			}
		}()

		next.ServeHTTP(w, r)
	})
}
