package middleware

import (
	"encoding/json"
	"net/http"
)

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// errorResponse writes {"error": message}. Falls back to a bare status if encoding fails.
func errorResponse(w http.ResponseWriter, status int, message string) {
	js, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)
}
