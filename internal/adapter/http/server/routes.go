package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System Health
	a.mux.HandleFunc("GET /health", a.health.HealthCheck)

	a.mux.Handle("GET /metrics", promhttp.Handler())
}
