package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/Temutjin2k/ride-scheduler/pkg/logger"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type Health struct {
	serviceName string
	checks      map[string]Check
	timeout     time.Duration
	log         logger.Logger
}

func NewHealth(serviceName string, checks map[string]Check, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		checks:      checks,
		timeout:     2 * time.Second,
		log:         log,
	}
}

// HealthCheck returns the service status and the state of every dependency.
// It answers 503 if any dependency check fails.
func (a *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	names := make([]string, 0, len(a.checks))
	for name := range a.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "available", http.StatusOK
	deps := make(map[string]string, len(a.checks))
	for _, name := range names {
		if err := a.checks[name](ctx); err != nil {
			a.log.Warn(ctx, "dependency check failed", "dependency", name, "error", err.Error())
			deps[name] = err.Error()
			status, code = "unavailable", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	response := envelope{
		"status": status,
		"system_info": map[string]string{
			"service-name": a.serviceName,
		},
		"dependencies": deps,
	}

	if err := writeJSON(w, code, response, nil); err != nil {
		a.log.Error(ctx, "healthcheck", err)
		return
	}
}
