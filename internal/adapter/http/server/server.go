package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/ride-scheduler/internal/adapter/http/handler"
	"github.com/Temutjin2k/ride-scheduler/internal/adapter/http/middleware"
	"github.com/Temutjin2k/ride-scheduler/pkg/logger"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

// API is the ops server of the scheduler: health and metrics only.
type API struct {
	mux    *http.ServeMux
	server *http.Server
	health *handler.Health
	m      *middleware.Middleware

	serviceName string
	addr        string
	log         logger.Logger
}

func New(port, serviceName string, checks map[string]handler.Check, logger logger.Logger) *API {
	api := &API{
		mux:         http.NewServeMux(),
		health:      handler.NewHealth(serviceName, checks, logger),
		m:           middleware.NewMiddleware(logger),
		serviceName: serviceName,
		addr:        fmt.Sprintf(serverIPAddress, "0.0.0.0", port),
		log:         logger,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return api
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.Logging(a.m.Metrics(a.serviceName)(a.mux)))
}
