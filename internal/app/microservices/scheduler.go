package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/ride-scheduler/config"
	"github.com/Temutjin2k/ride-scheduler/internal/adapter/http/server"
	"github.com/Temutjin2k/ride-scheduler/pkg/logger"
)

const schedulerServiceName = "ride-scheduler"

// SchedulerService runs dispatch cycles on a ticker and serves the ops endpoints.
type SchedulerService struct {
	deps       *deps
	httpServer *server.API
	cfg        config.Config
	log        logger.Logger
}

func NewScheduler(ctx context.Context, cfg config.Config, log logger.Logger) (*SchedulerService, error) {
	d, err := newDeps(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &SchedulerService{
		deps:       d,
		httpServer: server.New(cfg.HTTP.Port, schedulerServiceName, d.healthChecks(), log),
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *SchedulerService) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	s.httpServer.Run(ctx, errCh)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "scheduler service closed")
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.deps.scheduler.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "Scheduler service has been started")

	var errRun error
	select {
	case errRun = <-errCh:
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
	}

	// let the current cycle finish before closing connections
	cancel()
	<-done
	return errRun
}

func (s *SchedulerService) close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	s.deps.close(ctx)
}
