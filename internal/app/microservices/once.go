package microservices

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/ride-scheduler/config"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/Temutjin2k/ride-scheduler/pkg/logger"
)

// OnceService runs a single dispatch cycle and exits. Meant for an external cron.
type OnceService struct {
	deps *deps
	cfg  config.Config
	log  logger.Logger
}

func NewOnce(ctx context.Context, cfg config.Config, log logger.Logger) (*OnceService, error) {
	d, err := newDeps(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &OnceService{
		deps: d,
		cfg:  cfg,
		log:  log,
	}, nil
}

func (s *OnceService) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer s.deps.close(context.WithoutCancel(ctx))

	report, err := s.deps.scheduler.RunCycle(ctx)
	if errors.Is(err, types.ErrCycleInProgress) {
		s.log.Info(ctx, "another replica is running a dispatch cycle, nothing to do")
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Info(ctx, "dispatch cycle finished",
		"cycle_id", report.CycleID,
		"reminders_sent", report.RemindersSent,
		"booked", report.Booked,
		"retried", report.Retried,
		"failed", report.Failed,
		"errors", report.Errors,
	)
	return nil
}
