package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/Temutjin2k/ride-scheduler/pkg/clock"
	"github.com/Temutjin2k/ride-scheduler/pkg/logger"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-scheduler/pkg/metrics"
	"github.com/Temutjin2k/ride-scheduler/pkg/trm"
)

const DefaultTickInterval = time.Minute

// CycleReport summarizes one dispatch cycle.
type CycleReport struct {
	CycleID   string
	StartedAt time.Time
	Duration  time.Duration

	StaleReset  int // stale bookings handed back to dispatch
	StaleFailed int // stale bookings that ran out of retries

	RemindersSent   int
	RemindersFailed int

	Booked  int
	Retried int
	Failed  int
	Skipped int // changed concurrently, left alone
	Errors  int // rolled back
}

type Service struct {
	rides        ScheduledRideRepo
	rideRequests RideRequestRepo
	events       EventRepo
	matcher      Matcher
	notifier     Notifier
	trm          trm.TxManager
	clock        clock.Clock
	logger       logger.Logger

	// lock is optional, nil when replicas are not coordinated.
	lock     CycleLock
	interval time.Duration

	running sync.Mutex
}

type Option func(*Service)

// WithCycleLock makes every cycle hold lock in addition to the in-process guard.
func WithCycleLock(lock CycleLock) Option {
	return func(s *Service) {
		s.lock = lock
	}
}

// WithTickInterval sets how often Run starts a cycle.
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

func NewService(
	rides ScheduledRideRepo,
	rideRequests RideRequestRepo,
	events EventRepo,
	matcher Matcher,
	notifier Notifier,
	trm trm.TxManager,
	clk clock.Clock,
	logger logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		rides:        rides,
		rideRequests: rideRequests,
		events:       events,
		matcher:      matcher,
		notifier:     notifier,
		trm:          trm,
		clock:        clk,
		logger:       logger,
		interval:     DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts a cycle right away and then on every tick until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "scheduler started", "interval", s.interval.String())
	for {
		s.runLogged(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Service) runLogged(ctx context.Context) {
	report, err := s.RunCycle(ctx)
	switch {
	case errors.Is(err, types.ErrCycleInProgress):
		s.logger.Info(ctx, "previous dispatch cycle still running, skipping tick")
	case err != nil:
		s.logger.Error(ctx, "dispatch cycle failed", err)
	default:
		s.logger.Info(wrap.WithCycleID(ctx, report.CycleID), "dispatch cycle finished",
			"reminders_sent", report.RemindersSent,
			"reminders_failed", report.RemindersFailed,
			"booked", report.Booked,
			"retried", report.Retried,
			"failed", report.Failed,
			"skipped", report.Skipped,
			"errors", report.Errors,
			"stale_reset", report.StaleReset,
			"duration", report.Duration.String(),
		)
	}
}

// RunCycle runs the stale sweep, the reminder stage and the dispatch stage once.
// It returns types.ErrCycleInProgress without doing anything if another cycle holds the lock.
// Per-booking failures are logged and counted in the report. A failed selection query
// aborts the cycle.
func (s *Service) RunCycle(ctx context.Context) (CycleReport, error) {
	const op = "Scheduler.RunCycle"

	if !s.running.TryLock() {
		return CycleReport{}, types.ErrCycleInProgress
	}
	defer s.running.Unlock()

	report := CycleReport{
		CycleID:   uuid.NewString(),
		StartedAt: s.clock.Now(),
	}
	ctx = wrap.WithCycleID(ctx, report.CycleID)
	ctx = wrap.WithAction(ctx, types.ActionDispatchCycle)

	if s.lock != nil {
		release, err := s.lock.Acquire(ctx)
		if err != nil {
			if errors.Is(err, types.ErrCycleInProgress) {
				return CycleReport{}, err
			}
			return CycleReport{}, wrap.Error(ctx, fmt.Errorf("%s: acquire lock: %w", op, err))
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn(ctx, "failed to release cycle lock", "error", err.Error())
			}
		}()

		// the lease is not renewed, stop before another replica can take it over
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lock.TTL())
		defer cancel()
	}

	started := time.Now()
	err := s.runStages(ctx, report.StartedAt, &report)
	report.Duration = time.Since(started)
	metrics.RecordCycle(err, report.Duration)
	if err != nil {
		return report, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return report, nil
}

func (s *Service) runStages(ctx context.Context, now time.Time, report *CycleReport) error {
	if err := s.sweepStale(ctx, now, report); err != nil {
		return err
	}
	if err := s.sendReminders(ctx, now, report); err != nil {
		return err
	}
	return s.dispatchReady(ctx, now, report)
}
