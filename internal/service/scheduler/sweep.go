package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-scheduler/pkg/metrics"
)

// sweepStale hands bookings left in processing by a crashed writer back to dispatch.
// The lost attempt counts as a retry. The reset and its history rows commit together;
// the failure notifications go out after commit.
func (s *Service) sweepStale(ctx context.Context, now time.Time, report *CycleReport) error {
	const op = "Scheduler.sweepStale"
	ctx = wrap.WithAction(ctx, types.ActionStaleSweep)

	var rides []*models.ScheduledRide
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		rides, err = s.rides.ResetStaleProcessing(ctx, now.Add(-models.StaleProcessingAfter), now)
		if err != nil {
			return err
		}
		for _, ride := range rides {
			if err := s.events.CreateEvent(ctx, ride.ID, types.EventStaleReset, eventData(ride)); err != nil {
				return fmt.Errorf("record stale reset of %s: %w", ride.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	metrics.RecordStaleResets(len(rides))

	for _, ride := range rides {
		rideCtx := wrap.WithScheduledRideID(ctx, ride.ID.String())
		s.logger.Warn(rideCtx, "booking was stuck in processing, released",
			"status", ride.Status.String(),
			"retry_count", ride.RetryCount,
		)

		if ride.Status == types.StatusFailed {
			report.StaleFailed++
			s.notify(rideCtx, ride.UserID, models.FailedNotification{ScheduledRideID: ride.ID})
			continue
		}
		report.StaleReset++
	}
	return nil
}
