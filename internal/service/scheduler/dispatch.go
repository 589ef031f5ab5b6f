package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-scheduler/pkg/metrics"
)

// Dispatch outcomes, also used as metric labels.
const (
	outcomeBooked  = "booked"
	outcomeRetry   = "retry"
	outcomeFailed  = "failed"
	outcomeSkipped = "skipped"
	outcomeError   = "error"
)

// errSkipBooking rolls back a booking that is no longer eligible.
var errSkipBooking = errors.New("booking no longer eligible for dispatch")

// dispatchReady runs the dispatch stage over every booking whose lead time has arrived.
func (s *Service) dispatchReady(ctx context.Context, now time.Time, report *CycleReport) error {
	const op = "Scheduler.dispatchReady"
	ctx = wrap.WithAction(ctx, types.ActionDispatchBooking)

	rides, err := s.rides.ListReadyToBook(ctx, now)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	for _, ride := range rides {
		if err := ctx.Err(); err != nil {
			return wrap.Error(ctx, fmt.Errorf("%s: stopped before %s: %w", op, ride.ID, err))
		}
		outcome := s.dispatchBooking(ctx, ride.ID, now)
		metrics.RecordDispatchOutcome(outcome)

		switch outcome {
		case outcomeBooked:
			report.Booked++
		case outcomeRetry:
			report.Retried++
		case outcomeFailed:
			report.Failed++
		case outcomeSkipped:
			report.Skipped++
		default:
			report.Errors++
		}
	}
	return nil
}

// dispatchBooking processes one booking in its own transaction and sends the
// resulting notifications after commit.
func (s *Service) dispatchBooking(ctx context.Context, id uuid.UUID, now time.Time) string {
	ctx = wrap.WithScheduledRideID(ctx, id.String())

	var (
		booking *models.ScheduledRide
		match   *models.DriverWithDistance
		ride    *models.RideRequest
	)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.rides.MarkProcessing(ctx, id, now)
		if err != nil {
			return err
		}
		if booking.ScheduledAt.After(now.Add(models.DispatchLead)) {
			return errSkipBooking
		}

		match, err = s.matcher.FindNearest(ctx, booking.Pickup, booking.VehicleType)
		if err != nil {
			return err
		}

		eventType := types.EventDispatchRetry
		if match != nil {
			ride = models.NewRideRequestFromBooking(booking, &match.Driver, now)
			if err := s.rideRequests.Create(ctx, ride); err != nil {
				return err
			}
			booking.MarkBooked(ride.ID)
			eventType = types.EventDispatchBooked
		} else {
			booking.RecordFailedAttempt(now)
			if booking.Status == types.StatusFailed {
				eventType = types.EventDispatchFailed
			}
		}
		booking.UpdatedAt = now

		if err := s.rides.SaveDispatchResult(ctx, booking); err != nil {
			return err
		}
		return s.events.CreateEvent(ctx, booking.ID, eventType, eventData(booking))
	})

	switch {
	case errors.Is(err, types.ErrStatusConflict), errors.Is(err, errSkipBooking):
		s.logger.Info(ctx, "booking changed concurrently, skipped")
		return outcomeSkipped
	case err != nil:
		s.logger.Error(ctx, "failed to process booking, rolled back", err)
		return outcomeError
	}

	switch {
	case ride != nil:
		ctx = wrap.WithRideID(ctx, ride.ID.String())
		s.logger.Info(ctx, "scheduled ride booked",
			"driver_id", match.ID.String(),
			"distance_km", match.DistanceKm,
		)
		s.notify(ctx, booking.UserID, models.BookedNotification{
			ScheduledRideID: booking.ID,
			RideRequestID:   ride.ID,
			DriverID:        match.ID,
			DriverName:      match.Name,
		})
		s.notify(ctx, match.UserID, models.NewRideRequestNotification{
			ScheduledRideID: booking.ID,
			RideRequestID:   ride.ID,
			DropAddress:     booking.Dropoff.Address,
		})
		return outcomeBooked

	case booking.Status == types.StatusFailed:
		s.logger.Warn(ctx, "no driver found, scheduled ride failed", "retry_count", booking.RetryCount)
		s.notify(ctx, booking.UserID, models.FailedNotification{ScheduledRideID: booking.ID})
		return outcomeFailed

	default:
		s.logger.Info(ctx, "no driver found, will retry", "retry_count", booking.RetryCount)
		return outcomeRetry
	}
}
