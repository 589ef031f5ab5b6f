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

// sendReminders runs the reminder stage, 30-minute tier first.
func (s *Service) sendReminders(ctx context.Context, now time.Time, report *CycleReport) error {
	const op = "Scheduler.sendReminders"
	ctx = wrap.WithAction(ctx, types.ActionSendReminder)

	for _, tier := range models.ReminderTiers {
		rides, err := s.rides.ListNeedingReminder(ctx, tier, now)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("%s: %d min: %w", op, tier.Minutes(), err))
		}

		for _, ride := range rides {
			if err := ctx.Err(); err != nil {
				return wrap.Error(ctx, fmt.Errorf("%s: stopped before %s: %w", op, ride.ID, err))
			}
			if s.sendReminder(ctx, ride, tier, now) {
				report.RemindersSent++
			} else {
				report.RemindersFailed++
			}
		}
	}
	return nil
}

// sendReminder notifies the rider and sets the tier flag. The flag stays unset
// if the notification fails, so the next cycle inside the window tries again.
func (s *Service) sendReminder(ctx context.Context, ride *models.ScheduledRide, tier models.ReminderTier, now time.Time) bool {
	ctx = wrap.WithScheduledRideID(ctx, ride.ID.String())
	ctx = wrap.WithUserID(ctx, ride.UserID.String())

	err := s.notifier.SendToUser(ctx, ride.UserID, models.ReminderNotification{
		ScheduledRideID: ride.ID,
		Minutes:         tier.Minutes(),
		DropAddress:     ride.Dropoff.Address,
	})
	metrics.RecordReminder(tier.Minutes(), err)
	if err != nil {
		s.logger.Error(ctx, "failed to send reminder", err, "minutes", tier.Minutes())
		return false
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		updated, err := s.rides.MarkReminderSent(ctx, ride.ID, tier, now)
		if err != nil || !updated {
			return err
		}
		ride.MarkReminderSent(tier)
		return s.events.CreateEvent(ctx, ride.ID, types.EventReminderSent, map[string]int{"minutes": tier.Minutes()})
	})
	if err != nil {
		// Delivered but not recorded: the rider may get this tier again next cycle.
		s.logger.Error(ctx, "reminder sent but flag not saved", err, "minutes", tier.Minutes())
		return true
	}

	s.logger.Info(ctx, "reminder sent", "minutes", tier.Minutes(), "scheduled_at", ride.ScheduledAt.Format(time.RFC3339))
	return true
}
