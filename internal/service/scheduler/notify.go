package scheduler

import (
	"context"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
)

// notify sends n and only logs a failure. Used for notifications that
// follow an already committed state change.
func (s *Service) notify(ctx context.Context, userID uuid.UUID, n models.Notification) {
	ctx = wrap.WithAction(ctx, types.ActionNotifyUser)
	ctx = wrap.WithUserID(ctx, userID.String())

	if err := s.notifier.SendToUser(ctx, userID, n); err != nil {
		s.logger.Error(ctx, "failed to send notification", err, "type", n.Type().String())
	}
}

// eventData is the snapshot stored with every dispatch history entry.
func eventData(ride *models.ScheduledRide) map[string]any {
	data := map[string]any{
		"status":      ride.Status,
		"retry_count": ride.RetryCount,
	}
	if ride.RideRequestID != nil {
		data["ride_request_id"] = ride.RideRequestID.String()
	}
	if ride.FailureReason != nil {
		data["failure_reason"] = *ride.FailureReason
	}
	return data
}
