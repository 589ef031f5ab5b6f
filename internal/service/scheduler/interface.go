package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
)

type ScheduledRideRepo interface {
	ListNeedingReminder(ctx context.Context, tier models.ReminderTier, now time.Time) ([]*models.ScheduledRide, error)
	ListReadyToBook(ctx context.Context, now time.Time) ([]*models.ScheduledRide, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, tier models.ReminderTier, now time.Time) (bool, error)
	MarkProcessing(ctx context.Context, id uuid.UUID, now time.Time) (*models.ScheduledRide, error)
	SaveDispatchResult(ctx context.Context, ride *models.ScheduledRide) error
	ResetStaleProcessing(ctx context.Context, staleBefore, now time.Time) ([]*models.ScheduledRide, error)
}

type RideRequestRepo interface {
	Create(ctx context.Context, ride *models.RideRequest) error
}

type EventRepo interface {
	CreateEvent(ctx context.Context, scheduledRideID uuid.UUID, eventType types.ScheduledRideEvent, eventData any) error
}

type Matcher interface {
	FindNearest(ctx context.Context, pickup models.Location, vehicleType types.VehicleType) (*models.DriverWithDistance, error)
}

type Notifier interface {
	SendToUser(ctx context.Context, userID uuid.UUID, n models.Notification) error
}

// CycleLock is held for the duration of a cycle. Acquire returns
// types.ErrCycleInProgress when someone else holds it. The lease expires after TTL.
type CycleLock interface {
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
	TTL() time.Duration
}
