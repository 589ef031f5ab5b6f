package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
	"github.com/google/uuid"
)

type ScheduledRideRepo struct {
	db Querier
}

func NewScheduledRideRepo(db Querier) *ScheduledRideRepo {
	return &ScheduledRideRepo{db: db}
}

const scheduledRideColumns = `
	id, user_id,
	pickup_address, pickup_latitude, pickup_longitude,
	drop_address, drop_latitude, drop_longitude,
	scheduled_at, vehicle_type, payment_method, estimated_fare, distance_km,
	status, ride_request_id, retry_count, last_retry_at, failure_reason,
	reminder_30min_sent, reminder_10min_sent, booking_notification_sent,
	notes, created_at, updated_at`

// ListNeedingReminder returns pending bookings inside the reminder window of tier
// whose reminder of that tier has not been sent yet.
func (r *ScheduledRideRepo) ListNeedingReminder(ctx context.Context, tier models.ReminderTier, now time.Time) ([]*models.ScheduledRide, error) {
	const op = "ScheduledRideRepo.ListNeedingReminder"

	var flagColumn string
	switch tier {
	case models.Reminder30Min:
		flagColumn = "reminder_30min_sent"
	case models.Reminder10Min:
		flagColumn = "reminder_10min_sent"
	default:
		return nil, fmt.Errorf("%s: unknown reminder tier %d", op, tier)
	}

	from, to := tier.Window(now)
	query := `
		SELECT ` + scheduledRideColumns + `
		FROM scheduled_rides
		WHERE status = $1
		  AND ` + flagColumn + ` = false
		  AND scheduled_at > $2
		  AND scheduled_at <= $3
		ORDER BY scheduled_at, id;`

	rides, err := r.list(ctx, query, types.StatusPending, from, to)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return rides, nil
}

// ListNeeds30MinReminder returns pending bookings due for the 30-minute reminder.
func (r *ScheduledRideRepo) ListNeeds30MinReminder(ctx context.Context, now time.Time) ([]*models.ScheduledRide, error) {
	return r.ListNeedingReminder(ctx, models.Reminder30Min, now)
}

// ListNeeds10MinReminder returns pending bookings due for the 10-minute reminder.
func (r *ScheduledRideRepo) ListNeeds10MinReminder(ctx context.Context, now time.Time) ([]*models.ScheduledRide, error) {
	return r.ListNeedingReminder(ctx, models.Reminder10Min, now)
}

// ListReadyToBook returns pending bookings whose dispatch lead time has arrived.
func (r *ScheduledRideRepo) ListReadyToBook(ctx context.Context, now time.Time) ([]*models.ScheduledRide, error) {
	const op = "ScheduledRideRepo.ListReadyToBook"
	query := `
		SELECT ` + scheduledRideColumns + `
		FROM scheduled_rides
		WHERE status = $1
		  AND scheduled_at <= $2
		ORDER BY scheduled_at, id;`

	rides, err := r.list(ctx, query, types.StatusPending, now.Add(models.DispatchLead))
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return rides, nil
}

// MarkReminderSent sets the tier flag. It returns false if the flag was already set.
func (r *ScheduledRideRepo) MarkReminderSent(ctx context.Context, id uuid.UUID, tier models.ReminderTier, now time.Time) (bool, error) {
	const op = "ScheduledRideRepo.MarkReminderSent"

	var query string
	switch tier {
	case models.Reminder30Min:
		query = `UPDATE scheduled_rides SET reminder_30min_sent = true, updated_at = $2
		         WHERE id = $1 AND reminder_30min_sent = false;`
	case models.Reminder10Min:
		query = `UPDATE scheduled_rides SET reminder_10min_sent = true, updated_at = $2
		         WHERE id = $1 AND reminder_10min_sent = false;`
	default:
		return false, fmt.Errorf("%s: unknown reminder tier %d", op, tier)
	}

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, id, now)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return false, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return tag.RowsAffected() == 1, nil
}

// MarkProcessing moves a booking from pending to processing and returns its fresh state.
// It returns types.ErrStatusConflict if the booking is no longer pending.
func (r *ScheduledRideRepo) MarkProcessing(ctx context.Context, id uuid.UUID, now time.Time) (*models.ScheduledRide, error) {
	const op = "ScheduledRideRepo.MarkProcessing"
	query := `
		UPDATE scheduled_rides
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING ` + scheduledRideColumns + `;`

	row := TxorDB(ctx, r.db).QueryRow(ctx, query, id, types.StatusProcessing, now, types.StatusPending)
	ride, err := scanScheduledRide(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrStatusConflict
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return ride, nil
}

// SaveDispatchResult persists the outcome of a dispatch attempt for a booking in processing.
func (r *ScheduledRideRepo) SaveDispatchResult(ctx context.Context, ride *models.ScheduledRide) error {
	const op = "ScheduledRideRepo.SaveDispatchResult"
	query := `
		UPDATE scheduled_rides
		SET status = $2,
		    ride_request_id = $3,
		    retry_count = $4,
		    last_retry_at = $5,
		    failure_reason = $6,
		    booking_notification_sent = $7,
		    updated_at = $8
		WHERE id = $1 AND status = $9;`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query,
		ride.ID,
		ride.Status,
		ride.RideRequestID,
		ride.RetryCount,
		ride.LastRetryAt,
		ride.FailureReason,
		ride.BookingNotificationSent,
		ride.UpdatedAt,
		types.StatusProcessing,
	)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if tag.RowsAffected() == 0 {
		return wrap.Error(ctx, types.ErrStatusConflict)
	}
	return nil
}

// ResetStaleProcessing hands bookings stuck in processing since before staleBefore
// back to the dispatch stage, counting the lost attempt as a retry.
// Bookings that reach the retry ceiling this way are failed.
func (r *ScheduledRideRepo) ResetStaleProcessing(ctx context.Context, staleBefore, now time.Time) ([]*models.ScheduledRide, error) {
	const op = "ScheduledRideRepo.ResetStaleProcessing"
	query := `
		UPDATE scheduled_rides
		SET retry_count = retry_count + 1,
		    last_retry_at = $3,
		    updated_at = $3,
		    status = CASE WHEN retry_count + 1 >= $4 THEN $5 ELSE $6 END,
		    failure_reason = CASE WHEN retry_count + 1 >= $4 THEN $7 ELSE failure_reason END
		WHERE status = $1 AND updated_at < $2
		RETURNING ` + scheduledRideColumns + `;`

	rides, err := r.list(ctx, query,
		types.StatusProcessing,
		staleBefore,
		now,
		models.MaxRetries,
		types.StatusFailed,
		types.StatusPending,
		models.FailureReasonNoDriver,
	)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return rides, nil
}

func (r *ScheduledRideRepo) list(ctx context.Context, query string, args ...any) ([]*models.ScheduledRide, error) {
	rows, err := TxorDB(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*models.ScheduledRide
	for rows.Next() {
		ride, err := scanScheduledRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rides, nil
}

func scanScheduledRide(row pgx.Row) (*models.ScheduledRide, error) {
	var ride models.ScheduledRide
	err := row.Scan(
		&ride.ID, &ride.UserID,
		&ride.Pickup.Address, &ride.Pickup.Latitude, &ride.Pickup.Longitude,
		&ride.Dropoff.Address, &ride.Dropoff.Latitude, &ride.Dropoff.Longitude,
		&ride.ScheduledAt, &ride.VehicleType, &ride.PaymentMethod, &ride.EstimatedFare, &ride.DistanceKm,
		&ride.Status, &ride.RideRequestID, &ride.RetryCount, &ride.LastRetryAt, &ride.FailureReason,
		&ride.Reminder30Sent, &ride.Reminder10Sent, &ride.BookingNotificationSent,
		&ride.Notes, &ride.CreatedAt, &ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}
