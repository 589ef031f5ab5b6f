package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
)

var now = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestScheduledRideRepo_MarkReminderSent(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		tier     models.ReminderTier
		query    string
		affected int64
		want     bool
	}{
		{name: "30 min first time", tier: models.Reminder30Min, query: "SET reminder_30min_sent = true", affected: 1, want: true},
		{name: "10 min first time", tier: models.Reminder10Min, query: "SET reminder_10min_sent = true", affected: 1, want: true},
		{name: "already sent", tier: models.Reminder30Min, query: "SET reminder_30min_sent = true", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec(tt.query).
				WithArgs(id, now).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			got, err := NewScheduledRideRepo(mock).MarkReminderSent(context.Background(), id, tt.tier, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestScheduledRideRepo_MarkReminderSent_UnknownTier(t *testing.T) {
	mock := newMock(t)
	_, err := NewScheduledRideRepo(mock).MarkReminderSent(context.Background(), uuid.New(), models.ReminderTier(15), now)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledRideRepo_MarkProcessing_Conflict(t *testing.T) {
	mock := newMock(t)
	id := uuid.New()
	mock.ExpectQuery("UPDATE scheduled_rides").
		WithArgs(id, types.StatusProcessing, now, types.StatusPending).
		WillReturnError(pgx.ErrNoRows)

	ride, err := NewScheduledRideRepo(mock).MarkProcessing(context.Background(), id, now)
	assert.Nil(t, ride)
	assert.ErrorIs(t, err, types.ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledRideRepo_SaveDispatchResult(t *testing.T) {
	rideRequestID := uuid.New()
	ride := &models.ScheduledRide{
		ID:                      uuid.New(),
		Status:                  types.StatusBooked,
		RideRequestID:           &rideRequestID,
		BookingNotificationSent: true,
		UpdatedAt:               now,
	}

	t.Run("saved", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("UPDATE scheduled_rides").
			WithArgs(ride.ID, types.StatusBooked, ride.RideRequestID, 0, ride.LastRetryAt, ride.FailureReason, true, now, types.StatusProcessing).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, NewScheduledRideRepo(mock).SaveDispatchResult(context.Background(), ride))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no longer processing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("UPDATE scheduled_rides").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := NewScheduledRideRepo(mock).SaveDispatchResult(context.Background(), ride)
		assert.ErrorIs(t, err, types.ErrStatusConflict)
	})

	t.Run("database error", func(t *testing.T) {
		mock := newMock(t)
		boom := errors.New("connection reset")
		mock.ExpectExec("UPDATE scheduled_rides").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(boom)

		err := NewScheduledRideRepo(mock).SaveDispatchResult(context.Background(), ride)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "ScheduledRideRepo.SaveDispatchResult")
	})
}

func TestScheduledRideRepo_ListReadyToBook_Error(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM scheduled_rides").
		WithArgs(types.StatusPending, now.Add(models.DispatchLead)).
		WillReturnError(boom)

	rides, err := NewScheduledRideRepo(mock).ListReadyToBook(context.Background(), now)
	assert.Nil(t, rides)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledRideRepo_ListNeedingReminder_Window(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("reminder_10min_sent = false").
		WithArgs(types.StatusPending, now.Add(5*time.Minute), now.Add(10*time.Minute)).
		WillReturnRows(mock.NewRows([]string{"id"}))

	rides, err := NewScheduledRideRepo(mock).ListNeeds10MinReminder(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, rides)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledRideRepo_ResetStaleProcessing_Args(t *testing.T) {
	mock := newMock(t)
	staleBefore := now.Add(-models.StaleProcessingAfter)
	mock.ExpectQuery("retry_count = retry_count \\+ 1").
		WithArgs(types.StatusProcessing, staleBefore, now, models.MaxRetries, types.StatusFailed, types.StatusPending, models.FailureReasonNoDriver).
		WillReturnRows(mock.NewRows([]string{"id"}))

	rides, err := NewScheduledRideRepo(mock).ResetStaleProcessing(context.Background(), staleBefore, now)
	require.NoError(t, err)
	assert.Empty(t, rides)
	assert.NoError(t, mock.ExpectationsWereMet())
}
