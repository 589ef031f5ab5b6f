package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
)

var now = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func pendingAt(d time.Duration) *ScheduledRide {
	return &ScheduledRide{Status: types.StatusPending, ScheduledAt: now.Add(d)}
}

func TestNeedsReminder_Windows(t *testing.T) {
	tests := []struct {
		name   string
		in     time.Duration
		need30 bool
		need10 bool
	}{
		{name: "exactly 25m", in: 25 * time.Minute},
		{name: "just after 25m", in: 25*time.Minute + time.Second, need30: true},
		{name: "exactly 30m", in: 30 * time.Minute, need30: true},
		{name: "after 30m", in: 30*time.Minute + time.Second},
		{name: "between tiers", in: 15 * time.Minute},
		{name: "exactly 5m", in: 5 * time.Minute},
		{name: "just after 5m", in: 5*time.Minute + time.Second, need10: true},
		{name: "exactly 10m", in: 10 * time.Minute, need10: true},
		{name: "past", in: -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pendingAt(tt.in)
			assert.Equal(t, tt.need30, r.NeedsReminder(Reminder30Min, now))
			assert.Equal(t, tt.need10, r.NeedsReminder(Reminder10Min, now))
		})
	}
}

func TestNeedsReminder_OnlyPendingAndUnsent(t *testing.T) {
	r := pendingAt(28 * time.Minute)
	r.Reminder30Sent = true
	assert.False(t, r.NeedsReminder(Reminder30Min, now))

	r = pendingAt(28 * time.Minute)
	r.Status = types.StatusCancelled
	assert.False(t, r.NeedsReminder(Reminder30Min, now))
}

func TestReadyToBook(t *testing.T) {
	assert.True(t, pendingAt(5*time.Minute).ReadyToBook(now))
	assert.True(t, pendingAt(-10*time.Minute).ReadyToBook(now))
	assert.False(t, pendingAt(5*time.Minute+time.Second).ReadyToBook(now))

	r := pendingAt(time.Minute)
	r.Status = types.StatusProcessing
	assert.False(t, r.ReadyToBook(now))
}

func TestRecordFailedAttempt(t *testing.T) {
	r := pendingAt(time.Minute)
	r.Status = types.StatusProcessing

	for i := 1; i < MaxRetries; i++ {
		r.RecordFailedAttempt(now)
		assert.Equal(t, i, r.RetryCount)
		assert.Equal(t, types.StatusPending, r.Status)
		assert.Nil(t, r.FailureReason)
		r.Status = types.StatusProcessing
	}

	r.RecordFailedAttempt(now)
	assert.Equal(t, MaxRetries, r.RetryCount)
	assert.Equal(t, types.StatusFailed, r.Status)
	require.NotNil(t, r.FailureReason)
	assert.Equal(t, FailureReasonNoDriver, *r.FailureReason)
	require.NotNil(t, r.LastRetryAt)
	assert.Equal(t, now, *r.LastRetryAt)
}

func TestReminderFlagsAreMonotonic(t *testing.T) {
	r := pendingAt(time.Hour)
	r.MarkReminderSent(Reminder10Min)
	r.MarkReminderSent(Reminder10Min)
	assert.True(t, r.Reminder10Sent)
	assert.False(t, r.Reminder30Sent)
	assert.True(t, r.ReminderSent(Reminder10Min))
}

func TestNotifications(t *testing.T) {
	var n Notification = FailedNotification{}
	assert.Equal(t, types.NotificationFailed, n.Type())
	assert.Equal(t, "We could not find a driver for your scheduled ride. Please try booking again.", n.Body())

	n = NewRideRequestNotification{DropAddress: "Gulberg"}
	assert.Equal(t, "Scheduled pickup, drop-off at Gulberg.", n.Body())
	assert.Nil(t, n.Data().DriverID)
}
