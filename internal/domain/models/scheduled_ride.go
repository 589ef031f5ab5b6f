package models

import (
	"time"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/google/uuid"
)

// Scheduler contract. Lead times are measured back from ScheduledAt.
const (
	// MaxRetries is the number of unsuccessful dispatch attempts after which a booking fails.
	MaxRetries = 3

	// ReminderWindow is the width of each reminder window. It must be at least
	// the cycle period, otherwise a booking can slip between two cycles.
	ReminderWindow = 5 * time.Minute

	// DispatchLead is how long before pickup the scheduler starts looking for a driver.
	DispatchLead = 5 * time.Minute

	// StaleProcessingAfter is how long a booking may stay in processing
	// before the sweep hands it back to the dispatch stage.
	StaleProcessingAfter = 10 * time.Minute

	// FailureReasonNoDriver is stored on bookings that ran out of retries.
	FailureReasonNoDriver = "No driver available after maximum retry attempts"

	// ScheduledRideNoteMarker prefixes the notes of ride requests created by the scheduler.
	ScheduledRideNoteMarker = "[Scheduled Ride]"
)

// ReminderTier identifies one of the reminder windows by its lead time in minutes.
type ReminderTier int

const (
	Reminder30Min ReminderTier = 30
	Reminder10Min ReminderTier = 10
)

// ReminderTiers lists the tiers in the order the reminder stage runs them.
var ReminderTiers = []ReminderTier{Reminder30Min, Reminder10Min}

func (t ReminderTier) Minutes() int {
	return int(t)
}

func (t ReminderTier) Lead() time.Duration {
	return time.Duration(t) * time.Minute
}

// Window returns the half-open interval (from, to] of scheduled times
// that fall into this tier at the given moment.
func (t ReminderTier) Window(now time.Time) (from, to time.Time) {
	to = now.Add(t.Lead())
	return to.Add(-ReminderWindow), to
}

// ScheduledRide is a rider's booking to be matched with a driver at a future time.
type ScheduledRide struct {
	ID            uuid.UUID
	UserID        uuid.UUID // rider who owns the booking
	Pickup        Location
	Dropoff       Location
	ScheduledAt   time.Time
	VehicleType   types.VehicleType
	PaymentMethod string   // cash, wallet, card...
	EstimatedFare *float64 // nil until priced
	DistanceKm    *float64
	Status        types.ScheduledRideStatus

	// Live ride created on successful dispatch, set only when booked.
	RideRequestID *uuid.UUID

	RetryCount    int
	LastRetryAt   *time.Time
	FailureReason *string

	Reminder30Sent          bool
	Reminder10Sent          bool
	BookingNotificationSent bool

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReminderSent reports whether the reminder of the given tier went out already.
func (r *ScheduledRide) ReminderSent(tier ReminderTier) bool {
	switch tier {
	case Reminder30Min:
		return r.Reminder30Sent
	case Reminder10Min:
		return r.Reminder10Sent
	default:
		return true
	}
}

// MarkReminderSent flips the tier flag. Flags never go back to false.
func (r *ScheduledRide) MarkReminderSent(tier ReminderTier) {
	switch tier {
	case Reminder30Min:
		r.Reminder30Sent = true
	case Reminder10Min:
		r.Reminder10Sent = true
	}
}

// NeedsReminder is the in-memory form of the reminder selection query.
func (r *ScheduledRide) NeedsReminder(tier ReminderTier, now time.Time) bool {
	if r.Status != types.StatusPending || r.ReminderSent(tier) {
		return false
	}
	from, to := tier.Window(now)
	return r.ScheduledAt.After(from) && !r.ScheduledAt.After(to)
}

// ReadyToBook is the in-memory form of the dispatch selection query.
func (r *ScheduledRide) ReadyToBook(now time.Time) bool {
	return r.Status == types.StatusPending && !r.ScheduledAt.After(now.Add(DispatchLead))
}

// RecordFailedAttempt applies the no-driver branch of the dispatch state machine:
// the retry counter grows and the booking either goes back to pending or fails.
func (r *ScheduledRide) RecordFailedAttempt(now time.Time) {
	r.RetryCount++
	r.LastRetryAt = &now
	if r.RetryCount >= MaxRetries {
		reason := FailureReasonNoDriver
		r.Status = types.StatusFailed
		r.FailureReason = &reason
		return
	}
	r.Status = types.StatusPending
}

// MarkBooked applies the driver-found branch of the dispatch state machine.
func (r *ScheduledRide) MarkBooked(rideRequestID uuid.UUID) {
	r.Status = types.StatusBooked
	r.RideRequestID = &rideRequestID
	r.BookingNotificationSent = true
}
