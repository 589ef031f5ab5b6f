package models

import (
	"strings"
	"time"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/google/uuid"
)

// RideRequest is the live ride created when a scheduled booking gets a driver.
type RideRequest struct {
	ID             uuid.UUID
	RiderID        uuid.UUID
	DriverID       uuid.UUID // user id of the matched driver
	Pickup         Location
	Dropoff        Location
	DistanceKm     *float64
	EstimatedPrice *float64
	PaymentMethod  string
	Seats          int
	Status         types.RideRequestStatus
	ScheduledAt    time.Time
	Notes          string
	CreatedAt      time.Time
}

// NewRideRequestFromBooking copies a booking into a live ride request assigned to driver.
func NewRideRequestFromBooking(booking *ScheduledRide, driver *Driver, now time.Time) *RideRequest {
	return &RideRequest{
		ID:             uuid.New(),
		RiderID:        booking.UserID,
		DriverID:       driver.UserID,
		Pickup:         booking.Pickup,
		Dropoff:        booking.Dropoff,
		DistanceKm:     booking.DistanceKm,
		EstimatedPrice: booking.EstimatedFare,
		PaymentMethod:  booking.PaymentMethod,
		Seats:          1,
		Status:         types.RideDriverAssigned,
		ScheduledAt:    booking.ScheduledAt,
		Notes:          scheduledNotes(booking.Notes),
		CreatedAt:      now,
	}
}

func scheduledNotes(notes *string) string {
	if notes == nil || strings.TrimSpace(*notes) == "" {
		return ScheduledRideNoteMarker
	}
	return ScheduledRideNoteMarker + " " + strings.TrimSpace(*notes)
}

// DispatchOutcome is the result of one matching attempt for one booking.
// Ride and Driver are both nil when no driver was available.
type DispatchOutcome struct {
	Ride   *RideRequest
	Driver *Driver
}

func (o DispatchOutcome) Found() bool {
	return o.Ride != nil
}
