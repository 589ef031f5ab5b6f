package models

import (
	"fmt"
	"time"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/google/uuid"
)

// Notification is one of the events the scheduler sends to users.
// The set is closed: only the types declared in this file implement it.
type Notification interface {
	Type() types.NotificationType
	Title() string
	Body() string
	Data() NotificationData
	isNotification()
}

// NotificationData is the structured payload attached to every notification.
type NotificationData struct {
	Type            types.NotificationType `json:"type"`
	ScheduledRideID uuid.UUID              `json:"scheduled_ride_id"`
	Minutes         int                    `json:"minutes,omitempty"`
	RideRequestID   *uuid.UUID             `json:"ride_request_id,omitempty"`
	DriverID        *uuid.UUID             `json:"driver_id,omitempty"`
}

// ReminderNotification tells the rider the pickup is Minutes away.
type ReminderNotification struct {
	ScheduledRideID uuid.UUID
	Minutes         int
	DropAddress     string
}

func (n ReminderNotification) Type() types.NotificationType { return types.NotificationReminder }
func (n ReminderNotification) Title() string                { return "Upcoming Scheduled Ride" }
func (n ReminderNotification) Body() string {
	return fmt.Sprintf("Your ride to %s is in %d minutes.", n.DropAddress, n.Minutes)
}
func (n ReminderNotification) Data() NotificationData {
	return NotificationData{Type: n.Type(), ScheduledRideID: n.ScheduledRideID, Minutes: n.Minutes}
}
func (ReminderNotification) isNotification() {}

// BookedNotification tells the rider a driver was assigned.
type BookedNotification struct {
	ScheduledRideID uuid.UUID
	RideRequestID   uuid.UUID
	DriverID        uuid.UUID
	DriverName      string
}

func (n BookedNotification) Type() types.NotificationType { return types.NotificationBooked }
func (n BookedNotification) Title() string                { return "Driver Found!" }
func (n BookedNotification) Body() string {
	return fmt.Sprintf("%s will pick you up for your scheduled ride.", n.DriverName)
}
func (n BookedNotification) Data() NotificationData {
	return NotificationData{
		Type:            n.Type(),
		ScheduledRideID: n.ScheduledRideID,
		RideRequestID:   &n.RideRequestID,
		DriverID:        &n.DriverID,
	}
}
func (BookedNotification) isNotification() {}

// NewRideRequestNotification tells the driver about the assigned ride.
type NewRideRequestNotification struct {
	ScheduledRideID uuid.UUID
	RideRequestID   uuid.UUID
	DropAddress     string
}

func (n NewRideRequestNotification) Type() types.NotificationType {
	return types.NotificationNewRideRequest
}
func (n NewRideRequestNotification) Title() string { return "New Ride Request" }
func (n NewRideRequestNotification) Body() string {
	return fmt.Sprintf("Scheduled pickup, drop-off at %s.", n.DropAddress)
}
func (n NewRideRequestNotification) Data() NotificationData {
	return NotificationData{
		Type:            n.Type(),
		ScheduledRideID: n.ScheduledRideID,
		RideRequestID:   &n.RideRequestID,
	}
}
func (NewRideRequestNotification) isNotification() {}

// FailedNotification tells the rider the booking ran out of retries.
type FailedNotification struct {
	ScheduledRideID uuid.UUID
}

func (n FailedNotification) Type() types.NotificationType { return types.NotificationFailed }
func (n FailedNotification) Title() string                { return "Scheduled Ride Failed" }
func (n FailedNotification) Body() string {
	return "We could not find a driver for your scheduled ride. Please try booking again."
}
func (n FailedNotification) Data() NotificationData {
	return NotificationData{Type: n.Type(), ScheduledRideID: n.ScheduledRideID}
}
func (FailedNotification) isNotification() {}

// NotificationMessage is the wire format published to the notification exchange.
type NotificationMessage struct {
	UserID    uuid.UUID        `json:"user_id"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Data      NotificationData `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewNotificationMessage builds the wire message for userID.
func NewNotificationMessage(userID uuid.UUID, n Notification, now time.Time) NotificationMessage {
	return NotificationMessage{
		UserID:    userID,
		Title:     n.Title(),
		Body:      n.Body(),
		Data:      n.Data(),
		Timestamp: now,
	}
}
