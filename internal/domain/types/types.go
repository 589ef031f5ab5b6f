package types

type ServiceMode string

// Scheduler - runs the dispatch cycle on a ticker until stopped
// Once - runs a single dispatch cycle and exits, for an external cron
const (
	SchedulerMode ServiceMode = "scheduler"
	OnceMode      ServiceMode = "once"
)

// VehicleType is the class of vehicle a booking asks for.
type VehicleType string

func (v VehicleType) String() string {
	return string(v)
}

const (
	VehicleBike     VehicleType = "bike"
	VehicleRickshaw VehicleType = "rickshaw"
	VehicleCar      VehicleType = "car"
	VehicleACCar    VehicleType = "ac_car"
)

// Valid reports whether v is one of the known vehicle types.
func (v VehicleType) Valid() bool {
	switch v {
	case VehicleBike, VehicleRickshaw, VehicleCar, VehicleACCar:
		return true
	default:
		return false
	}
}

// Enum for scheduled ride status
type ScheduledRideStatus string

func (s ScheduledRideStatus) String() string {
	return string(s)
}

const (
	StatusPending    ScheduledRideStatus = "pending"
	StatusProcessing ScheduledRideStatus = "processing"
	StatusBooked     ScheduledRideStatus = "booked"
	StatusCompleted  ScheduledRideStatus = "completed"
	StatusCancelled  ScheduledRideStatus = "cancelled"
	StatusFailed     ScheduledRideStatus = "failed"
)

// Terminal reports whether the booking is never picked up by the scheduler again.
func (s ScheduledRideStatus) Terminal() bool {
	switch s {
	case StatusBooked, StatusCompleted, StatusCancelled, StatusFailed:
		return true
	default:
		return false
	}
}

// Enum for driver approval
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Enum for live ride request status. Only the first one is written here,
// the rest belong to the ride lifecycle owned by the ride service.
type RideRequestStatus string

const (
	RideDriverAssigned RideRequestStatus = "driver_assigned"
	RideInProgress     RideRequestStatus = "in_progress"
	RideCompleted      RideRequestStatus = "completed"
	RideCancelled      RideRequestStatus = "cancelled"
)

// Enum for notification events sent by the scheduler
type NotificationType string

func (n NotificationType) String() string {
	return string(n)
}

const (
	NotificationReminder       NotificationType = "scheduled_ride_reminder"
	NotificationBooked         NotificationType = "scheduled_ride_booked"
	NotificationNewRideRequest NotificationType = "new_ride_request"
	NotificationFailed         NotificationType = "scheduled_ride_failed"
)

// ScheduledRideEvent is an entry in the history of a booking.
type ScheduledRideEvent string

func (e ScheduledRideEvent) String() string {
	return string(e)
}

const (
	EventReminderSent   ScheduledRideEvent = "reminder_sent"
	EventDispatchBooked ScheduledRideEvent = "dispatch_booked"
	EventDispatchRetry  ScheduledRideEvent = "dispatch_retry"
	EventDispatchFailed ScheduledRideEvent = "dispatch_failed"
	EventStaleReset     ScheduledRideEvent = "stale_processing_reset"
)
