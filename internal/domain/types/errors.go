package types

import "errors"

var (
	// ErrStatusConflict means the row left the expected status between read and write,
	// usually because the rider cancelled it.
	ErrStatusConflict  = errors.New("scheduled ride status changed concurrently")
	ErrCycleInProgress = errors.New("dispatch cycle already in progress")

	ErrInvalidNotification    = errors.New("invalid notification")
	ErrFailedToPublish        = errors.New("failed to publish notification")
	ErrBrokerConnectionClosed = errors.New("rabbitmq connection is closed")
)
