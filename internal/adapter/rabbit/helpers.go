package rabbit

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
)

// isRecoverableError reports whether a failed publish is worth another attempt.
func isRecoverableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !oneOf(err, types.ErrBrokerConnectionClosed, types.ErrInvalidNotification)
}

func oneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// retry calls fn up to n times while it fails with a recoverable error.
func retry(ctx context.Context, n int, sleep time.Duration, fn func() error) error {
	var err error
	for i := range n {
		if err = fn(); err == nil || !isRecoverableError(err) {
			return err
		}
		if i == n-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	return err
}
