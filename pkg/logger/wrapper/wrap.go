package wrap

import (
	"context"
	"errors"
)

// Error attaches the current LogCtx from ctx to err. Nil stays nil.
// The innermost captured context wins, so wrapping again on the way up
// the call stack keeps the most specific fields.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	lc, _ := FromContext(ctx)

	var inner *errorWithLogCtx
	if errors.As(err, &inner) {
		lc = merge(lc, inner.logCtx)
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: lc,
	}
}

// merge overlays the non-empty fields of inner onto outer.
func merge(outer, inner LogCtx) LogCtx {
	if inner.Action != "" {
		outer.Action = inner.Action
	}
	if inner.CycleID != "" {
		outer.CycleID = inner.CycleID
	}
	if inner.ScheduledRideID != "" {
		outer.ScheduledRideID = inner.ScheduledRideID
	}
	if inner.RideID != "" {
		outer.RideID = inner.RideID
	}
	if inner.UserID != "" {
		outer.UserID = inner.UserID
	}
	return outer
}
