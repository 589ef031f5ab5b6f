package wrap

import (
	"context"
)

type (
	// LogCtx holds contextual information for logging
	LogCtx struct {
		Action          string
		CycleID         string
		ScheduledRideID string
		RideID          string
		UserID          string
	}

	// logCtxKeyStruct is an unexported type for context keys defined in this package.
	logCtxKeyStruct struct{}
)

// LogCtxKey is the key for log context values
var LogCtxKey = &logCtxKeyStruct{}

// FromContext returns the LogCtx stored in ctx, if any.
func FromContext(ctx context.Context) (LogCtx, bool) {
	lc, ok := ctx.Value(LogCtxKey).(LogCtx)
	return lc, ok
}

// WithLogCtx returns a new context with the provided LogCtx merged over the existing one
func WithLogCtx(ctx context.Context, newLc LogCtx) context.Context {
	lc, ok := FromContext(ctx)
	if !ok {
		return context.WithValue(ctx, LogCtxKey, newLc)
	}
	if newLc.Action != "" {
		lc.Action = newLc.Action
	}
	if newLc.CycleID != "" {
		lc.CycleID = newLc.CycleID
	}
	if newLc.ScheduledRideID != "" {
		lc.ScheduledRideID = newLc.ScheduledRideID
	}
	if newLc.RideID != "" {
		lc.RideID = newLc.RideID
	}
	if newLc.UserID != "" {
		lc.UserID = newLc.UserID
	}
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithAction adds or updates the Action in the LogCtx within the context
func WithAction(ctx context.Context, action string) context.Context {
	return WithLogCtx(ctx, LogCtx{Action: action})
}

// WithCycleID adds or updates the CycleID in the LogCtx within the context
func WithCycleID(ctx context.Context, cycleID string) context.Context {
	return WithLogCtx(ctx, LogCtx{CycleID: cycleID})
}

// WithScheduledRideID adds or updates the ScheduledRideID in the LogCtx within the context
func WithScheduledRideID(ctx context.Context, id string) context.Context {
	return WithLogCtx(ctx, LogCtx{ScheduledRideID: id})
}

// WithRideID adds or updates the RideID in the LogCtx within the context
func WithRideID(ctx context.Context, rideID string) context.Context {
	return WithLogCtx(ctx, LogCtx{RideID: rideID})
}

// WithUserID adds or updates the UserID in the LogCtx within the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return WithLogCtx(ctx, LogCtx{UserID: userID})
}
