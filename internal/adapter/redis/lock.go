package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
)

const CycleLockKey = "scheduler:dispatch_cycle:lock"

// releaseScript deletes the key only if it still holds our token,
// so an expired lease taken over by another replica is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CycleLock is a lease shared by all scheduler replicas. At most one replica
// runs a dispatch cycle while it holds the lease.
type CycleLock struct {
	client   redis.Cmdable
	key      string
	ttl      time.Duration
	newToken func() string
}

func NewCycleLock(client redis.Cmdable, ttl time.Duration) *CycleLock {
	return &CycleLock{
		client:   client,
		key:      CycleLockKey,
		ttl:      ttl,
		newToken: uuid.NewString,
	}
}

// TTL is how long a lease lasts. It is never renewed, so a cycle must finish within it.
func (l *CycleLock) TTL() time.Duration {
	return l.ttl
}

// Acquire takes the lease. It returns types.ErrCycleInProgress if another
// holder has it. The returned func releases the lease.
func (l *CycleLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	const op = "CycleLock.Acquire"
	token := l.newToken()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionCycleLock)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if !ok {
		return nil, types.ErrCycleInProgress
	}

	release := func(ctx context.Context) error {
		const op = "CycleLock.Release"
		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			ctx = wrap.WithAction(ctx, types.ActionCycleLock)
			return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		return nil
	}
	return release, nil
}
