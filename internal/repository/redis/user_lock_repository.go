package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"swipeNews/business/feed"
	"swipeNews/pkg/logger"
)

var ErrLockTimeout = errors.New("timed out waiting for user lock")

// releaseScript deletes the lock only if it still holds our token.
// KEYS[1] = lock key
// ARGV[1] = token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// UserLockRepository serializes read-modify-write cycles on one user record
// across processes.
type UserLockRepository struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

var _ feed.UserLocker = (*UserLockRepository)(nil)

// NewUserLockRepository builds a lock with the given hold ttl and maximum wait.
func NewUserLockRepository(client *redis.Client, ttl, wait time.Duration) *UserLockRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if wait <= 0 {
		wait = 10 * time.Second
	}
	return &UserLockRepository{
		client: client,
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
	}
}

func lockKey(userID string) string {
	// key format: "feed:lock:{user_id}"
	return fmt.Sprintf("feed:lock:%s", userID)
}

func (r *UserLockRepository) Lock(ctx context.Context, userID string) (func(), error) {
	key := lockKey(userID)
	token := uuid.NewString()

	deadline := time.NewTimer(r.wait)
	defer deadline.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock in Redis: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, userID)
		case <-time.After(r.retry):
		}
	}

	return func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, r.client, []string{key}, token).Err(); err != nil {
			logger.Warn("failed to release user lock", "user_id", userID, "error", err)
		}
	}, nil
}
