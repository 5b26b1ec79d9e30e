package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

var ErrLockBusy = errors.New("lock is held by another owner")

// unlockScript deletes the key only when it still carries our token,
// so an expired lock re-acquired by someone else is never released
// from here.
var unlockScript = goredis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	end
	return 0
`)

// Lock is a single-holder mutex on a Redis key with a TTL.
type Lock struct {
	client *goredis.Client
	key    string
	token  string
	ttl    time.Duration
}

func NewLock(client *goredis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{
		client: client,
		key:    key,
		token:  uuid.NewString(),
		ttl:    ttl,
	}
}

// Acquire retries SET NX every `retry` until it wins, `maxWait`
// elapses, or the context is cancelled.
func (l *Lock) Acquire(ctx context.Context, retry, maxWait time.Duration) error {
	deadline := time.Now().Add(maxWait)
	for {
		ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", l.key, err)
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("acquire lock %s: %w", l.key, ErrLockBusy)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}

func (l *Lock) Release(ctx context.Context) error {
	if err := unlockScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}
