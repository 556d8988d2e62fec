// Package redisrate implements the login attempt tracker on Redis so that
// every server instance enforces one shared limit per client key.
package redisrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AttemptTracker = (*Tracker)(nil)

// ErrUnavailable indicates the Redis backend is unreachable. The auth
// service treats this as fail-open: a broken tracker must not take logins
// down with it.
var ErrUnavailable = errors.New("attempt tracker backend unavailable")

// Tracker counts failures in Redis with a TTL refreshed on every failure,
// giving the same sliding since-last-attempt window as the in-memory
// tracker.
type Tracker struct {
	redis     redis.UniversalClient
	threshold int
	window    time.Duration
}

// New creates a Tracker locking a key out after threshold failures within
// the sliding window.
func New(client redis.UniversalClient, threshold int, window time.Duration) *Tracker {
	return &Tracker{
		redis:     client,
		threshold: threshold,
		window:    window,
	}
}

func (t *Tracker) key(clientKey string) string {
	return "la:" + clientKey
}

// Check reports whether the key is currently locked out. Window expiry is
// handled by the key's TTL, so a missing key means a clean slate.
func (t *Tracker) Check(ctx context.Context, clientKey string) (bool, time.Duration, error) {
	count, err := t.redis.Get(ctx, t.key(clientKey)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count < int64(t.threshold) {
		return false, 0, nil
	}

	ttl, err := t.redis.TTL(ctx, t.key(clientKey)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if ttl <= 0 {
		return false, 0, nil
	}
	return true, ttl, nil
}

// RecordFailure increments the counter and refreshes the TTL so the window
// slides from the most recent failure.
func (t *Tracker) RecordFailure(ctx context.Context, clientKey string) error {
	pipe := t.redis.TxPipeline()
	pipe.Incr(ctx, t.key(clientKey))
	pipe.Expire(ctx, t.key(clientKey), t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Reset clears the key's failure count.
func (t *Tracker) Reset(ctx context.Context, clientKey string) error {
	if err := t.redis.Del(ctx, t.key(clientKey)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
