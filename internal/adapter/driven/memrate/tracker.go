// Package memrate implements the login attempt tracker in process memory.
// State is lost on restart and is not shared between instances; deployments
// running more than one replica should use the redisrate tracker so a single
// global limit is enforced.
package memrate

import (
	"context"
	"sync"
	"time"

	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AttemptTracker = (*Tracker)(nil)

// DefaultCapacity bounds how many client keys are tracked at once. The map
// cannot grow without bound: expired entries are swept on insert and by the
// periodic janitor, and when the cap is still hit the stalest entry is
// evicted.
const DefaultCapacity = 10_000

type entry struct {
	count       int
	lastAttempt time.Time
}

// Tracker is a mutex-guarded, capacity-bounded failure counter keyed by
// client network identifier.
type Tracker struct {
	mu       sync.Mutex
	attempts map[string]*entry

	threshold int
	window    time.Duration
	capacity  int
	now       func() time.Time
}

// New creates a Tracker locking a key out after threshold failures within
// the sliding window.
func New(threshold int, window time.Duration) *Tracker {
	return &Tracker{
		attempts:  make(map[string]*entry),
		threshold: threshold,
		window:    window,
		capacity:  DefaultCapacity,
		now:       time.Now,
	}
}

// Check reports whether the key is currently locked out. A window that has
// elapsed since the last failure clears the entry lazily here rather than
// waiting for the janitor.
func (t *Tracker) Check(_ context.Context, key string) (bool, time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.attempts[key]
	if !ok {
		return false, 0, nil
	}

	elapsed := t.now().Sub(e.lastAttempt)
	if elapsed >= t.window {
		delete(t.attempts, key)
		return false, 0, nil
	}

	if e.count >= t.threshold {
		return true, t.window - elapsed, nil
	}
	return false, 0, nil
}

// RecordFailure counts one failed attempt against the key. A failure after
// the window elapsed starts a fresh count.
func (t *Tracker) RecordFailure(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	e, ok := t.attempts[key]
	if !ok {
		t.ensureRoomLocked(now)
		e = &entry{}
		t.attempts[key] = e
	} else if now.Sub(e.lastAttempt) >= t.window {
		e.count = 0
	}

	e.count++
	e.lastAttempt = now
	return nil
}

// Reset clears the key's failure count.
func (t *Tracker) Reset(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, key)
	return nil
}

// Run sweeps expired entries every interval until ctx is cancelled. Sweeping
// is an optimization only; correctness relies on the lazy reset in Check.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sweep()
		}
	}
}

// Len reports the number of tracked keys.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.attempts)
}

func (t *Tracker) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for key, e := range t.attempts {
		if now.Sub(e.lastAttempt) >= t.window {
			delete(t.attempts, key)
		}
	}
}

// ensureRoomLocked makes space for one more entry when the tracker is at
// capacity: first dropping expired entries, then evicting the stalest one.
// Caller holds the mutex.
func (t *Tracker) ensureRoomLocked(now time.Time) {
	if len(t.attempts) < t.capacity {
		return
	}

	for key, e := range t.attempts {
		if now.Sub(e.lastAttempt) >= t.window {
			delete(t.attempts, key)
		}
	}
	if len(t.attempts) < t.capacity {
		return
	}

	var (
		oldestKey string
		oldestAt  time.Time
	)
	for key, e := range t.attempts {
		if oldestKey == "" || e.lastAttempt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.lastAttempt
		}
	}
	delete(t.attempts, oldestKey)
}
