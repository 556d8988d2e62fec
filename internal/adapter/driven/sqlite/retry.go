package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxRetries bounds how many times a transient failure is retried before it
// is surfaced. With a 1s initial interval and multiplier 2 the waits are
// 1s, 2s, 4s.
const maxRetries = 3

// withRetry runs op, retrying transient SQLite failures with exponential
// backoff. Permanent failures (constraint violations, bad SQL, missing rows)
// surface immediately; retrying those only amplifies load.
func withRetry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = 4 * time.Second

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx))
}

// isTransient reports whether the error is a contention-style SQLite failure
// worth retrying. Context cancellation is never transient.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// IsUniqueViolation reports whether the error is a SQLite UNIQUE constraint
// failure. The modernc driver exposes constraint failures only through the
// error text.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
