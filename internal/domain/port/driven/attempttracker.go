package driven

import (
	"context"
	"time"
)

// AttemptTracker bounds repeated login failures per client key. Keys are
// network identifiers (forwarded address or remote host); implementations may
// hold state in process memory or in a shared store.
//
// Semantics: a key is locked once it has accumulated the failure threshold
// and the lockout window has not elapsed since the last failure. The window
// resets lazily on the next Check after it elapses, or immediately via Reset
// on a successful login.
type AttemptTracker interface {
	// Check reports whether the key is currently locked out and, if so, how
	// long until the next attempt will be evaluated on its merits.
	Check(ctx context.Context, key string) (locked bool, retryAfter time.Duration, err error)

	// RecordFailure counts one failed attempt against the key.
	RecordFailure(ctx context.Context, key string) error

	// Reset clears the key's failure count.
	Reset(ctx context.Context, key string) error
}
