package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// auditWriteTimeout bounds each background audit insert so a wedged database
// cannot pile up worker goroutine time indefinitely.
const auditWriteTimeout = 5 * time.Second

// AuditRecorder writes login audit rows off the request path. Writes are
// fire-and-forget: a failed insert is logged and dropped, never surfaced to
// the login that produced it. Events are buffered; when the buffer is full
// the event is dropped (and counted) rather than blocking a login.
type AuditRecorder struct {
	store  driven.AuditStore
	logger *slog.Logger

	ch      chan model.LoginAudit
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	dropped int
	mu      sync.Mutex
}

// NewAuditRecorder creates an AuditRecorder and starts its worker.
func NewAuditRecorder(store driven.AuditStore, logger *slog.Logger) *AuditRecorder {
	r := &AuditRecorder{
		store:  store,
		logger: logger,
		ch:     make(chan model.LoginAudit, 256),
		done:   make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

// Record queues one audit row. Never blocks and never returns an error.
func (r *AuditRecorder) Record(email, clientKey, userAgent string, success bool, reason string) {
	entry := model.LoginAudit{
		ID:        uuid.NewString(),
		Email:     email,
		ClientKey: clientKey,
		UserAgent: userAgent,
		Success:   success,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}

	select {
	case r.ch <- entry:
	case <-r.done:
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
		r.logger.Warn("audit buffer full, dropping event", "email", email, "reason", reason)
	}
}

// Close drains queued events and stops the worker. Used at shutdown and by
// tests that assert on persisted rows.
func (r *AuditRecorder) Close() {
	r.once.Do(func() { close(r.done) })
	r.wg.Wait()
}

// Dropped reports how many events were discarded because the buffer was full.
func (r *AuditRecorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func (r *AuditRecorder) run() {
	defer r.wg.Done()

	for {
		select {
		case entry := <-r.ch:
			r.write(entry)
		case <-r.done:
			// Drain whatever is queued before exiting.
			for {
				select {
				case entry := <-r.ch:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *AuditRecorder) write(entry model.LoginAudit) {
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := r.store.Record(ctx, entry); err != nil {
		// The swallow is the contract: audit failure must not fail a login.
		r.logger.Error("failed to write login audit", "email", entry.Email, "error", err)
	}
}
