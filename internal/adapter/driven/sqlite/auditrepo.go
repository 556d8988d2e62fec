package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AuditStore = (*AuditRepo)(nil)

// AuditRepo is the SQLite implementation of the AuditStore port interface.
type AuditRepo struct {
	db *DB
}

// NewAuditRepo creates a new AuditRepo backed by the given DB.
func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Record appends one audit row. Audit writes are not retried: the caller
// already treats them as best-effort, and retrying a fire-and-forget write
// under contention only delays the login path's worker.
func (r *AuditRepo) Record(ctx context.Context, entry model.LoginAudit) error {
	const query = `
		INSERT INTO login_audit (id, email, client_key, user_agent, success, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		entry.ID, entry.Email, entry.ClientKey, entry.UserAgent,
		boolToInt(entry.Success), entry.Reason, formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record login audit: %w", err)
	}
	return nil
}

// ListByEmail returns the most recent attempts for an email, newest first.
func (r *AuditRepo) ListByEmail(ctx context.Context, email string, limit int) ([]model.LoginAudit, error) {
	const query = `
		SELECT id, email, client_key, user_agent, success, reason, created_at
		FROM login_audit
		WHERE email = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, email, limit)
	if err != nil {
		return nil, fmt.Errorf("list login audit for %s: %w", email, err)
	}
	defer rows.Close()

	var entries []model.LoginAudit
	for rows.Next() {
		var (
			e         model.LoginAudit
			success   int
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Email, &e.ClientKey, &e.UserAgent, &success, &e.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scan login audit: %w", err)
		}
		e.Success = success != 0
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate login audit: %w", err)
	}

	return entries, nil
}
