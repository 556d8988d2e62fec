package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ChatWidgetStore = (*ChatWidgetRepo)(nil)

// ChatWidgetRepo is the SQLite implementation of the ChatWidgetStore port
// interface. The settings are a single row with a fixed id.
type ChatWidgetRepo struct {
	db *DB
}

// NewChatWidgetRepo creates a new ChatWidgetRepo backed by the given DB.
func NewChatWidgetRepo(db *DB) *ChatWidgetRepo {
	return &ChatWidgetRepo{db: db}
}

// Get retrieves the stored settings. Returns (nil, nil) when nothing has
// been saved yet; callers apply defaults.
func (r *ChatWidgetRepo) Get(ctx context.Context) (*model.ChatWidgetSettings, error) {
	const query = `
		SELECT enabled, position, accent_color, greeting, offline_message, updated_at
		FROM chat_widget_settings
		WHERE id = 1
	`

	var (
		s         model.ChatWidgetSettings
		enabled   int
		updatedAt string
	)

	err := withRetry(ctx, func() error {
		return r.db.Reader.QueryRowContext(ctx, query).Scan(
			&enabled, &s.Position, &s.AccentColor, &s.Greeting, &s.OfflineMessage, &updatedAt,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat widget settings: %w", err)
	}

	s.Enabled = enabled != 0
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &s, nil
}

// Set replaces the stored settings.
func (r *ChatWidgetRepo) Set(ctx context.Context, s model.ChatWidgetSettings) error {
	const query = `
		INSERT INTO chat_widget_settings (id, enabled, position, accent_color, greeting, offline_message, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			enabled = excluded.enabled,
			position = excluded.position,
			accent_color = excluded.accent_color,
			greeting = excluded.greeting,
			offline_message = excluded.offline_message,
			updated_at = excluded.updated_at
	`

	return withRetry(ctx, func() error {
		_, err := r.db.Writer.ExecContext(ctx, query,
			boolToInt(s.Enabled), s.Position, s.AccentColor,
			s.Greeting, s.OfflineMessage, formatTime(s.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("set chat widget settings: %w", err)
		}
		return nil
	})
}
