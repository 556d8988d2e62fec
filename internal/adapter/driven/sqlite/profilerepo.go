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
var _ driven.ProfileStore = (*ProfileRepo)(nil)

// ProfileRepo is the SQLite implementation of the ProfileStore port interface.
type ProfileRepo struct {
	db *DB
}

// NewProfileRepo creates a new ProfileRepo backed by the given DB.
func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Upsert creates the profile or merges into an existing row matched by email.
// Contact fields are overwritten; accumulated loyalty points and the original
// created_at are preserved so a guest loyalty balance survives registration.
func (r *ProfileRepo) Upsert(ctx context.Context, p model.Profile) error {
	const query = `
		INSERT INTO profiles (email, user_id, first_name, last_name, phone, marketing_opt_in, loyalty_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			user_id = excluded.user_id,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			phone = excluded.phone,
			marketing_opt_in = excluded.marketing_opt_in,
			updated_at = excluded.updated_at
	`

	return withRetry(ctx, func() error {
		_, err := r.db.Writer.ExecContext(ctx, query,
			p.Email, nullIfEmpty(p.UserID), p.FirstName, p.LastName, p.Phone,
			boolToInt(p.MarketingOptIn), p.LoyaltyPoints,
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("upsert profile %q: %w", p.Email, err)
		}
		return nil
	})
}

// GetByUserID retrieves the profile linked to a user. Returns (nil, nil) on miss.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	const query = `
		SELECT email, user_id, first_name, last_name, phone, marketing_opt_in, loyalty_points, created_at, updated_at
		FROM profiles
		WHERE user_id = ?
	`
	return r.getProfile(ctx, query, userID)
}

// GetByEmail retrieves a profile by email. Returns (nil, nil) on miss.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	const query = `
		SELECT email, user_id, first_name, last_name, phone, marketing_opt_in, loyalty_points, created_at, updated_at
		FROM profiles
		WHERE email = ?
	`
	return r.getProfile(ctx, query, email)
}

func (r *ProfileRepo) getProfile(ctx context.Context, query string, arg any) (*model.Profile, error) {
	var (
		p         model.Profile
		userID    sql.NullString
		optIn     int
		createdAt string
		updatedAt string
	)

	err := withRetry(ctx, func() error {
		return r.db.Reader.QueryRowContext(ctx, query, arg).Scan(
			&p.Email, &userID, &p.FirstName, &p.LastName, &p.Phone,
			&optIn, &p.LoyaltyPoints, &createdAt, &updatedAt,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p.UserID = userID.String
	p.MarketingOptIn = optIn != 0

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &p, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
