package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port interface.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new credential record. A duplicate email surfaces as a
// UNIQUE constraint error; use IsUniqueViolation to detect it.
func (r *UserRepo) Create(ctx context.Context, user model.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	return withRetry(ctx, func() error {
		_, err := r.db.Writer.ExecContext(ctx, query,
			user.ID, user.Email, user.PasswordHash, string(user.Role),
			boolToInt(user.IsActive), formatTime(user.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

// GetByEmail retrieves a user by email. Returns (nil, nil) on miss.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `
		SELECT id, email, password_hash, role, is_active, last_login_at, created_at
		FROM users
		WHERE email = ?
	`
	return r.getUser(ctx, query, email)
}

// GetByID retrieves a user by ID. Returns (nil, nil) on miss.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const query = `
		SELECT id, email, password_hash, role, is_active, last_login_at, created_at
		FROM users
		WHERE id = ?
	`
	return r.getUser(ctx, query, id)
}

func (r *UserRepo) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var (
		u           model.User
		role        string
		isActive    int
		lastLoginAt sql.NullString
		createdAt   string
	)

	err := withRetry(ctx, func() error {
		return r.db.Reader.QueryRowContext(ctx, query, arg).Scan(
			&u.ID, &u.Email, &u.PasswordHash, &role, &isActive, &lastLoginAt, &createdAt,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.Role = model.Role(role)
	u.IsActive = isActive != 0

	if lastLoginAt.Valid {
		t, err := parseTime(lastLoginAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_login_at: %w", err)
		}
		u.LastLoginAt = &t
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &u, nil
}

// UpdateLastLogin stamps the most recent successful login time.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE users SET last_login_at = ? WHERE id = ?`

	return withRetry(ctx, func() error {
		_, err := r.db.Writer.ExecContext(ctx, query, formatTime(at), id)
		if err != nil {
			return fmt.Errorf("update last login: %w", err)
		}
		return nil
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
