package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
)

// UserStore defines the driven port for credential record persistence.
type UserStore interface {
	// Create inserts a new user. Emails are unique; inserting a duplicate
	// returns an error satisfying IsUniqueViolation in the sqlite adapter.
	Create(ctx context.Context, user model.User) error

	// GetByEmail retrieves a user by lowercased email.
	// Returns (nil, nil) if no user exists with that email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by ID. Returns (nil, nil) on miss.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// UpdateLastLogin stamps the most recent successful login time.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// ProfileStore defines the driven port for loyalty profile persistence.
type ProfileStore interface {
	// Upsert creates the profile or merges into an existing row matched by
	// email, attaching the user ID and overwriting contact fields while
	// preserving accumulated loyalty points.
	Upsert(ctx context.Context, profile model.Profile) error

	// GetByUserID retrieves the profile linked to a user.
	// Returns (nil, nil) on miss.
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)

	// GetByEmail retrieves a profile by email regardless of whether it has
	// been linked to a login yet. Returns (nil, nil) on miss.
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
}
