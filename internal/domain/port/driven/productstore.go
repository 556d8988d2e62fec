package driven

import (
	"context"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
)

// ProductStore defines the driven port for catalog persistence.
type ProductStore interface {
	// List returns the page of products matching the filter plus the total
	// match count before pagination.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)

	// GetBySlug retrieves a product by its URL slug. Returns (nil, nil) on miss.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	// GetByID retrieves a product by ID. Returns (nil, nil) on miss.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Facets computes sidebar aggregations for the filter. Each dimension is
	// aggregated with its own filter removed.
	Facets(ctx context.Context, filter model.ProductFilter) (*model.Facets, error)

	// Upsert inserts or replaces a product keyed by slug. Used by seeding and
	// admin tooling.
	Upsert(ctx context.Context, product model.Product) error
}

// WishlistStore defines the driven port for wishlist persistence.
type WishlistStore interface {
	// Add saves a product to a user's wishlist. Adding a product already on
	// the list returns an error satisfying IsUniqueViolation.
	Add(ctx context.Context, item model.WishlistItem) error

	// Remove deletes the wishlist row. Removing an absent row is a no-op;
	// the bool reports whether a row was deleted.
	Remove(ctx context.Context, userID string, productID int64) (bool, error)

	// List returns the user's wishlist joined with product data, most
	// recently added first.
	List(ctx context.Context, userID string) ([]model.WishlistEntry, error)
}

// RecentStore defines the driven port for recently-viewed tracking.
type RecentStore interface {
	// Record upserts a view, refreshing ViewedAt for repeat views, and prunes
	// the user's history beyond model.RecentHistoryLimit.
	Record(ctx context.Context, view model.RecentlyViewed) error

	// List returns the user's recently viewed products, most recent first.
	List(ctx context.Context, userID string) ([]model.Product, error)
}

// ChatWidgetStore defines the driven port for the chat widget singleton.
type ChatWidgetStore interface {
	// Get retrieves the stored settings. Returns (nil, nil) when nothing has
	// been saved yet; callers apply model.DefaultChatWidgetSettings.
	Get(ctx context.Context) (*model.ChatWidgetSettings, error)

	// Set replaces the stored settings.
	Set(ctx context.Context, settings model.ChatWidgetSettings) error
}

// AuditStore defines the driven port for the login audit trail.
type AuditStore interface {
	// Record appends one audit row.
	Record(ctx context.Context, entry model.LoginAudit) error

	// ListByEmail returns the most recent attempts for an email, newest
	// first, capped at limit.
	ListByEmail(ctx context.Context, email string, limit int) ([]model.LoginAudit, error)
}
