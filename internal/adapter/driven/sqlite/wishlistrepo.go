package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WishlistStore = (*WishlistRepo)(nil)

// WishlistRepo is the SQLite implementation of the WishlistStore port interface.
type WishlistRepo struct {
	db *DB
}

// NewWishlistRepo creates a new WishlistRepo backed by the given DB.
func NewWishlistRepo(db *DB) *WishlistRepo {
	return &WishlistRepo{db: db}
}

// Add saves a product to a user's wishlist. A duplicate add surfaces as a
// UNIQUE constraint error; use IsUniqueViolation to detect it.
func (r *WishlistRepo) Add(ctx context.Context, item model.WishlistItem) error {
	const query = `
		INSERT INTO wishlist_items (user_id, product_id, added_at)
		VALUES (?, ?, ?)
	`

	return withRetry(ctx, func() error {
		_, err := r.db.Writer.ExecContext(ctx, query,
			item.UserID, item.ProductID, formatTime(item.AddedAt),
		)
		if err != nil {
			return fmt.Errorf("add wishlist item: %w", err)
		}
		return nil
	})
}

// Remove deletes the wishlist row and reports whether one existed.
func (r *WishlistRepo) Remove(ctx context.Context, userID string, productID int64) (bool, error) {
	const query = `DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?`

	var affected int64
	err := withRetry(ctx, func() error {
		res, err := r.db.Writer.ExecContext(ctx, query, userID, productID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("remove wishlist item: %w", err)
	}
	return affected > 0, nil
}

// List returns the user's wishlist joined with product data, most recently
// added first.
func (r *WishlistRepo) List(ctx context.Context, userID string) ([]model.WishlistEntry, error) {
	query := `
		SELECT ` + prefixColumns("p", productColumns) + `, w.added_at
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = ?
		ORDER BY w.added_at DESC
	`

	var entries []model.WishlistEntry
	err := withRetry(ctx, func() error {
		rows, err := r.db.Reader.QueryContext(ctx, query, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			var (
				entry   model.WishlistEntry
				addedAt string
			)
			entry.Product, addedAt, err = scanProductWithExtra(rows)
			if err != nil {
				return err
			}
			if entry.AddedAt, err = parseTime(addedAt); err != nil {
				return fmt.Errorf("parse added_at: %w", err)
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list wishlist for %s: %w", userID, err)
	}

	return entries, nil
}
