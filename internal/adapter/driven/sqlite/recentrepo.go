package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RecentStore = (*RecentRepo)(nil)

// RecentRepo is the SQLite implementation of the RecentStore port interface.
type RecentRepo struct {
	db *DB
}

// NewRecentRepo creates a new RecentRepo backed by the given DB.
func NewRecentRepo(db *DB) *RecentRepo {
	return &RecentRepo{db: db}
}

// Record upserts a view, refreshing viewed_at for repeat views, then prunes
// rows beyond model.RecentHistoryLimit. Both statements run in one
// transaction so the cap holds under concurrent views.
func (r *RecentRepo) Record(ctx context.Context, view model.RecentlyViewed) error {
	const upsert = `
		INSERT INTO recently_viewed (user_id, product_id, viewed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE SET viewed_at = excluded.viewed_at
	`
	const prune = `
		DELETE FROM recently_viewed
		WHERE user_id = ? AND product_id NOT IN (
			SELECT product_id FROM recently_viewed
			WHERE user_id = ?
			ORDER BY viewed_at DESC
			LIMIT ?
		)
	`

	return withRetry(ctx, func() error {
		err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, upsert, view.UserID, view.ProductID, formatTime(view.ViewedAt)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, prune, view.UserID, view.UserID, model.RecentHistoryLimit)
			return err
		})
		if err != nil {
			return fmt.Errorf("record view: %w", err)
		}
		return nil
	})
}

// List returns the user's recently viewed products, most recent first.
func (r *RecentRepo) List(ctx context.Context, userID string) ([]model.Product, error) {
	query := `
		SELECT ` + prefixColumns("p", productColumns) + `
		FROM recently_viewed rv
		JOIN products p ON p.id = rv.product_id
		WHERE rv.user_id = ?
		ORDER BY rv.viewed_at DESC
	`

	var products []model.Product
	err := withRetry(ctx, func() error {
		rows, err := r.db.Reader.QueryContext(ctx, query, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		products = products[:0]
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			products = append(products, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list recently viewed for %s: %w", userID, err)
	}

	return products, nil
}
