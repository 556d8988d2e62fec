package model

import "time"

// WishlistItem links a user to a saved product. At most one row exists per
// (user, product) pair.
type WishlistItem struct {
	UserID    string
	ProductID int64
	AddedAt   time.Time
}

// WishlistEntry is a wishlist item joined with its product for display.
type WishlistEntry struct {
	Product Product
	AddedAt time.Time
}

// RecentlyViewed records a product view for the recently-viewed shelf.
// Re-viewing a product refreshes ViewedAt rather than adding a second row.
type RecentlyViewed struct {
	UserID    string
	ProductID int64
	ViewedAt  time.Time
}

// RecentHistoryLimit caps how many recently-viewed rows are kept per user;
// older rows are pruned on insert.
const RecentHistoryLimit = 20
