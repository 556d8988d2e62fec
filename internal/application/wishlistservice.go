package application

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// WishlistService manages per-user saved products.
type WishlistService struct {
	wishlist driven.WishlistStore
	products driven.ProductStore
}

// NewWishlistService creates a WishlistService with the required dependencies.
func NewWishlistService(wishlist driven.WishlistStore, products driven.ProductStore) *WishlistService {
	return &WishlistService{wishlist: wishlist, products: products}
}

// Add saves a product to the user's wishlist. Returns ErrNotFound for an
// unknown product and ErrAlreadyExists for a duplicate add.
func (s *WishlistService) Add(ctx context.Context, userID string, productID int64) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("look up product: %w", err)
	}
	if product == nil {
		return ErrNotFound
	}

	item := model.WishlistItem{
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now().UTC(),
	}
	if err := s.wishlist.Add(ctx, item); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return nil
}

// Remove deletes a product from the user's wishlist. Returns ErrNotFound
// when the product was not on the list.
func (s *WishlistService) Remove(ctx context.Context, userID string, productID int64) error {
	removed, err := s.wishlist.Remove(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// List returns the user's wishlist, most recently added first.
func (s *WishlistService) List(ctx context.Context, userID string) ([]model.WishlistEntry, error) {
	entries, err := s.wishlist.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return entries, nil
}
