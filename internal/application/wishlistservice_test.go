package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
)

// --- Mock implementations for WishlistService tests ---

type mockWishlistStore struct {
	added   []model.WishlistItem
	addErr  error
	removed bool
	entries []model.WishlistEntry
}

func (m *mockWishlistStore) Add(_ context.Context, item model.WishlistItem) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, item)
	return nil
}

func (m *mockWishlistStore) Remove(_ context.Context, _ string, _ int64) (bool, error) {
	return m.removed, nil
}

func (m *mockWishlistStore) List(_ context.Context, _ string) ([]model.WishlistEntry, error) {
	return m.entries, nil
}

func TestWishlistService_Add(t *testing.T) {
	wishlist := &mockWishlistStore{}
	products := &mockProductStore{
		byID: map[int64]*model.Product{7: {ID: 7, Slug: "kettle"}},
	}
	svc := NewWishlistService(wishlist, products)

	err := svc.Add(context.Background(), "u-1", 7)
	require.NoError(t, err)
	require.Len(t, wishlist.added, 1)
	assert.Equal(t, "u-1", wishlist.added[0].UserID)
	assert.Equal(t, int64(7), wishlist.added[0].ProductID)
	assert.False(t, wishlist.added[0].AddedAt.IsZero())
}

func TestWishlistService_AddUnknownProduct(t *testing.T) {
	svc := NewWishlistService(&mockWishlistStore{}, &mockProductStore{byID: map[int64]*model.Product{}})

	err := svc.Add(context.Background(), "u-1", 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWishlistService_AddDuplicate(t *testing.T) {
	wishlist := &mockWishlistStore{addErr: errors.New("UNIQUE constraint failed: wishlist_items")}
	products := &mockProductStore{
		byID: map[int64]*model.Product{7: {ID: 7}},
	}
	svc := NewWishlistService(wishlist, products)

	err := svc.Add(context.Background(), "u-1", 7)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestWishlistService_Remove(t *testing.T) {
	wishlist := &mockWishlistStore{removed: true}
	svc := NewWishlistService(wishlist, &mockProductStore{})

	assert.NoError(t, svc.Remove(context.Background(), "u-1", 7))

	wishlist.removed = false
	assert.ErrorIs(t, svc.Remove(context.Background(), "u-1", 7), ErrNotFound)
}

func TestWishlistService_List(t *testing.T) {
	wishlist := &mockWishlistStore{
		entries: []model.WishlistEntry{{Product: model.Product{Slug: "kettle"}}},
	}
	svc := NewWishlistService(wishlist, &mockProductStore{})

	entries, err := svc.List(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kettle", entries[0].Product.Slug)
}
