package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
)

func TestRecentRepo_RecordAndList(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	seedUser(t, db, "u-1", "dana@example.com")
	repo := NewRecentRepo(db)
	ctx := context.Background()

	productRepo := NewProductRepo(db)
	kettle, err := productRepo.GetBySlug(ctx, "kettle")
	require.NoError(t, err)
	lamp, err := productRepo.GetBySlug(ctx, "lamp")
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, model.RecentlyViewed{UserID: "u-1", ProductID: kettle.ID, ViewedAt: base}))
	require.NoError(t, repo.Record(ctx, model.RecentlyViewed{UserID: "u-1", ProductID: lamp.ID, ViewedAt: base.Add(time.Minute)}))

	products, err := repo.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "lamp", products[0].Slug)
	assert.Equal(t, "kettle", products[1].Slug)
}

func TestRecentRepo_RepeatViewRefreshes(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	seedUser(t, db, "u-1", "dana@example.com")
	repo := NewRecentRepo(db)
	ctx := context.Background()

	productRepo := NewProductRepo(db)
	kettle, err := productRepo.GetBySlug(ctx, "kettle")
	require.NoError(t, err)
	lamp, err := productRepo.GetBySlug(ctx, "lamp")
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, model.RecentlyViewed{UserID: "u-1", ProductID: kettle.ID, ViewedAt: base}))
	require.NoError(t, repo.Record(ctx, model.RecentlyViewed{UserID: "u-1", ProductID: lamp.ID, ViewedAt: base.Add(time.Minute)}))

	// Viewing the kettle again moves it to the front without adding a row.
	require.NoError(t, repo.Record(ctx, model.RecentlyViewed{UserID: "u-1", ProductID: kettle.ID, ViewedAt: base.Add(2 * time.Minute)}))

	products, err := repo.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "kettle", products[0].Slug)
}

func TestRecentRepo_PrunesBeyondLimit(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u-1", "dana@example.com")
	repo := NewRecentRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	total := model.RecentHistoryLimit + 5
	for i := 0; i < total; i++ {
		id := seedProduct(t, db, model.Product{
			Slug:       fmt.Sprintf("product-%02d", i),
			Name:       fmt.Sprintf("Product %02d", i),
			PriceCents: 1000,
			InStock:    true,
		})
		require.NoError(t, repo.Record(ctx, model.RecentlyViewed{
			UserID:    "u-1",
			ProductID: id,
			ViewedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	products, err := repo.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, products, model.RecentHistoryLimit)

	// The newest view survives, the oldest five are gone.
	assert.Equal(t, fmt.Sprintf("product-%02d", total-1), products[0].Slug)
	last := products[len(products)-1]
	assert.Equal(t, fmt.Sprintf("product-%02d", total-model.RecentHistoryLimit), last.Slug)
}

func TestRecentRepo_ListIsolatedPerUser(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	seedUser(t, db, "u-1", "dana@example.com")
	seedUser(t, db, "u-2", "kim@example.com")
	repo := NewRecentRepo(db)
	ctx := context.Background()

	kettle, err := NewProductRepo(db).GetBySlug(ctx, "kettle")
	require.NoError(t, err)

	require.NoError(t, repo.Record(ctx, model.RecentlyViewed{UserID: "u-1", ProductID: kettle.ID, ViewedAt: time.Now().UTC()}))

	products, err := repo.List(ctx, "u-2")
	require.NoError(t, err)
	assert.Empty(t, products)
}
