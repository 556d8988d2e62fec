package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
)

func TestProfileRepo_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := repo.Upsert(ctx, model.Profile{
		UserID:         "u-1",
		Email:          "dana@example.com",
		FirstName:      "Dana",
		LastName:       "Reyes",
		Phone:          "555-0101",
		MarketingOptIn: true,
		LoyaltyPoints:  120,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.NoError(t, err)

	got, err := repo.GetByUserID(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dana", got.FirstName)
	assert.Equal(t, "Reyes", got.LastName)
	assert.True(t, got.MarketingOptIn)
	assert.Equal(t, 120, got.LoyaltyPoints)

	byEmail, err := repo.GetByEmail(ctx, "dana@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "u-1", byEmail.UserID)
}

func TestProfileRepo_GetMiss(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	got, err := repo.GetByUserID(ctx, "u-none")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByEmail(ctx, "none@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// A guest loyalty profile (no user yet) must keep its points and original
// created_at when registration upserts over it.
func TestProfileRepo_UpsertPreservesLoyaltyPoints(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	guestCreated := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, model.Profile{
		Email:         "dana@example.com",
		FirstName:     "D",
		LoyaltyPoints: 750,
		CreatedAt:     guestCreated,
		UpdatedAt:     guestCreated,
	}))

	registered := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, model.Profile{
		UserID:    "u-1",
		Email:     "dana@example.com",
		FirstName: "Dana",
		LastName:  "Reyes",
		CreatedAt: registered,
		UpdatedAt: registered,
	}))

	got, err := repo.GetByEmail(ctx, "dana@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "Dana", got.FirstName)
	assert.Equal(t, 750, got.LoyaltyPoints, "accumulated points survive registration")
	assert.True(t, got.CreatedAt.Equal(guestCreated), "original created_at survives registration")
	assert.True(t, got.UpdatedAt.Equal(registered))
}
