package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// RecentService tracks which products a user has viewed.
type RecentService struct {
	recent driven.RecentStore
	logger *slog.Logger
}

// NewRecentService creates a RecentService with the required dependencies.
func NewRecentService(recent driven.RecentStore, logger *slog.Logger) *RecentService {
	return &RecentService{recent: recent, logger: logger}
}

// RecordView notes that the user viewed the product. Tracking is best-effort
// decoration of the product page: a failed write is logged, not surfaced.
func (s *RecentService) RecordView(ctx context.Context, userID string, productID int64) {
	view := model.RecentlyViewed{
		UserID:    userID,
		ProductID: productID,
		ViewedAt:  time.Now().UTC(),
	}
	if err := s.recent.Record(ctx, view); err != nil {
		s.logger.Warn("failed to record product view", "user", userID, "product", productID, "error", err)
	}
}

// List returns the user's recently viewed products, most recent first.
func (s *RecentService) List(ctx context.Context, userID string) ([]model.Product, error) {
	products, err := s.recent.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recently viewed: %w", err)
	}
	return products, nil
}
