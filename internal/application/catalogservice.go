package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// Catalog pagination bounds.
const (
	DefaultPageSize = 24
	MaxPageSize     = 100
)

// CatalogPage is one page of catalog results with pagination metadata.
type CatalogPage struct {
	Products   []model.Product
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// CatalogService serves product browsing, filtering, and facet aggregation.
type CatalogService struct {
	products driven.ProductStore
}

// NewCatalogService creates a CatalogService with the required dependencies.
func NewCatalogService(products driven.ProductStore) *CatalogService {
	return &CatalogService{products: products}
}

// Browse returns the page of products matching the filter. Out-of-range
// pagination values are clamped rather than rejected; an unknown sort key
// falls back to newest.
func (s *CatalogService) Browse(ctx context.Context, filter model.ProductFilter) (*CatalogPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}
	if !filter.Sort.Valid() {
		filter.Sort = model.SortNewest
	}
	if filter.MinPriceCents < 0 {
		filter.MinPriceCents = 0
	}
	if filter.MaxPriceCents < 0 {
		filter.MaxPriceCents = 0
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("browse catalog: %w", err)
	}

	totalPages := (total + filter.PageSize - 1) / filter.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return &CatalogPage{
		Products:   products,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Get retrieves one product by slug. Returns ErrNotFound on miss.
func (s *CatalogService) Get(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// Facets computes the filter sidebar aggregations for the active filter.
func (s *CatalogService) Facets(ctx context.Context, filter model.ProductFilter) (*model.Facets, error) {
	facets, err := s.products.Facets(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("compute facets: %w", err)
	}
	return facets, nil
}
