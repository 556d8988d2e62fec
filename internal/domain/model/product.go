package model

import "time"

// Product is a catalog entry. Prices are stored in cents to avoid float
// rounding; SalePriceCents, when non-nil, is the effective price.
type Product struct {
	ID             int64
	Slug           string
	Name           string
	Description    string
	Brand          string
	Category       string
	PriceCents     int64
	SalePriceCents *int64
	ImageURL       string
	Rating         float64
	ReviewCount    int
	InStock        bool
	CreatedAt      time.Time
}

// EffectivePriceCents returns the sale price when one is set, otherwise the
// list price.
func (p *Product) EffectivePriceCents() int64 {
	if p.SalePriceCents != nil {
		return *p.SalePriceCents
	}
	return p.PriceCents
}

// ProductSort enumerates the supported catalog orderings.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortRating    ProductSort = "rating"
)

// Valid reports whether the sort key is one of the known values.
func (s ProductSort) Valid() bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortRating:
		return true
	}
	return false
}

// ProductFilter describes an active catalog query. Zero values mean "not
// filtered on this dimension". MinPriceCents/MaxPriceCents apply to the
// effective price.
type ProductFilter struct {
	Category      string
	Brand         string
	Query         string
	MinPriceCents int64
	MaxPriceCents int64
	InStockOnly   bool
	Sort          ProductSort
	Page          int
	PageSize      int
}

// FacetCount pairs a facet value with the number of matching products.
type FacetCount struct {
	Value string
	Count int
}

// Facets aggregates the filter sidebar data for the rows matching a filter.
// Each dimension is computed with its own filter excluded, so selecting a
// category still shows the counts of the alternatives.
type Facets struct {
	Categories    []FacetCount
	Brands        []FacetCount
	MinPriceCents int64
	MaxPriceCents int64
}
