package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ProductStore = (*ProductRepo)(nil)

// ProductRepo is the SQLite implementation of the ProductStore port interface.
type ProductRepo struct {
	db *DB
}

// NewProductRepo creates a new ProductRepo backed by the given DB.
func NewProductRepo(db *DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `id, slug, name, description, brand, category, price_cents, sale_price_cents, image_url, rating, review_count, in_stock, created_at`

// effectivePrice is the price a filter compares against: the sale price when
// one is set, the list price otherwise.
const effectivePrice = `COALESCE(sale_price_cents, price_cents)`

// filterDimension names a facet dimension so buildWhere can exclude that
// dimension's own predicate when computing its counts.
type filterDimension int

const (
	dimNone filterDimension = iota
	dimCategory
	dimBrand
	dimPrice
)

// buildWhere translates a filter into a WHERE clause and its arguments,
// skipping the predicate belonging to the excluded dimension.
func buildWhere(f model.ProductFilter, exclude filterDimension) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.Category != "" && exclude != dimCategory {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Brand != "" && exclude != dimBrand {
		conds = append(conds, "brand = ?")
		args = append(args, f.Brand)
	}
	if f.Query != "" {
		conds = append(conds, "(name LIKE ? ESCAPE '\\' OR description LIKE ? ESCAPE '\\')")
		pattern := "%" + escapeLike(f.Query) + "%"
		args = append(args, pattern, pattern)
	}
	if exclude != dimPrice {
		if f.MinPriceCents > 0 {
			conds = append(conds, effectivePrice+" >= ?")
			args = append(args, f.MinPriceCents)
		}
		if f.MaxPriceCents > 0 {
			conds = append(conds, effectivePrice+" <= ?")
			args = append(args, f.MaxPriceCents)
		}
	}
	if f.InStockOnly {
		conds = append(conds, "in_stock = 1")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause maps a sort key to SQL. Ties break on id for a stable order
// across pages.
func orderClause(sort model.ProductSort) string {
	switch sort {
	case model.SortPriceAsc:
		return " ORDER BY " + effectivePrice + " ASC, id"
	case model.SortPriceDesc:
		return " ORDER BY " + effectivePrice + " DESC, id"
	case model.SortRating:
		return " ORDER BY rating DESC, review_count DESC, id"
	default:
		return " ORDER BY created_at DESC, id DESC"
	}
}

// List returns the page of products matching the filter plus the total match
// count before pagination.
func (r *ProductRepo) List(ctx context.Context, f model.ProductFilter) ([]model.Product, int, error) {
	where, args := buildWhere(f, dimNone)

	var total int
	err := withRetry(ctx, func() error {
		return r.db.Reader.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := "SELECT " + productColumns + " FROM products" + where + orderClause(f.Sort) + " LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), f.PageSize, (f.Page-1)*f.PageSize)

	var products []model.Product
	err = withRetry(ctx, func() error {
		rows, err := r.db.Reader.QueryContext(ctx, query, pageArgs...)
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
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// GetBySlug retrieves a product by its URL slug. Returns (nil, nil) on miss.
func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.getProduct(ctx, "slug = ?", slug)
}

// GetByID retrieves a product by ID. Returns (nil, nil) on miss.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return r.getProduct(ctx, "id = ?", id)
}

func (r *ProductRepo) getProduct(ctx context.Context, cond string, arg any) (*model.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE " + cond

	var p model.Product
	err := withRetry(ctx, func() error {
		var err error
		p, err = scanProduct(r.db.Reader.QueryRowContext(ctx, query, arg))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Facets computes the filter sidebar aggregations. Category and brand counts
// are computed with their own predicate excluded, so a selected category
// still shows the alternatives; the price range excludes the price predicate
// for the same reason.
func (r *ProductRepo) Facets(ctx context.Context, f model.ProductFilter) (*model.Facets, error) {
	facets := &model.Facets{}

	collect := func(column string, dim filterDimension, dest *[]model.FacetCount) error {
		where, args := buildWhere(f, dim)
		query := "SELECT " + column + ", COUNT(*) FROM products" + where +
			" GROUP BY " + column + " HAVING " + column + " != '' ORDER BY COUNT(*) DESC, " + column

		return withRetry(ctx, func() error {
			rows, err := r.db.Reader.QueryContext(ctx, query, args...)
			if err != nil {
				return err
			}
			defer rows.Close()

			*dest = (*dest)[:0]
			for rows.Next() {
				var fc model.FacetCount
				if err := rows.Scan(&fc.Value, &fc.Count); err != nil {
					return err
				}
				*dest = append(*dest, fc)
			}
			return rows.Err()
		})
	}

	if err := collect("category", dimCategory, &facets.Categories); err != nil {
		return nil, fmt.Errorf("category facets: %w", err)
	}
	if err := collect("brand", dimBrand, &facets.Brands); err != nil {
		return nil, fmt.Errorf("brand facets: %w", err)
	}

	where, args := buildWhere(f, dimPrice)
	query := "SELECT COALESCE(MIN(" + effectivePrice + "), 0), COALESCE(MAX(" + effectivePrice + "), 0) FROM products" + where
	err := withRetry(ctx, func() error {
		return r.db.Reader.QueryRowContext(ctx, query, args...).Scan(&facets.MinPriceCents, &facets.MaxPriceCents)
	})
	if err != nil {
		return nil, fmt.Errorf("price facets: %w", err)
	}

	return facets, nil
}

// Upsert inserts or replaces a product keyed by slug.
func (r *ProductRepo) Upsert(ctx context.Context, p model.Product) error {
	const query = `
		INSERT INTO products (slug, name, description, brand, category, price_cents, sale_price_cents, image_url, rating, review_count, in_stock, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			brand = excluded.brand,
			category = excluded.category,
			price_cents = excluded.price_cents,
			sale_price_cents = excluded.sale_price_cents,
			image_url = excluded.image_url,
			rating = excluded.rating,
			review_count = excluded.review_count,
			in_stock = excluded.in_stock
	`

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = nowUTC()
	}

	return withRetry(ctx, func() error {
		_, err := r.db.Writer.ExecContext(ctx, query,
			p.Slug, p.Name, p.Description, p.Brand, p.Category,
			p.PriceCents, p.SalePriceCents, p.ImageURL,
			p.Rating, p.ReviewCount, boolToInt(p.InStock), formatTime(createdAt),
		)
		if err != nil {
			return fmt.Errorf("upsert product %q: %w", p.Slug, err)
		}
		return nil
	})
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (model.Product, error) {
	var (
		p         model.Product
		salePrice sql.NullInt64
		inStock   int
		createdAt string
	)

	err := s.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.Brand, &p.Category,
		&p.PriceCents, &salePrice, &p.ImageURL, &p.Rating, &p.ReviewCount,
		&inStock, &createdAt,
	)
	if err != nil {
		return model.Product{}, err
	}

	if salePrice.Valid {
		v := salePrice.Int64
		p.SalePriceCents = &v
	}
	p.InStock = inStock != 0

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Product{}, fmt.Errorf("parse created_at: %w", err)
	}

	return p, nil
}

// scanProductWithExtra scans the product columns plus one trailing string
// column, for queries that join products with a per-row timestamp.
func scanProductWithExtra(s scanner) (model.Product, string, error) {
	var (
		p         model.Product
		salePrice sql.NullInt64
		inStock   int
		createdAt string
		extra     string
	)

	err := s.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.Brand, &p.Category,
		&p.PriceCents, &salePrice, &p.ImageURL, &p.Rating, &p.ReviewCount,
		&inStock, &createdAt, &extra,
	)
	if err != nil {
		return model.Product{}, "", err
	}

	if salePrice.Valid {
		v := salePrice.Int64
		p.SalePriceCents = &v
	}
	p.InStock = inStock != 0

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Product{}, "", fmt.Errorf("parse created_at: %w", err)
	}

	return p, extra, nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, c := range parts {
		parts[i] = alias + "." + c
	}
	return strings.Join(parts, ", ")
}

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
