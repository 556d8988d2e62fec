package httphandler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ericfisherdev/shopfront/internal/application"
	"github.com/ericfisherdev/shopfront/internal/domain/model"
)

// ListProducts handles GET /products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalogSvc.Browse(r.Context(), filterFromQuery(r))
	if err != nil {
		h.logger.Error("failed to browse catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, CatalogPageResponse{
		Products:   toProductResponses(page.Products),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// GetProduct handles GET /products/{slug}. An authenticated view is recorded
// for the recently-viewed shelf.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	product, err := h.catalogSvc.Get(r.Context(), slug)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to get product", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	r = h.withClaims(r)
	if claims := claimsFromContext(r.Context()); claims != nil {
		h.recentSvc.RecordView(r.Context(), claims.UserID(), product.ID)
	}

	writeJSON(w, http.StatusOK, toProductResponse(*product))
}

// GetFilters handles GET /products/filters: the facet aggregation for the
// filter sidebar, scoped to the currently active filters.
func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	facets, err := h.catalogSvc.Facets(r.Context(), filterFromQuery(r))
	if err != nil {
		h.logger.Error("failed to compute facets", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toFacetsResponse(facets))
}

// filterFromQuery parses catalog filter query parameters. Unparseable
// numbers are treated as absent; range and sort validation happens in the
// service.
func filterFromQuery(r *http.Request) model.ProductFilter {
	q := r.URL.Query()

	return model.ProductFilter{
		Category:      q.Get("category"),
		Brand:         q.Get("brand"),
		Query:         q.Get("q"),
		MinPriceCents: parseInt64(q.Get("minPrice")),
		MaxPriceCents: parseInt64(q.Get("maxPrice")),
		InStockOnly:   q.Get("inStock") == "true",
		Sort:          model.ProductSort(q.Get("sort")),
		Page:          int(parseInt64(q.Get("page"))),
		PageSize:      int(parseInt64(q.Get("pageSize"))),
	}
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
