package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/shopfront/internal/application"
)

// AddWishlistRequest is the POST /wishlist body.
type AddWishlistRequest struct {
	ProductID int64 `json:"productId"`
}

// ListWishlist handles GET /wishlist.
func (h *Handler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	entries, err := h.wishlistSvc.List(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error("failed to list wishlist", "user", claims.UserID(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]WishlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, WishlistEntryResponse{
			Product: toProductResponse(e.Product),
			AddedAt: e.AddedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddToWishlist handles POST /wishlist.
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req AddWishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "a positive productId is required")
		return
	}

	err := h.wishlistSvc.Add(r.Context(), claims.UserID(), req.ProductID)
	switch {
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, application.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "product is already on the wishlist")
	case err != nil:
		h.logger.Error("failed to add wishlist item", "user", claims.UserID(), "product", req.ProductID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		w.WriteHeader(http.StatusCreated)
	}
}

// RemoveFromWishlist handles DELETE /wishlist/{productID}.
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	productID, err := strconv.ParseInt(r.PathValue("productID"), 10, 64)
	if err != nil || productID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	err = h.wishlistSvc.Remove(r.Context(), claims.UserID(), productID)
	switch {
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "product is not on the wishlist")
	case err != nil:
		h.logger.Error("failed to remove wishlist item", "user", claims.UserID(), "product", productID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListRecentlyViewed handles GET /recently-viewed.
func (h *Handler) ListRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	products, err := h.recentSvc.List(r.Context(), claims.UserID())
	if err != nil {
		h.logger.Error("failed to list recently viewed", "user", claims.UserID(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toProductResponses(products))
}
