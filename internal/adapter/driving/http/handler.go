// Package httphandler is the HTTP driving adapter serving the storefront API.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/shopfront/internal/application"
	"github.com/ericfisherdev/shopfront/internal/auth"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	authSvc      *application.AuthService
	catalogSvc   *application.CatalogService
	wishlistSvc  *application.WishlistService
	recentSvc    *application.RecentService
	widgetSvc    *application.WidgetService
	tokens       *auth.TokenManager
	secureCookie bool
	logger       *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. secureCookie
// controls the auth cookie's Secure flag and is disabled only in local
// development.
func NewHandler(
	authSvc *application.AuthService,
	catalogSvc *application.CatalogService,
	wishlistSvc *application.WishlistService,
	recentSvc *application.RecentService,
	widgetSvc *application.WidgetService,
	tokens *auth.TokenManager,
	secureCookie bool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:      authSvc,
		catalogSvc:   catalogSvc,
		wishlistSvc:  wishlistSvc,
		recentSvc:    recentSvc,
		widgetSvc:    widgetSvc,
		tokens:       tokens,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /me", h.requireAuth(h.Me))

	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("GET /products/filters", h.GetFilters)
	mux.HandleFunc("GET /products/{slug}", h.GetProduct)

	mux.HandleFunc("GET /wishlist", h.requireAuth(h.ListWishlist))
	mux.HandleFunc("POST /wishlist", h.requireAuth(h.AddToWishlist))
	mux.HandleFunc("DELETE /wishlist/{productID}", h.requireAuth(h.RemoveFromWishlist))

	mux.HandleFunc("GET /recently-viewed", h.requireAuth(h.ListRecentlyViewed))

	mux.HandleFunc("GET /chat-widget", h.GetWidget)
	mux.HandleFunc("PUT /chat-widget", h.requireAdmin(h.UpdateWidget))

	mux.HandleFunc("GET /healthz", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
