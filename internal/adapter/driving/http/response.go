package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/shopfront/internal/application"
	"github.com/ericfisherdev/shopfront/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeValidationError writes a 400 with per-field messages.
func writeValidationError(w http.ResponseWriter, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "validation failed",
		Details: details,
	})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// validationErrorResponse carries field-level validation messages.
type validationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

// conflictResponse is returned when registering an email that already has a
// login; the redirect hint points the user at password recovery.
type conflictResponse struct {
	Error      string `json:"error"`
	RedirectTo string `json:"redirectTo"`
}

// UserResponse is the safe subset of user fields returned to clients.
// The password hash is excluded by construction.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}

// LoginResponse is the body of a successful login or registration.
type LoginResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// MeResponse is the enriched identity served by GET /me.
type MeResponse struct {
	User MeUser `json:"user"`
}

// MeUser extends the safe user fields with profile and loyalty data.
type MeUser struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone,omitempty"`
	LoyaltyPoints  int    `json:"loyaltyPoints"`
	Tier           string `json:"tier"`
	MarketingOptIn bool   `json:"marketingOptIn"`
}

func toMeResponse(view *application.AccountView) MeResponse {
	return MeResponse{User: MeUser{
		ID:             view.User.ID,
		Email:          view.User.Email,
		Role:           string(view.User.Role),
		FirstName:      view.Profile.FirstName,
		LastName:       view.Profile.LastName,
		Phone:          view.Profile.Phone,
		LoyaltyPoints:  view.Profile.LoyaltyPoints,
		Tier:           view.Tier,
		MarketingOptIn: view.Profile.MarketingOptIn,
	}}
}

// ProductResponse is the JSON representation of a catalog product.
type ProductResponse struct {
	ID             int64   `json:"id"`
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Brand          string  `json:"brand"`
	Category       string  `json:"category"`
	PriceCents     int64   `json:"priceCents"`
	SalePriceCents *int64  `json:"salePriceCents,omitempty"`
	ImageURL       string  `json:"imageUrl"`
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"reviewCount"`
	InStock        bool    `json:"inStock"`
	CreatedAt      string  `json:"createdAt"`
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		Description:    p.Description,
		Brand:          p.Brand,
		Category:       p.Category,
		PriceCents:     p.PriceCents,
		SalePriceCents: p.SalePriceCents,
		ImageURL:       p.ImageURL,
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		InStock:        p.InStock,
		CreatedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toProductResponses(products []model.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	return resp
}

// CatalogPageResponse is one page of catalog results.
type CatalogPageResponse struct {
	Products   []ProductResponse `json:"products"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// FacetCountResponse pairs a facet value with its matching product count.
type FacetCountResponse struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetsResponse is the filter sidebar aggregation.
type FacetsResponse struct {
	Categories    []FacetCountResponse `json:"categories"`
	Brands        []FacetCountResponse `json:"brands"`
	MinPriceCents int64                `json:"minPriceCents"`
	MaxPriceCents int64                `json:"maxPriceCents"`
}

func toFacetsResponse(f *model.Facets) FacetsResponse {
	resp := FacetsResponse{
		Categories:    make([]FacetCountResponse, 0, len(f.Categories)),
		Brands:        make([]FacetCountResponse, 0, len(f.Brands)),
		MinPriceCents: f.MinPriceCents,
		MaxPriceCents: f.MaxPriceCents,
	}
	for _, c := range f.Categories {
		resp.Categories = append(resp.Categories, FacetCountResponse{Value: c.Value, Count: c.Count})
	}
	for _, b := range f.Brands {
		resp.Brands = append(resp.Brands, FacetCountResponse{Value: b.Value, Count: b.Count})
	}
	return resp
}

// WishlistEntryResponse is one saved product with its added timestamp.
type WishlistEntryResponse struct {
	Product ProductResponse `json:"product"`
	AddedAt string          `json:"addedAt"`
}

// WidgetResponse is the chat widget configuration served to the storefront.
type WidgetResponse struct {
	Enabled        bool   `json:"enabled"`
	Position       string `json:"position"`
	AccentColor    string `json:"accentColor"`
	Greeting       string `json:"greeting"`
	GreetingHTML   string `json:"greetingHtml"`
	OfflineMessage string `json:"offlineMessage"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

func toWidgetResponse(view *application.WidgetView) WidgetResponse {
	resp := WidgetResponse{
		Enabled:        view.Settings.Enabled,
		Position:       view.Settings.Position,
		AccentColor:    view.Settings.AccentColor,
		Greeting:       view.Settings.Greeting,
		GreetingHTML:   view.GreetingHTML,
		OfflineMessage: view.Settings.OfflineMessage,
	}
	if !view.Settings.UpdatedAt.IsZero() {
		resp.UpdatedAt = view.Settings.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
