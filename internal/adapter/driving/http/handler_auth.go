package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/ericfisherdev/shopfront/internal/application"
)

const (
	authCookieName    = "auth-token"
	minPasswordLength = 6
)

// LoginRequest is the POST /login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the POST /register body.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Phone           string `json:"phone"`
	MarketingOptIn  bool   `json:"marketingOptIn"`
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	details := map[string]string{}
	if !isValidEmail(req.Email) {
		details["email"] = "A valid email address is required"
	}
	if len(req.Password) < minPasswordLength {
		details["password"] = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}
	if len(details) > 0 {
		writeValidationError(w, details)
		return
	}

	result, err := h.authSvc.Login(r.Context(), application.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		ClientKey: clientKey(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	h.setAuthCookie(w, result.Token)
	writeJSON(w, http.StatusOK, LoginResponse{Success: true, User: toUserResponse(result.User)})
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	details := map[string]string{}
	if !isValidEmail(req.Email) {
		details["email"] = "A valid email address is required"
	}
	if len(req.Password) < minPasswordLength {
		details["password"] = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}
	if req.ConfirmPassword != req.Password {
		details["confirmPassword"] = "Passwords do not match"
	}
	if req.FirstName == "" {
		details["firstName"] = "First name is required"
	}
	if req.LastName == "" {
		details["lastName"] = "Last name is required"
	}
	if len(details) > 0 {
		writeValidationError(w, details)
		return
	}

	result, err := h.authSvc.Register(r.Context(), application.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		MarketingOptIn: req.MarketingOptIn,
		ClientKey:      clientKey(r),
		UserAgent:      r.UserAgent(),
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			writeJSON(w, http.StatusConflict, conflictResponse{
				Error:      "An account with this email already exists",
				RedirectTo: "/forgot-password",
			})
			return
		}
		h.logger.Error("registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setAuthCookie(w, result.Token)
	writeJSON(w, http.StatusOK, LoginResponse{Success: true, User: toUserResponse(result.User)})
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	view, err := h.authSvc.Me(r.Context(), claims.UserID())
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		h.logger.Error("failed to load account", "user", claims.UserID(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toMeResponse(view))
}

// Logout handles POST /logout. Logout only clears the client-side cookie;
// an already-issued token stays valid until it expires.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secureCookie,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeLoginError(w http.ResponseWriter, err error) {
	var rle *application.RateLimitError
	switch {
	case errors.As(err, &rle):
		retrySecs := int64(rle.RetryAfter.Seconds()) + 1
		w.Header().Set("Retry-After", strconv.FormatInt(retrySecs, 10))
		writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("Too many failed login attempts. Please try again in %s.", rle.RetryAfter.Round(time.Minute)))
	case errors.Is(err, application.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, application.ErrAccountInactive):
		writeError(w, http.StatusForbidden, "This account has been deactivated")
	default:
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secureCookie,
	})
}

// isValidEmail checks that the address parses and has no display name.
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
