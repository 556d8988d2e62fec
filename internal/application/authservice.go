package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/shopfront/internal/auth"
	"github.com/ericfisherdev/shopfront/internal/domain/model"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// RateLimitError carries how long the client must wait before the next
// attempt is evaluated on its merits. errors.Is(err, ErrRateLimited) holds.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many failed login attempts, retry in %s", e.RetryAfter.Round(time.Second))
}

// Is makes RateLimitError match ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// LoginInput carries a login request into the service. ClientKey is the
// already-resolved network identity used for rate limiting.
type LoginInput struct {
	Email     string
	Password  string
	ClientKey string
	UserAgent string
}

// RegisterInput carries a registration request. Field validation happens at
// the HTTP boundary; the service only normalizes and persists.
type RegisterInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Phone          string
	MarketingOptIn bool
	ClientKey      string
	UserAgent      string
}

// LoginResult is a successful authentication: the user plus a signed session
// token.
type LoginResult struct {
	User  *model.User
	Token string
}

// AccountView is the enriched identity returned by the /me endpoint.
type AccountView struct {
	User    *model.User
	Profile *model.Profile
	Tier    string
}

// AuthService orchestrates credential verification, rate limiting, token
// issuance, and audit logging.
type AuthService struct {
	users    driven.UserStore
	profiles driven.ProfileStore
	tracker  driven.AttemptTracker
	tokens   *auth.TokenManager
	audit    *AuditRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService with the required dependencies.
func NewAuthService(
	users driven.UserStore,
	profiles driven.ProfileStore,
	tracker driven.AttemptTracker,
	tokens *auth.TokenManager,
	audit *AuditRecorder,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		profiles: profiles,
		tracker:  tracker,
		tokens:   tokens,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// Login authenticates a user. The order is fixed: rate limit check before
// any credential store access, then lookup, active check, password compare.
// Unknown-email and wrong-password failures return the same error so the
// responses cannot be told apart.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := normalizeEmail(in.Email)

	locked, retryAfter, err := s.tracker.Check(ctx, in.ClientKey)
	if err != nil {
		// Fail open: a broken tracker backend must not take logins down.
		s.logger.Warn("attempt tracker check failed", "client", in.ClientKey, "error", err)
	} else if locked {
		s.audit.Record(email, in.ClientKey, in.UserAgent, false, model.AuditReasonRateLimited)
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		s.recordFailure(ctx, in.ClientKey)
		s.audit.Record(email, in.ClientKey, in.UserAgent, false, model.AuditReasonUserNotFound)
		return nil, ErrInvalidCredentials
	}

	// Account-state failures are not attack signal: the counter is untouched.
	if !user.IsActive {
		s.audit.Record(email, in.ClientKey, in.UserAgent, false, model.AuditReasonInactive)
		return nil, ErrAccountInactive
	}

	ok, err := auth.CheckPassword(user.PasswordHash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.recordFailure(ctx, in.ClientKey)
		s.audit.Record(email, in.ClientKey, in.UserAgent, false, model.AuditReasonInvalidPassword)
		return nil, ErrInvalidCredentials
	}

	if err := s.tracker.Reset(ctx, in.ClientKey); err != nil {
		s.logger.Warn("attempt tracker reset failed", "client", in.ClientKey, "error", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}

	s.audit.Record(email, in.ClientKey, in.UserAgent, true, model.AuditReasonSuccess)

	return &LoginResult{User: user, Token: token}, nil
}

// Register creates a credential record and its linked loyalty profile,
// merging into a pre-existing profile matched by email. The new user is
// logged in immediately.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	email := normalizeEmail(in.Email)

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	profile := model.Profile{
		UserID:         user.ID,
		Email:          email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          in.Phone,
		MarketingOptIn: in.MarketingOptIn,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// A guest loyalty profile may already exist for this email; its points
	// balance survives the merge.
	existing, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up profile: %w", err)
	}
	if existing != nil {
		profile.LoyaltyPoints = existing.LoyaltyPoints
		profile.CreatedAt = existing.CreatedAt
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	token, err := s.tokens.Issue(&user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.audit.Record(email, in.ClientKey, in.UserAgent, true, model.AuditReasonRegistration)

	return &LoginResult{User: &user, Token: token}, nil
}

// Me loads the account view for an authenticated user ID. Returns
// ErrNotFound when the user behind a still-valid token has vanished.
func (s *AuthService) Me(ctx context.Context, userID string) (*AccountView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up profile: %w", err)
	}
	if profile == nil {
		profile = &model.Profile{UserID: user.ID, Email: user.Email}
	}

	return &AccountView{
		User:    user,
		Profile: profile,
		Tier:    profile.Tier(),
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, clientKey string) {
	if err := s.tracker.RecordFailure(ctx, clientKey); err != nil {
		s.logger.Warn("attempt tracker record failed", "client", clientKey, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
