package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericfisherdev/shopfront/internal/domain/model"
)

// DefaultTokenTTL is the session token lifetime. Tokens are self-contained:
// there is no revocation list, so a token stays valid for its full lifetime
// even after logout or account deactivation.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned when a token fails signature or expiry checks,
// or carries malformed claims. Callers treat all verification failures
// identically to avoid leaking which check failed.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the session assertions embedded in a signed token.
type Claims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenManager signs and verifies HS256 session tokens with a fixed
// server-side secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. The secret must be at least 32
// bytes; a shorter HMAC key weakens HS256 below its design strength.
func NewTokenManager(secret []byte, ttl time.Duration) (*TokenManager, error) {
	if len(secret) < 32 {
		return nil, errors.New("token secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secret: secret,
		ttl:    ttl,
		issuer: "shopfront",
		now:    time.Now,
	}, nil
}

// Issue signs a token binding the user's identity and role.
func (m *TokenManager) Issue(user *model.User) (string, error) {
	now := m.now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// All failures map to ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL returns the configured token lifetime, used for the cookie Max-Age.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}
