package model

import "time"

// Role identifies the permission level attached to a user account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is a credential record: the stored identity used to authenticate.
// PasswordHash is never serialized and must never appear in logs or responses.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"-"`
	LastLoginAt  *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"-"`
}

// Profile holds the loyalty-program profile linked to a user by email.
// A profile may exist before the user registers a login (guest loyalty
// members); registration merges into the existing row.
type Profile struct {
	UserID         string
	Email          string
	FirstName      string
	LastName       string
	Phone          string
	MarketingOptIn bool
	LoyaltyPoints  int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Loyalty tier thresholds, in points.
const (
	tierSilverAt = 500
	tierGoldAt   = 2000
)

// Tier derives the display tier from accumulated loyalty points.
func (p *Profile) Tier() string {
	switch {
	case p.LoyaltyPoints >= tierGoldAt:
		return "gold"
	case p.LoyaltyPoints >= tierSilverAt:
		return "silver"
	default:
		return "bronze"
	}
}
