package model

import "time"

// Audit outcome reasons recorded with each login attempt.
const (
	AuditReasonSuccess         = "success"
	AuditReasonUserNotFound    = "user_not_found"
	AuditReasonInvalidPassword = "invalid_password"
	AuditReasonInactive        = "user_inactive"
	AuditReasonRateLimited     = "rate_limited"
	AuditReasonRegistration    = "registration"
)

// LoginAudit is one row of the login audit trail. Writes are best-effort:
// a failed audit insert never fails the login it describes.
type LoginAudit struct {
	ID        string
	Email     string
	ClientKey string
	UserAgent string
	Success   bool
	Reason    string
	CreatedAt time.Time
}
