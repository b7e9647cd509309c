package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account categories.
type Role string

const (
	RoleWorker   Role = "worker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// ParseRole rejects anything outside the closed role set.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, value)
	}
	return role, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable reports whether the role may be chosen at public registration.
func (r Role) SelfRegistrable() bool {
	return r == RoleWorker || r == RoleEmployer
}

func (r Role) String() string {
	return string(r)
}

// Account represents a person able to authenticate.
type Account struct {
	ID             uuid.UUID
	Name           string
	Email          string
	PasswordHashed string
	Phone          *string
	Role           Role
	Bio            *string
	Skills         *string
	OTPCode        *string
	OTPExpiresAt   *time.Time
	OTPVerified    bool
	EmailVerified  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeEmail is the canonical form used for storage and lookup; email
// uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsVerified reports whether the account completed OTP confirmation.
func (a *Account) IsVerified() bool {
	return a.EmailVerified
}

// ClearCode drops the stored one-time code and its expiry.
func (a *Account) ClearCode() {
	a.OTPCode = nil
	a.OTPExpiresAt = nil
}

// SetCode stores a freshly issued one-time code, replacing any previous one.
func (a *Account) SetCode(code string, expiresAt time.Time) {
	a.OTPCode = &code
	a.OTPExpiresAt = &expiresAt
}

// MarkVerified sets both verification flags and consumes the code.
func (a *Account) MarkVerified() {
	a.OTPVerified = true
	a.EmailVerified = true
	a.ClearCode()
}

// ListFilter selects accounts for administrative listing.
type ListFilter struct {
	Role          *Role
	IncludeAdmins bool
	Offset        int
	Limit         int
}

// Stats is the per-role account breakdown shown on the admin dashboard.
type Stats struct {
	Total     int64 `json:"total_users"`
	Workers   int64 `json:"total_workers"`
	Employers int64 `json:"total_employers"`
	Admins    int64 `json:"total_admins"`
	Verified  int64 `json:"verified_users"`
}
