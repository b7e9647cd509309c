package account

import (
	"time"

	domainAccount "trusthire/internal/domain/account"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Role     string  `json:"role" validate:"required,user_role"`
}

// VerifyOTPRequest only requires the code to be present; a code of the wrong
// shape is reported as an invalid code, not a validation error.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=3,max=50"`
	Phone  *string `json:"phone" validate:"omitempty,phone"`
	Bio    *string `json:"bio" validate:"omitempty,max=1000"`
	Skills *string `json:"skills" validate:"omitempty,max=500"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

type ListAccountsQuery struct {
	Role  string `form:"role" validate:"omitempty,oneof=worker employer admin all"`
	Page  int    `form:"page" validate:"omitempty,min=1"`
	Limit int    `form:"limit" validate:"omitempty,min=1"`
}

// AccountResponse is the account summary; it never carries the password hash
// or the one-time code.
type AccountResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"`
	Role       string    `json:"role"`
	Bio        *string   `json:"bio,omitempty"`
	Skills     *string   `json:"skills,omitempty"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PublicAccountResponse is what any authenticated caller may see about
// another account.
type PublicAccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Bio       *string   `json:"bio,omitempty"`
	Skills    *string   `json:"skills,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User      *AccountResponse `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt int64            `json:"expires_at"`
}

type AccountListResponse struct {
	Users      []*AccountResponse `json:"users"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

func ToAccountResponse(a *domainAccount.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	return &AccountResponse{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Phone:      a.Phone,
		Role:       a.Role.String(),
		Bio:        a.Bio,
		Skills:     a.Skills,
		IsVerified: a.IsVerified(),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func ToPublicAccountResponse(a *domainAccount.Account) *PublicAccountResponse {
	if a == nil {
		return nil
	}
	return &PublicAccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Role:      a.Role.String(),
		Bio:       a.Bio,
		Skills:    a.Skills,
		CreatedAt: a.CreatedAt,
	}
}
