package account

import "errors"

var (
	ErrAccountNotFound      = errors.New("user not found")
	ErrAccountAlreadyExists = errors.New("user already exists")
	ErrInvalidRole          = errors.New("invalid user role")

	ErrAlreadyVerified      = errors.New("email already verified")
	ErrInvalidCode          = errors.New("invalid OTP")
	ErrCodeExpired          = errors.New("OTP expired")
	ErrVerificationRequired = errors.New("please verify your email first, check your email for the OTP")
)
