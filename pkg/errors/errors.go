package errors

import (
	"errors"
	"fmt"
)

// Stable error codes returned to clients.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeConflict             = "USER_EXISTS"
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeForbidden            = "FORBIDDEN"
	CodeAlreadyVerified      = "ALREADY_VERIFIED"
	CodeInvalidCode          = "INVALID_CODE"
	CodeCodeExpired          = "CODE_EXPIRED"
	CodeVerificationRequired = "VERIFICATION_REQUIRED"
	CodeRateLimited          = "RATE_LIMITED"
	CodeRequestTooLarge      = "REQUEST_TOO_LARGE"
	CodeInternal             = "INTERNAL_ERROR"
)

// AuthFailedMessage is the one client-visible message for every authentication
// failure: wrong credentials, missing token, bad or expired token.
const AuthFailedMessage = "Invalid credentials"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")

	ErrMissingSigningKey = errors.New("token signing key is not configured")
	ErrMalformedHash     = errors.New("stored password hash is malformed")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError wraps a failed input check.
func NewValidationError(message string, err error) *AppError {
	return NewAppError(CodeValidation, message, err)
}

// IsValidation reports whether err carries a validation AppError.
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == CodeValidation
}
