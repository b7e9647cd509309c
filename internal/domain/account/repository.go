package account

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the credential store. Create must fail with
// ErrAccountAlreadyExists when the email is taken; that check is the
// authoritative duplicate guard.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	List(ctx context.Context, filter ListFilter) ([]*Account, int64, error)
	Stats(ctx context.Context) (*Stats, error)
	UpdateProfile(ctx context.Context, account *Account) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	// UpdateVerification writes the code and verification flags of account only
	// while the stored row is still unverified and still holds loadedCode (nil
	// meaning no code). Otherwise it returns ErrAlreadyVerified, or
	// ErrInvalidCode when the code was replaced in between.
	UpdateVerification(ctx context.Context, account *Account, loadedCode *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ClearExpiredCodes drops unverified codes that expired before cutoff and
	// reports how many were cleared.
	ClearExpiredCodes(ctx context.Context, cutoff time.Time) (int64, error)
}
