package utils

import (
	"errors"
	"fmt"
	"sync"

	appErrors "trusthire/pkg/errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost matches the work factor accounts were hashed with originally.
// Length bounds (6..72, bcrypt ignores input past 72 bytes) are enforced by
// the request validate tags.
const PasswordCost = 10

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// CheckPassword reports whether password matches hashedPassword. A mismatch is
// (false, nil); only a malformed stored hash returns an error.
func CheckPassword(hashedPassword, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", appErrors.ErrMalformedHash, err)
	}
}

// BurnPasswordCheck spends the same time as a real comparison, so a lookup
// miss is indistinguishable from a wrong password by latency.
func BurnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("trusthire-dummy-password"), PasswordCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
