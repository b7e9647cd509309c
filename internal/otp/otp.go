// Package otp issues and checks the six-digit codes that prove an account
// owner controls the registered email address.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"trusthire/internal/domain/account"
)

const (
	DefaultTTL = 10 * time.Minute

	codeFloor = 100000
	codeSpan  = 900000 // codes are 100000..999999
)

// Generator produces a fresh code.
type Generator func() (string, error)

// GenerateCode draws a uniform code in 100000..999999, so the leading digit is
// never zero.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+codeFloor, 10), nil
}

type Manager struct {
	ttl      time.Duration
	generate Generator
	now      func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithGenerator(g Generator) Option {
	return func(m *Manager) { m.generate = g }
}

func NewManager(ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m := &Manager{
		ttl:      ttl,
		generate: GenerateCode,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue stores a new code and its expiry on a, overwriting any previous code,
// and returns the code for delivery. The caller persists a.
func (m *Manager) Issue(a *account.Account) (string, error) {
	code, err := m.generate()
	if err != nil {
		return "", err
	}

	a.SetCode(code, m.now().Add(m.ttl))
	return code, nil
}

// Reissue is Issue for a resend request; verified accounts are rejected.
func (m *Manager) Reissue(a *account.Account) (string, error) {
	if err := account.Allow(a, account.ActionResend); err != nil {
		return "", err
	}
	return m.Issue(a)
}

// Verify checks submitted against the stored code. On success the account is
// marked verified and the code cleared; on failure a is left untouched, so a
// wrong guess never burns the valid code.
func (m *Manager) Verify(a *account.Account, submitted string) error {
	if err := account.Allow(a, account.ActionVerify); err != nil {
		return err
	}

	if a.OTPCode == nil || *a.OTPCode != submitted {
		return account.ErrInvalidCode
	}

	if a.OTPExpiresAt == nil || m.now().After(*a.OTPExpiresAt) {
		return account.ErrCodeExpired
	}

	a.MarkVerified()
	return nil
}
