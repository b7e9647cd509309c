// Package memory holds process-local repositories for the "memory" storage
// driver and for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trusthire/internal/domain/account"

	"github.com/google/uuid"
)

type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*account.Account
	byEmail map[string]uuid.UUID
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[uuid.UUID]*account.Account),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *AccountRepository) Create(_ context.Context, a *account.Account) error {
	email := account.NormalizeEmail(a.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[email]; taken {
		return account.ErrAccountAlreadyExists
	}

	now := time.Now().UTC()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Email = email
	a.CreatedAt = now
	a.UpdatedAt = now

	r.byID[a.ID] = clone(a)
	r.byEmail[email] = a.ID
	return nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[account.NormalizeEmail(email)]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return clone(a), nil
}

func (r *AccountRepository) List(_ context.Context, filter account.ListFilter) ([]*account.Account, int64, error) {
	r.mu.RLock()
	matched := make([]*account.Account, 0, len(r.byID))
	for _, a := range r.byID {
		switch {
		case filter.Role != nil && a.Role != *filter.Role:
			continue
		case filter.Role == nil && !filter.IncludeAdmins && a.Role == account.RoleAdmin:
			continue
		}
		matched = append(matched, clone(a))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := min(max(filter.Offset, 0), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}

	return matched[start:end], total, nil
}

func (r *AccountRepository) Stats(_ context.Context) (*account.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &account.Stats{Total: int64(len(r.byID))}
	for _, a := range r.byID {
		switch a.Role {
		case account.RoleWorker:
			stats.Workers++
		case account.RoleEmployer:
			stats.Employers++
		case account.RoleAdmin:
			stats.Admins++
		}
		if a.EmailVerified {
			stats.Verified++
		}
	}
	return stats, nil
}

func (r *AccountRepository) UpdateProfile(_ context.Context, a *account.Account) error {
	return r.mutate(a.ID, func(stored *account.Account) {
		stored.Name = a.Name
		stored.Phone = copyString(a.Phone)
		stored.Bio = copyString(a.Bio)
		stored.Skills = copyString(a.Skills)
		a.UpdatedAt = stored.UpdatedAt
	})
}

func (r *AccountRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	return r.mutate(id, func(stored *account.Account) {
		stored.PasswordHashed = passwordHash
	})
}

func (r *AccountRepository) UpdateVerification(_ context.Context, a *account.Account, loadedCode *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[a.ID]
	switch {
	case !ok:
		return account.ErrAccountNotFound
	case stored.EmailVerified:
		return account.ErrAlreadyVerified
	case !sameCode(stored.OTPCode, loadedCode):
		return account.ErrInvalidCode
	}

	stored.OTPCode = copyString(a.OTPCode)
	stored.OTPExpiresAt = copyTime(a.OTPExpiresAt)
	stored.OTPVerified = a.OTPVerified
	stored.EmailVerified = a.EmailVerified
	stored.UpdatedAt = time.Now().UTC()
	a.UpdatedAt = stored.UpdatedAt
	return nil
}

func sameCode(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (r *AccountRepository) mutate(id uuid.UUID, fn func(stored *account.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	stored.UpdatedAt = time.Now().UTC()
	fn(stored)
	return nil
}

func (r *AccountRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	delete(r.byEmail, a.Email)
	delete(r.byID, id)
	return nil
}

func (r *AccountRepository) ClearExpiredCodes(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cleared int64
	for _, stored := range r.byID {
		if stored.OTPCode == nil || stored.OTPExpiresAt == nil || !stored.OTPExpiresAt.Before(cutoff) {
			continue
		}
		stored.ClearCode()
		stored.UpdatedAt = time.Now().UTC()
		cleared++
	}
	return cleared, nil
}

func clone(a *account.Account) *account.Account {
	c := *a
	c.Phone = copyString(a.Phone)
	c.Bio = copyString(a.Bio)
	c.Skills = copyString(a.Skills)
	c.OTPCode = copyString(a.OTPCode)
	c.OTPExpiresAt = copyTime(a.OTPExpiresAt)
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
