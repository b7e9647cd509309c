package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trusthire/internal/domain/account"
	"trusthire/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountRepository implements account.Repository on PostgreSQL.
type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) account.Repository {
	return &AccountRepository{db: db}
}

// Create inserts the account together with its initial code in one statement.
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	now := time.Now().UTC()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Email = account.NormalizeEmail(a.Email)
	a.CreatedAt = now
	a.UpdatedAt = now

	dbModel := toAccountModel(a)
	err := r.db.run(ctx, "create_account", func(ctx context.Context) error {
		return r.db.DB.WithContext(ctx).Create(dbModel).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return account.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.first(ctx, "get_account_by_email", "email = ?", account.NormalizeEmail(email))
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.first(ctx, "get_account_by_id", "id = ?", id)
}

func (r *AccountRepository) first(ctx context.Context, op, query string, arg interface{}) (*account.Account, error) {
	var dbModel models.AccountModel
	err := r.db.run(ctx, op, func(ctx context.Context) error {
		return r.db.DB.WithContext(ctx).Where(query, arg).First(&dbModel).Error
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toAccountEntity(&dbModel), nil
}

func (r *AccountRepository) List(ctx context.Context, filter account.ListFilter) ([]*account.Account, int64, error) {
	var (
		dbModels []models.AccountModel
		total    int64
	)

	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Model(&models.AccountModel{})
		switch {
		case filter.Role != nil:
			tx = tx.Where("role = ?", string(*filter.Role))
		case !filter.IncludeAdmins:
			tx = tx.Where("role <> ?", string(account.RoleAdmin))
		}
		return tx
	}

	err := r.db.run(ctx, "list_accounts", func(ctx context.Context) error {
		db := r.db.DB.WithContext(ctx)
		if err := scope(db).Count(&total).Error; err != nil {
			return err
		}
		return scope(db).
			Order("created_at DESC").
			Offset(filter.Offset).
			Limit(filter.Limit).
			Find(&dbModels).Error
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	accounts := make([]*account.Account, len(dbModels))
	for i := range dbModels {
		accounts[i] = toAccountEntity(&dbModels[i])
	}

	return accounts, total, nil
}

func (r *AccountRepository) Stats(ctx context.Context) (*account.Stats, error) {
	var rows []struct {
		Role     string
		Total    int64
		Verified int64
	}

	err := r.db.run(ctx, "account_stats", func(ctx context.Context) error {
		return r.db.DB.WithContext(ctx).
			Model(&models.AccountModel{}).
			Select("role, COUNT(*) AS total, COUNT(*) FILTER (WHERE email_verified) AS verified").
			Group("role").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	stats := &account.Stats{}
	for _, row := range rows {
		stats.Total += row.Total
		stats.Verified += row.Verified
		switch account.Role(row.Role) {
		case account.RoleWorker:
			stats.Workers = row.Total
		case account.RoleEmployer:
			stats.Employers = row.Total
		case account.RoleAdmin:
			stats.Admins = row.Total
		}
	}

	return stats, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, a *account.Account) error {
	a.UpdatedAt = time.Now().UTC()

	return r.update(ctx, "update_profile", a.ID, map[string]interface{}{
		"name":       a.Name,
		"phone":      a.Phone,
		"bio":        a.Bio,
		"skills":     a.Skills,
		"updated_at": a.UpdatedAt,
	})
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(ctx, "update_password", id, map[string]interface{}{
		"password_hashed": passwordHash,
		"updated_at":      time.Now().UTC(),
	})
}

// UpdateVerification is a compare-and-swap on the verification columns: the
// row must still be unverified and hold the code the caller loaded.
func (r *AccountRepository) UpdateVerification(ctx context.Context, a *account.Account, loadedCode *string) error {
	a.UpdatedAt = time.Now().UTC()

	var affected int64
	err := r.db.run(ctx, "update_verification", func(ctx context.Context) error {
		result := r.db.DB.WithContext(ctx).Model(&models.AccountModel{}).
			Where("id = ? AND email_verified = ? AND otp_code IS NOT DISTINCT FROM ?", a.ID, false, loadedCode).
			Updates(map[string]interface{}{
				"otp_code":       a.OTPCode,
				"otp_expires_at": a.OTPExpiresAt,
				"otp_verified":   a.OTPVerified,
				"email_verified": a.EmailVerified,
				"updated_at":     a.UpdatedAt,
			})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if affected > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	if current.EmailVerified {
		return account.ErrAlreadyVerified
	}
	return account.ErrInvalidCode
}

func (r *AccountRepository) update(ctx context.Context, op string, id uuid.UUID, fields map[string]interface{}) error {
	var affected int64
	err := r.db.run(ctx, op, func(ctx context.Context) error {
		result := r.db.DB.WithContext(ctx).Model(&models.AccountModel{}).
			Where("id = ?", id).
			Updates(fields)
		affected = result.RowsAffected
		return result.Error
	})

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if affected == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var affected int64
	err := r.db.run(ctx, "delete_account", func(ctx context.Context) error {
		result := r.db.DB.WithContext(ctx).Delete(&models.AccountModel{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})

	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) ClearExpiredCodes(ctx context.Context, cutoff time.Time) (int64, error) {
	var cleared int64
	err := r.db.run(ctx, "clear_expired_codes", func(ctx context.Context) error {
		result := r.db.DB.WithContext(ctx).Model(&models.AccountModel{}).
			Where("otp_code IS NOT NULL AND otp_expires_at < ?", cutoff).
			Updates(map[string]interface{}{
				"otp_code":       nil,
				"otp_expires_at": nil,
				"updated_at":     time.Now().UTC(),
			})
		cleared = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired codes: %w", err)
	}

	return cleared, nil
}

func toAccountModel(a *account.Account) *models.AccountModel {
	return &models.AccountModel{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		PasswordHashed: a.PasswordHashed,
		Phone:          a.Phone,
		Role:           string(a.Role),
		Bio:            a.Bio,
		Skills:         a.Skills,
		OTPCode:        a.OTPCode,
		OTPExpiresAt:   a.OTPExpiresAt,
		OTPVerified:    a.OTPVerified,
		EmailVerified:  a.EmailVerified,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toAccountEntity(m *models.AccountModel) *account.Account {
	return &account.Account{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		PasswordHashed: m.PasswordHashed,
		Phone:          m.Phone,
		Role:           account.Role(m.Role),
		Bio:            m.Bio,
		Skills:         m.Skills,
		OTPCode:        m.OTPCode,
		OTPExpiresAt:   m.OTPExpiresAt,
		OTPVerified:    m.OTPVerified,
		EmailVerified:  m.EmailVerified,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
