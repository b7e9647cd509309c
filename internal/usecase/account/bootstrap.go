package account

import (
	"context"
	"errors"
	"fmt"

	"trusthire/internal/config"
	domainAccount "trusthire/internal/domain/account"
	"trusthire/internal/logger"
	"trusthire/pkg/utils"

	"go.uber.org/zap"
)

type seed struct {
	name     string
	email    string
	password string
	role     domainAccount.Role
}

// Bootstrap creates the configured admin and demo accounts, already verified,
// when their email is not taken. Existing accounts are left untouched.
func (s *Service) Bootstrap(ctx context.Context, cfg config.BootstrapConfig) error {
	seeds := []seed{
		{name: cfg.AdminName, email: cfg.AdminEmail, password: cfg.AdminPassword, role: domainAccount.RoleAdmin},
		{name: cfg.UserName, email: cfg.UserEmail, password: cfg.UserPassword, role: domainAccount.RoleWorker},
	}

	for _, sd := range seeds {
		if sd.email == "" {
			continue
		}
		if err := s.seedAccount(ctx, sd); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) seedAccount(ctx context.Context, sd seed) error {
	email := domainAccount.NormalizeEmail(sd.email)

	_, err := s.accounts.GetByEmail(ctx, email)
	switch {
	case err == nil:
		logger.Info("Bootstrap account already exists",
			zap.String("email", email),
			zap.String("role", sd.role.String()),
		)
		return nil
	case !errors.Is(err, domainAccount.ErrAccountNotFound):
		return fmt.Errorf("failed to look up bootstrap account %s: %w", email, err)
	}

	if sd.password == "" {
		logger.Warn("Bootstrap account skipped, no password configured",
			zap.String("email", email),
			zap.String("role", sd.role.String()),
		)
		return nil
	}

	hashedPassword, err := utils.HashPassword(sd.password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	a := &domainAccount.Account{
		Name:           sd.name,
		Email:          email,
		PasswordHashed: hashedPassword,
		Role:           sd.role,
		OTPVerified:    true,
		EmailVerified:  true,
	}

	if err := s.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, domainAccount.ErrAccountAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create bootstrap account %s: %w", email, err)
	}

	logger.Info("Bootstrap account created",
		zap.String("user_id", a.ID.String()),
		zap.String("email", email),
		zap.String("role", sd.role.String()),
		zap.String("event", "bootstrap_account_created"),
	)
	return nil
}
