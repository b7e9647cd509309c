package account

import (
	"context"
	"math"

	domainAccount "trusthire/internal/domain/account"
	"trusthire/internal/events"
	"trusthire/internal/logger"
	appErrors "trusthire/pkg/errors"
	"trusthire/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	roleFilterAll = "all"
)

// ListAccounts pages through accounts newest first. Without a role filter
// admins are left out; role=all includes everyone.
func (s *Service) ListAccounts(ctx context.Context, q *ListAccountsQuery) (*AccountListResponse, error) {
	if err := utils.ValidateStruct(q); err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	switch {
	case limit < 1:
		limit = defaultPageLimit
	case limit > maxPageLimit:
		limit = maxPageLimit
	}

	if page > math.MaxInt/limit {
		return nil, appErrors.NewValidationError("page is out of range", nil)
	}

	filter := domainAccount.ListFilter{
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
	switch q.Role {
	case "":
	case roleFilterAll:
		filter.IncludeAdmins = true
	default:
		role, err := domainAccount.ParseRole(q.Role)
		if err != nil {
			return nil, err
		}
		filter.Role = &role
	}

	accounts, total, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	users := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		users[i] = ToAccountResponse(a)
	}

	return &AccountListResponse{
		Users:      users,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *Service) DashboardStats(ctx context.Context) (*domainAccount.Stats, error) {
	return s.accounts.Stats(ctx)
}

// DeleteAccount removes the account and its notifications. It cannot be undone.
func (s *Service) DeleteAccount(ctx context.Context, actorID, id uuid.UUID) error {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.DeleteForAccount(ctx, id); err != nil {
			logger.Error("Failed to delete notifications of removed account",
				zap.String("user_id", id.String()),
				zap.Error(err),
			)
		}
	}

	logger.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.String("deleted_by", actorID.String()),
		zap.String("event", "user_deleted"),
	)

	s.publish(ctx, events.AccountDeleted, a)
	return nil
}
