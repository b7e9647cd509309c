package notification

import (
	"context"

	domainNotification "trusthire/internal/domain/notification"
	"trusthire/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListLimit is the number of most recent notifications returned by List.
const ListLimit = 20

// Service implements notification use cases
type Service struct {
	repo domainNotification.Repository
}

func NewService(repo domainNotification.Repository) *Service {
	return &Service{repo: repo}
}

// Notify records a notification for accountID. Failures are logged and
// swallowed; a notification never fails the operation that triggered it.
func (s *Service) Notify(ctx context.Context, accountID uuid.UUID, t domainNotification.Type, title, message string) {
	n := &domainNotification.Notification{
		AccountID: accountID,
		Type:      t,
		Title:     title,
		Message:   message,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		logger.Error("Failed to create notification",
			zap.String("user_id", accountID.String()),
			zap.String("type", string(t)),
			zap.Error(err),
			zap.String("event", "notification_create_failed"),
		)
	}
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID) (*ListResponse, error) {
	items, err := s.repo.ListByAccount(ctx, accountID, ListLimit)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, accountID)
	if err != nil {
		return nil, err
	}

	out := make([]*NotificationResponse, len(items))
	for i, n := range items {
		out[i] = ToNotificationResponse(n)
	}

	return &ListResponse{Notifications: out, UnreadCount: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, accountID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, accountID)
}

func (s *Service) MarkAllRead(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, accountID)
}

func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, accountID)
}

// DeleteForAccount drops every notification owned by accountID.
func (s *Service) DeleteForAccount(ctx context.Context, accountID uuid.UUID) error {
	return s.repo.DeleteByAccount(ctx, accountID)
}
