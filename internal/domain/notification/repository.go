package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository scopes every mutating call by owner; a notification owned by
// another account is reported as ErrNotificationNotFound.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*Notification, error)
	CountUnread(ctx context.Context, accountID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, accountID uuid.UUID) error
	MarkAllRead(ctx context.Context, accountID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, accountID uuid.UUID) error
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}
