package postgres

import (
	"context"
	"fmt"
	"time"

	"trusthire/internal/domain/notification"
	"trusthire/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	now := time.Now().UTC()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = now
	n.UpdatedAt = now

	dbModel := toNotificationModel(n)
	err := r.db.run(ctx, "create_notification", func(ctx context.Context) error {
		return r.db.DB.WithContext(ctx).Create(dbModel).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*notification.Notification, error) {
	var dbModels []models.NotificationModel
	err := r.db.run(ctx, "list_notifications", func(ctx context.Context) error {
		return r.db.DB.WithContext(ctx).
			Where("user_id = ?", accountID).
			Order("created_at DESC").
			Limit(limit).
			Find(&dbModels).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]*notification.Notification, len(dbModels))
	for i := range dbModels {
		out[i] = toNotificationEntity(&dbModels[i])
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.run(ctx, "count_unread_notifications", func(ctx context.Context) error {
		return r.db.DB.WithContext(ctx).
			Model(&models.NotificationModel{}).
			Where("user_id = ? AND read = ?", accountID, false).
			Count(&count).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, accountID uuid.UUID) error {
	var affected int64
	err := r.db.run(ctx, "mark_notification_read", func(ctx context.Context) error {
		result := r.db.DB.WithContext(ctx).
			Model(&models.NotificationModel{}).
			Where("id = ? AND user_id = ?", id, accountID).
			Updates(map[string]interface{}{
				"read":       true,
				"updated_at": time.Now().UTC(),
			})
		affected = result.RowsAffected
		return result.Error
	})

	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if affected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var affected int64
	err := r.db.run(ctx, "mark_all_notifications_read", func(ctx context.Context) error {
		result := r.db.DB.WithContext(ctx).
			Model(&models.NotificationModel{}).
			Where("user_id = ? AND read = ?", accountID, false).
			Updates(map[string]interface{}{
				"read":       true,
				"updated_at": time.Now().UTC(),
			})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update notifications: %w", err)
	}
	return affected, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	var affected int64
	err := r.db.run(ctx, "delete_notification", func(ctx context.Context) error {
		result := r.db.DB.WithContext(ctx).
			Delete(&models.NotificationModel{}, "id = ? AND user_id = ?", id, accountID)
		affected = result.RowsAffected
		return result.Error
	})

	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if affected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	err := r.db.run(ctx, "delete_account_notifications", func(ctx context.Context) error {
		return r.db.DB.WithContext(ctx).
			Delete(&models.NotificationModel{}, "user_id = ?", accountID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}

func toNotificationModel(n *notification.Notification) *models.NotificationModel {
	return &models.NotificationModel{
		ID:        n.ID,
		UserID:    n.AccountID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func toNotificationEntity(m *models.NotificationModel) *notification.Notification {
	return &notification.Notification{
		ID:        m.ID,
		AccountID: m.UserID,
		Type:      notification.Type(m.Type),
		Title:     m.Title,
		Message:   m.Message,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
