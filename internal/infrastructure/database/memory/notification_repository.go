package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trusthire/internal/domain/notification"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[uuid.UUID]*notification.Notification)}
}

func (r *NotificationRepository) Create(_ context.Context, n *notification.Notification) error {
	now := time.Now().UTC()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = now
	n.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	c := *n
	r.items[n.ID] = &c
	return nil
}

func (r *NotificationRepository) ListByAccount(_ context.Context, accountID uuid.UUID, limit int) ([]*notification.Notification, error) {
	r.mu.RLock()
	var out []*notification.Notification
	for _, n := range r.items {
		if n.AccountID == accountID {
			c := *n
			out = append(out, &c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.items {
		if n.AccountID == accountID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.AccountID != accountID {
		return notification.ErrNotificationNotFound
	}
	n.Read = true
	n.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	now := time.Now().UTC()
	for _, n := range r.items {
		if n.AccountID == accountID && !n.Read {
			n.Read = true
			n.UpdatedAt = now
			updated++
		}
	}
	return updated, nil
}

func (r *NotificationRepository) Delete(_ context.Context, id, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.AccountID != accountID {
		return notification.ErrNotificationNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *NotificationRepository) DeleteByAccount(_ context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.items {
		if n.AccountID == accountID {
			delete(r.items, id)
		}
	}
	return nil
}
