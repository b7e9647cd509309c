// Package events publishes account lifecycle events for downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=events.go -destination=mock/publisher_mock.go -package=mock

type Type string

const (
	AccountRegistered Type = "account.registered"
	AccountVerified   Type = "account.verified"
	AccountDeleted    Type = "account.deleted"
)

type Event struct {
	Type       Type      `json:"event"`
	AccountID  uuid.UUID `json:"account_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is best-effort: callers log a failed publish and move on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() {}
