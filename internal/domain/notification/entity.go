package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeWelcome         Type = "welcome"
	TypeProfileUpdate   Type = "profile_update"
	TypePasswordChanged Type = "password_changed"
)

// Notification is an in-app message addressed to one account.
type Notification struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Type      Type
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
