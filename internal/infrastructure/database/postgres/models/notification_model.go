package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1"`
	Type      string    `gorm:"type:varchar(50);not null"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Message   string    `gorm:"type:text;not null"`
	Read      bool      `gorm:"default:false;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_notifications_user_created,priority:2,sort:desc"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
