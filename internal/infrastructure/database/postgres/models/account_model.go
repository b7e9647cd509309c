package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel represents the database model for Account
type AccountModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name           string     `gorm:"type:varchar(100);not null"`
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHashed string     `gorm:"type:varchar(255);not null"`
	Phone          *string    `gorm:"type:varchar(20)"`
	Role           string     `gorm:"type:varchar(20);not null;index"`
	Bio            *string    `gorm:"type:text"`
	Skills         *string    `gorm:"type:text"`
	OTPCode        *string    `gorm:"column:otp_code;type:varchar(6)"`
	OTPExpiresAt   *time.Time `gorm:"column:otp_expires_at"`
	OTPVerified    bool       `gorm:"column:otp_verified;default:false;not null"`
	EmailVerified  bool       `gorm:"default:false;not null;index"`
	CreatedAt      time.Time  `gorm:"not null;index"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (AccountModel) TableName() string {
	return "users"
}
