package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Avatar         string    `gorm:"not null"`
	Username       string    `gorm:"uniqueIndex;not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	FullName       string    `gorm:"not null"`
	HashedPassword string    `gorm:"not null"`

	IsEmailVerified bool `gorm:"not null;default:false"`

	// Single-use token digests. The raw value is mailed to the user,
	// only the sha256 digest is stored.
	EmailVerificationToken  *string
	EmailVerificationExpiry *time.Time
	ForgotPasswordToken     *string
	ForgotPasswordExpiry    *time.Time

	// The single active refresh token. Cleared on logout and password change.
	RefreshToken      *string
	PasswordChangedAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
