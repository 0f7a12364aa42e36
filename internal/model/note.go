package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectNote struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	Content   string    `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Project Project `gorm:"foreignKey:ProjectID"`
	Author  User    `gorm:"foreignKey:CreatedBy"`
}
