package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name           string    `gorm:"uniqueIndex;not null"`
	Description    string
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Organization Organization `gorm:"foreignKey:OrganizationID"`
	Creator      User         `gorm:"foreignKey:CreatedBy"`
}
