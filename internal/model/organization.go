package model

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name    string    `gorm:"not null;index:idx_org_name_admin,unique"`
	AdminID uuid.UUID `gorm:"type:uuid;not null;index:idx_org_name_admin,unique"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Admin User `gorm:"foreignKey:AdminID"`
}
