package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectMember binds a user to exactly one role in exactly one project.
type ProjectMember struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_member_user_project,unique"`
	ProjectID      uuid.UUID `gorm:"type:uuid;not null;index:idx_member_user_project,unique"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           string    `gorm:"not null;default:'member';check:role IN ('admin', 'project_admin', 'member')"`
	IsApproved     bool      `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User         User         `gorm:"foreignKey:UserID"`
	Project      Project      `gorm:"foreignKey:ProjectID"`
	Organization Organization `gorm:"foreignKey:OrganizationID"`
}
