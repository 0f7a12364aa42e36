package model

import (
	"time"

	"github.com/google/uuid"
)

type SubTask struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	IsCompleted bool      `gorm:"not null;default:false"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Task    Task `gorm:"foreignKey:TaskID"`
	Creator User `gorm:"foreignKey:CreatedBy"`
}
