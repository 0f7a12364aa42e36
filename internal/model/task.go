package model

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses. The stored value is derived from subtask completion on
// every read-by-id; see DeriveTaskStatus.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

var AvailableTaskStatuses = []string{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	AssignedTo  uuid.UUID `gorm:"type:uuid;not null"`
	AssignedBy  uuid.UUID `gorm:"type:uuid;not null"`
	Status      string    `gorm:"not null;default:'todo';check:status IN ('todo', 'in_progress', 'done')"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Project     Project      `gorm:"foreignKey:ProjectID"`
	Assignee    User         `gorm:"foreignKey:AssignedTo"`
	Assigner    User         `gorm:"foreignKey:AssignedBy"`
	Attachments []Attachment `gorm:"foreignKey:TaskID"`
}

// Attachment is populated at task creation only.
type Attachment struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID   uuid.UUID `gorm:"type:uuid;not null;index"`
	URL      string    `gorm:"not null"`
	MimeType string
	Size     int64
}

// DeriveTaskStatus recomputes a task's status from its live subtask set.
// No subtasks or none completed means todo, all completed means done,
// anything in between is in_progress.
func DeriveTaskStatus(subtasks []SubTask) string {
	completed := 0
	for _, st := range subtasks {
		if st.IsCompleted {
			completed++
		}
	}
	switch {
	case completed == 0:
		return TaskStatusTodo
	case completed == len(subtasks):
		return TaskStatusDone
	default:
		return TaskStatusInProgress
	}
}
