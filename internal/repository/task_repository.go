package repository

import (
	"context"
	"errors"

	"taskhive/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Preload("Attachments").Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &task, err
}

// GetByIDInProject also pins the task to its project so a task id from
// one project cannot be addressed through another project's routes.
func (r *TaskRepository) GetByIDInProject(ctx context.Context, id, projectID uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("id = ? AND project_id = ?", id, projectID).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &task, err
}

func (r *TaskRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Preload("Assignee").
		Preload("Assigner").
		Where("project_id = ?", projectID).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindByAssignee(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Assigner").
		Preload("Project").
		Where("assigned_to = ?", userID).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// RefreshDerivedStatus recomputes the task status from the live subtask
// set and persists it. The read-by-id path always calls this, so any
// directly written status survives only until the next read.
func (r *TaskRepository) RefreshDerivedStatus(ctx context.Context, task *model.Task, subtasks []model.SubTask) error {
	status := model.DeriveTaskStatus(subtasks)
	if status == task.Status {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", task.ID).
		Update("status", status).Error; err != nil {
		return err
	}
	task.Status = status
	return nil
}
