package repository

import (
	"context"
	"errors"

	"taskhive/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubTaskRepository struct {
	db *gorm.DB
}

func NewSubTaskRepository(db *gorm.DB) *SubTaskRepository {
	return &SubTaskRepository{db: db}
}

func (r *SubTaskRepository) Create(ctx context.Context, subtask *model.SubTask) error {
	return r.db.WithContext(ctx).Create(subtask).Error
}

func (r *SubTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SubTask, error) {
	var subtask model.SubTask
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subtask).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &subtask, err
}

func (r *SubTaskRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]model.SubTask, error) {
	var subtasks []model.SubTask
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Find(&subtasks).Error
	return subtasks, err
}

func (r *SubTaskRepository) FindByTaskWithCreator(ctx context.Context, taskID uuid.UUID) ([]model.SubTask, error) {
	var subtasks []model.SubTask
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("task_id = ?", taskID).
		Find(&subtasks).Error
	return subtasks, err
}

func (r *SubTaskRepository) Save(ctx context.Context, subtask *model.SubTask) error {
	return r.db.WithContext(ctx).Save(subtask).Error
}

func (r *SubTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SubTask{}).Error
}
