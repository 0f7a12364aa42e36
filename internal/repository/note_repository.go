package repository

import (
	"context"
	"errors"

	"taskhive/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *model.ProjectNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectNote, error) {
	var note model.ProjectNote
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &note, err
}

func (r *NoteRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectNote, error) {
	var notes []model.ProjectNote
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("project_id = ?", projectID).
		Find(&notes).Error
	return notes, err
}

func (r *NoteRepository) Save(ctx context.Context, note *model.ProjectNote) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProjectNote{}).Error
}
