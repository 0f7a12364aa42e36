package repository

import (
	"context"
	"errors"

	"taskhive/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

// MembershipResolver is the lookup contract the access-control
// middleware depends on.
type MembershipResolver interface {
	FindByUserAndProject(ctx context.Context, userID, projectID uuid.UUID) (*model.ProjectMember, error)
}

type MemberRepositoryInterface interface {
	MembershipResolver
	Create(ctx context.Context, member *model.ProjectMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectMember, error)
	GetByIDInProject(ctx context.Context, id, projectID uuid.UUID) (*model.ProjectMember, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.ProjectMember, error)
	FindProjectAdmins(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ MemberRepositoryInterface = (*MemberRepository)(nil)

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, member *model.ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *MemberRepository) GetByIDInProject(ctx context.Context, id, projectID uuid.UUID) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

// FindByUserAndProject resolves the unique membership row for a
// (user, project) pair.
func (r *MemberRepository) FindByUserAndProject(ctx context.Context, userID, projectID uuid.UUID) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).Where("user_id = ? AND project_id = ?", userID, projectID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *MemberRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error
	return members, err
}

// FindByUser returns every membership of a user joined with the project
// and organization, the backbone of the getAllProjects view.
func (r *MemberRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Organization").
		Where("user_id = ?", userID).
		Find(&members).Error
	return members, err
}

func (r *MemberRepository) FindProjectAdmins(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ? AND role = ?", projectID, model.RoleProjectAdmin).
		Find(&members).Error
	return members, err
}

// UpdateRole is last-write-wins: no version check exists on membership
// rows.
func (r *MemberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&model.ProjectMember{}).
		Where("id = ?", id).
		Update("role", role).Error
}

func (r *MemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProjectMember{}).Error
}
