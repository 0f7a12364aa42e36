package repository

import (
	"context"
	"errors"

	"taskhive/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

type OrganizationRepositoryInterface interface {
	Create(ctx context.Context, org *model.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	GetByIDWithAdmin(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	GetAllByAdmin(ctx context.Context, adminID uuid.UUID) ([]model.Organization, error)
	FindByNameAndAdmin(ctx context.Context, name string, adminID uuid.UUID) (*model.Organization, error)
	Save(ctx context.Context, org *model.Organization) error
}

var _ OrganizationRepositoryInterface = (*OrganizationRepository)(nil)

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &org, err
}

// GetByIDWithAdmin returns the organization joined with its admin user
// for response shaping.
func (r *OrganizationRepository) GetByIDWithAdmin(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).Preload("Admin").Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &org, err
}

func (r *OrganizationRepository) GetAllByAdmin(ctx context.Context, adminID uuid.UUID) ([]model.Organization, error) {
	var orgs []model.Organization
	err := r.db.WithContext(ctx).Where("admin_id = ?", adminID).Find(&orgs).Error
	return orgs, err
}

func (r *OrganizationRepository) FindByNameAndAdmin(ctx context.Context, name string, adminID uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).Where("name = ? AND admin_id = ?", name, adminID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &org, err
}

func (r *OrganizationRepository) Save(ctx context.Context, org *model.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}
