package repository

import (
	"context"

	"taskhive/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CascadeRepository orchestrates the ordered multi-collection deletes
// that keep nested collections consistent when an aggregate root goes
// away. The steps are deliberately not wrapped in one transaction:
// every delete is a "delete matching, succeed on zero rows" operation
// and children go before parents, so an aborted run leaves only
// orphans that a retry of the same call cleans up.
type CascadeRepository struct {
	db *gorm.DB
}

func NewCascadeRepository(db *gorm.DB) *CascadeRepository {
	return &CascadeRepository{db: db}
}

// DeleteOrganization removes an organization and everything it
// transitively owns: memberships, notes, subtasks, attachments, tasks,
// projects, then the organization row itself.
func (r *CascadeRepository) DeleteOrganization(ctx context.Context, orgID uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("organization_id = ?", orgID).Delete(&model.ProjectMember{}).Error; err != nil {
		return err
	}

	var projectIDs []uuid.UUID
	if err := db.Model(&model.Project{}).Where("organization_id = ?", orgID).Pluck("id", &projectIDs).Error; err != nil {
		return err
	}

	if len(projectIDs) > 0 {
		if err := db.Where("project_id IN ?", projectIDs).Delete(&model.ProjectNote{}).Error; err != nil {
			return err
		}
		if err := r.deleteTasksOfProjects(db, projectIDs); err != nil {
			return err
		}
		if err := db.Where("organization_id = ?", orgID).Delete(&model.Project{}).Error; err != nil {
			return err
		}
	}

	return db.Where("id = ?", orgID).Delete(&model.Organization{}).Error
}

// DeleteProject removes a project, its notes, tasks (with subtasks and
// attachments) and its memberships. Pruning memberships here keeps the
// ledger consistent with the organization-level cascade.
func (r *CascadeRepository) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("project_id = ?", projectID).Delete(&model.ProjectNote{}).Error; err != nil {
		return err
	}
	if err := r.deleteTasksOfProjects(db, []uuid.UUID{projectID}); err != nil {
		return err
	}
	if err := db.Where("project_id = ?", projectID).Delete(&model.ProjectMember{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", projectID).Delete(&model.Project{}).Error
}

// DeleteTask removes a task together with its subtasks and attachments.
func (r *CascadeRepository) DeleteTask(ctx context.Context, projectID, taskID uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("task_id = ?", taskID).Delete(&model.SubTask{}).Error; err != nil {
		return err
	}
	if err := db.Where("task_id = ?", taskID).Delete(&model.Attachment{}).Error; err != nil {
		return err
	}
	return db.Where("id = ? AND project_id = ?", taskID, projectID).Delete(&model.Task{}).Error
}

func (r *CascadeRepository) deleteTasksOfProjects(db *gorm.DB, projectIDs []uuid.UUID) error {
	var taskIDs []uuid.UUID
	if err := db.Model(&model.Task{}).Where("project_id IN ?", projectIDs).Pluck("id", &taskIDs).Error; err != nil {
		return err
	}
	if len(taskIDs) == 0 {
		return nil
	}
	if err := db.Where("task_id IN ?", taskIDs).Delete(&model.SubTask{}).Error; err != nil {
		return err
	}
	if err := db.Where("task_id IN ?", taskIDs).Delete(&model.Attachment{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", taskIDs).Delete(&model.Task{}).Error
}
