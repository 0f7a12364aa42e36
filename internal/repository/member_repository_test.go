package repository_test

import (
	"context"
	"testing"

	"taskhive/internal/model"
	"taskhive/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMemberRepository_FindByUserAndProject_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewMemberRepository(gormDB)

	memberID := uuid.New()
	userID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE user_id = .* AND project_id = .* LIMIT .*`).
		WithArgs(userID, projectID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "project_id", "role", "is_approved"}).
			AddRow(memberID.String(), userID.String(), projectID.String(), model.RoleProjectAdmin, true))

	// Act
	member, err := memberRepo.FindByUserAndProject(context.Background(), userID, projectID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, member)
	assert.Equal(t, memberID, member.ID)
	assert.Equal(t, model.RoleProjectAdmin, member.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_FindByUserAndProject_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewMemberRepository(gormDB)

	userID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE user_id = .* AND project_id = .* LIMIT .*`).
		WithArgs(userID, projectID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	member, err := memberRepo.FindByUserAndProject(context.Background(), userID, projectID)

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, member)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_UpdateRole(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewMemberRepository(gormDB)

	memberID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "project_members" SET .*role.*`).
		WithArgs(model.RoleProjectAdmin, sqlmock.AnyArg(), memberID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := memberRepo.UpdateRole(context.Background(), memberID, model.RoleProjectAdmin)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_Delete(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewMemberRepository(gormDB)

	memberID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "project_members" WHERE id = .*`).
		WithArgs(memberID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := memberRepo.Delete(context.Background(), memberID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
