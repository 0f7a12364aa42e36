package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskhive/internal/auth"
	"taskhive/internal/handler"
	"taskhive/internal/middleware"
	"taskhive/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *model.ProjectMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectMember, error) {
	args := m.Called(ctx, id)
	if member := args.Get(0); member != nil {
		return member.(*model.ProjectMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMemberRepository) GetByIDInProject(ctx context.Context, id, projectID uuid.UUID) (*model.ProjectMember, error) {
	args := m.Called(ctx, id, projectID)
	if member := args.Get(0); member != nil {
		return member.(*model.ProjectMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMemberRepository) FindByUserAndProject(ctx context.Context, userID, projectID uuid.UUID) (*model.ProjectMember, error) {
	args := m.Called(ctx, userID, projectID)
	if member := args.Get(0); member != nil {
		return member.(*model.ProjectMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMemberRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]model.ProjectMember), args.Error(1)
}

func (m *MockMemberRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.ProjectMember, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.ProjectMember), args.Error(1)
}

func (m *MockMemberRepository) FindProjectAdmins(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]model.ProjectMember), args.Error(1)
}

func (m *MockMemberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if project := args.Get(0); project != nil {
		return project.(*model.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if project := args.Get(0); project != nil {
		return project.(*model.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) GetByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

// setupMemberTest wires a MemberHandler behind stubbed auth and
// permission context, the way the route chain would.
func setupMemberTest(caller *model.User, callerRole string) (*gin.Engine, *MockProjectRepository, *MockMemberRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	mockProjects := new(MockProjectRepository)
	mockMembers := new(MockMemberRepository)

	memberHandler := handler.NewMemberHandler(mockProjects, mockMembers, new(MockUserRepository), new(MockMailer), testConfig())

	r.Use(func(c *gin.Context) {
		if caller != nil {
			c.Set(middleware.UserIDKey, caller.ID)
			c.Set(middleware.UserKey, caller)
		}
		if callerRole != "" {
			c.Set(middleware.MemberRoleKey, callerRole)
		}
	})

	r.GET("/addMember", memberHandler.AddMember)
	r.DELETE("/deleteMember/:projectId/:memberId", memberHandler.DeleteMember)
	r.PUT("/updateMemberRole/:projectId", memberHandler.UpdateMemberRole)

	return r, mockProjects, mockMembers
}

func TestDeleteMember_RankRule(t *testing.T) {
	tests := []struct {
		name       string
		callerRole string
		targetRole string
		wantStatus int
	}{
		{"admin deletes project_admin", model.RoleAdmin, model.RoleProjectAdmin, http.StatusOK},
		{"admin deletes member", model.RoleAdmin, model.RoleMember, http.StatusOK},
		{"admin deletes admin peer", model.RoleAdmin, model.RoleAdmin, http.StatusForbidden},
		{"project_admin deletes member", model.RoleProjectAdmin, model.RoleMember, http.StatusOK},
		{"project_admin deletes project_admin peer", model.RoleProjectAdmin, model.RoleProjectAdmin, http.StatusForbidden},
		{"project_admin deletes admin", model.RoleProjectAdmin, model.RoleAdmin, http.StatusForbidden},
		{"member deletes member peer", model.RoleMember, model.RoleMember, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			caller := &model.User{ID: uuid.New()}
			router, _, mockMembers := setupMemberTest(caller, tt.callerRole)

			projectID := uuid.New()
			target := &model.ProjectMember{
				ID:        uuid.New(),
				UserID:    uuid.New(),
				ProjectID: projectID,
				Role:      tt.targetRole,
			}
			mockMembers.On("GetByIDInProject", mock.Anything, target.ID, projectID).Return(target, nil)
			if tt.wantStatus == http.StatusOK {
				mockMembers.On("Delete", mock.Anything, target.ID).Return(nil)
			}

			req, _ := http.NewRequest("DELETE", "/deleteMember/"+projectID.String()+"/"+target.ID.String(), nil)

			// Act
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			// Assert
			assert.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, resp.Body.String(), "You cannot delete a member above or equal to your level in hierarchy")
				mockMembers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
			mockMembers.AssertExpectations(t)
		})
	}
}

func TestUpdateMemberRole_CreatorRoleFrozen(t *testing.T) {
	// Arrange: even an admin caller cannot change the project creator's role.
	caller := &model.User{ID: uuid.New()}
	router, mockProjects, mockMembers := setupMemberTest(caller, model.RoleAdmin)

	creatorID := uuid.New()
	projectID := uuid.New()
	project := &model.Project{ID: projectID, Name: "Apollo", CreatedBy: creatorID}
	target := &model.ProjectMember{
		ID:        uuid.New(),
		UserID:    creatorID,
		ProjectID: projectID,
		Role:      model.RoleAdmin,
	}

	mockProjects.On("GetByID", mock.Anything, projectID).Return(project, nil)
	mockMembers.On("GetByIDInProject", mock.Anything, target.ID, projectID).Return(target, nil)

	jsonBody, _ := json.Marshal(map[string]string{
		"memberId": target.ID.String(),
		"newRole":  model.RoleProjectAdmin,
	})
	req, _ := http.NewRequest("PUT", "/updateMemberRole/"+projectID.String(), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "This member is the creator of this project")
	mockMembers.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	mockProjects.AssertExpectations(t)
	mockMembers.AssertExpectations(t)
}

func TestUpdateMemberRole_AdminGrantRequiresAdmin(t *testing.T) {
	// Arrange: a project_admin cannot hand out the admin role.
	caller := &model.User{ID: uuid.New()}
	router, mockProjects, mockMembers := setupMemberTest(caller, model.RoleProjectAdmin)

	jsonBody, _ := json.Marshal(map[string]string{
		"memberId": uuid.New().String(),
		"newRole":  model.RoleAdmin,
	})
	req, _ := http.NewRequest("PUT", "/updateMemberRole/"+uuid.New().String(), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "You must be an admin to make someone an admin")
	mockProjects.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	mockMembers.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMember_NilOrganizationInToken(t *testing.T) {
	// Arrange: a signed token whose organization id is the nil uuid must
	// not produce a membership row with a dangling organization FK.
	router, _, mockMembers := setupMemberTest(nil, "")

	cfg := testConfig()
	token, err := auth.GenerateInviteToken(uuid.New(), uuid.Nil, uuid.New(), model.RoleMember,
		cfg.AccessTokenSecret, time.Hour)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/addMember?token="+token, nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, 498, resp.Code)
	assert.Contains(t, resp.Body.String(), "Token payload is malformed")
	mockMembers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockMembers.AssertNotCalled(t, "FindByUserAndProject", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMember_DuplicateMembership(t *testing.T) {
	// Arrange: redeeming an invite for an existing (user, project) pair
	// is a conflict, not a second row.
	router, _, mockMembers := setupMemberTest(nil, "")

	cfg := testConfig()
	userID := uuid.New()
	projectID := uuid.New()
	token, err := auth.GenerateInviteToken(userID, uuid.New(), projectID, model.RoleMember,
		cfg.AccessTokenSecret, time.Hour)
	assert.NoError(t, err)

	existing := &model.ProjectMember{ID: uuid.New(), UserID: userID, ProjectID: projectID, Role: model.RoleMember}
	mockMembers.On("FindByUserAndProject", mock.Anything, userID, projectID).Return(existing, nil)

	req, _ := http.NewRequest("GET", "/addMember?token="+token, nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "User is already a member of this project")
	mockMembers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockMembers.AssertExpectations(t)
}
