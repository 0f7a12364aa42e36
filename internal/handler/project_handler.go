package handler

import (
	"net/http"
	"time"

	"taskhive/internal/middleware"
	"taskhive/internal/model"
	"taskhive/internal/repository"
	"taskhive/internal/response"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projects repository.ProjectRepositoryInterface
	orgs     repository.OrganizationRepositoryInterface
	members  repository.MemberRepositoryInterface
	users    repository.UserRepositoryInterface
	cascade  *repository.CascadeRepository
}

func NewProjectHandler(projects repository.ProjectRepositoryInterface, orgs repository.OrganizationRepositoryInterface, members repository.MemberRepositoryInterface, users repository.UserRepositoryInterface, cascade *repository.CascadeRepository) *ProjectHandler {
	return &ProjectHandler{projects: projects, orgs: orgs, members: members, users: users, cascade: cascade}
}

type ProjectResponse struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Organization  string       `json:"organization"`
	Admin         AdminInfo    `json:"admin"`
	ProjectAdmins []MemberInfo `json:"projectAdmins"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// GetAll returns every project the caller belongs to, joined with the
// organization name, the creator, and the project's project_admins.
func (h *ProjectHandler) GetAll(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	memberships, err := h.members.FindByUser(c.Request.Context(), userID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if len(memberships) == 0 {
		response.Abort(c, response.BadRequest("No project exists currently"))
		return
	}

	out := make([]ProjectResponse, 0, len(memberships))
	for i := range memberships {
		project := &memberships[i].Project

		admins, err := h.members.FindProjectAdmins(c.Request.Context(), project.ID)
		if err != nil {
			response.Abort(c, err)
			return
		}
		creator, err := h.users.GetByID(c.Request.Context(), project.CreatedBy)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if creator == nil {
			continue
		}

		out = append(out, ProjectResponse{
			ID:            project.ID.String(),
			Name:          project.Name,
			Description:   project.Description,
			Organization:  memberships[i].Organization.Name,
			Admin:         AdminInfo{ID: creator.ID.String(), FullName: creator.FullName},
			ProjectAdmins: toMemberInfos(admins),
			CreatedAt:     project.CreatedAt,
			UpdatedAt:     project.UpdatedAt,
		})
	}

	response.OK(c, http.StatusOK, out, "Project details fetched Successfully")
}

func (h *ProjectHandler) GetByID(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id - May be corrupt")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	project, err := h.projects.GetByIDWithRelations(c.Request.Context(), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if project == nil {
		response.Abort(c, response.NotFound("Project not Found"))
		return
	}

	admins, err := h.members.FindProjectAdmins(c.Request.Context(), project.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, ProjectResponse{
		ID:            project.ID.String(),
		Name:          project.Name,
		Description:   project.Description,
		Organization:  project.Organization.Name,
		Admin:         AdminInfo{ID: project.Creator.ID.String(), FullName: project.Creator.FullName},
		ProjectAdmins: toMemberInfos(admins),
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}, "Project Fetched Successfully")
}

type CreateProjectRequest struct {
	OrganizationID string `json:"organizationId" binding:"required,uuid"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
}

// Create makes a project inside an organization. Only the organization
// admin may create one, and they become the project's first member with
// role admin in the same request.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	org, err := h.orgs.GetByID(c.Request.Context(), mustUUID(req.OrganizationID))
	if err != nil {
		response.Abort(c, err)
		return
	}
	if org == nil {
		response.Abort(c, response.NotFound("Organization not found"))
		return
	}
	if org.AdminID != user.ID {
		response.Abort(c, response.Forbidden("You are not authorized to create a project in this organization"))
		return
	}

	project := &model.Project{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: org.ID,
		CreatedBy:      user.ID,
	}
	if err := h.projects.Create(c.Request.Context(), project); err != nil {
		response.Abort(c, response.NotImplemented("Could not create Project"))
		return
	}

	// The creator is always the project's first membership record.
	creatorMembership := &model.ProjectMember{
		UserID:         user.ID,
		OrganizationID: org.ID,
		ProjectID:      project.ID,
		Role:           model.RoleAdmin,
		IsApproved:     true,
	}
	if err := h.members.Create(c.Request.Context(), creatorMembership); err != nil {
		response.Abort(c, response.NotImplemented("Error creating project"))
		return
	}

	response.OK(c, http.StatusOK, project, "Project Successfully Created")
}

type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}
	if req.Name == "" && req.Description == "" {
		response.Abort(c, response.BadRequest("Either Name or Description must be provided to update"))
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if project == nil {
		response.Abort(c, response.NotFound("No such Project Found"))
		return
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Description != "" {
		project.Description = req.Description
	}
	if err := h.projects.Save(c.Request.Context(), project); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, project, "Project Updated Successfully")
}

// Delete removes a project and everything it owns. Only the project's
// creator may delete it, regardless of other admin memberships.
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if project == nil {
		response.Abort(c, response.NotFound("No such Project Found"))
		return
	}
	if project.CreatedBy != user.ID {
		response.Abort(c, response.Forbidden("You are not authorized to delete this project"))
		return
	}

	if err := h.cascade.DeleteProject(c.Request.Context(), projectID); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, project, "Project Deleted Successfully")
}
