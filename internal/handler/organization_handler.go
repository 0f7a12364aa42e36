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

type OrganizationHandler struct {
	orgs     repository.OrganizationRepositoryInterface
	projects repository.ProjectRepositoryInterface
	cascade  *repository.CascadeRepository
}

func NewOrganizationHandler(orgs repository.OrganizationRepositoryInterface, projects repository.ProjectRepositoryInterface, cascade *repository.CascadeRepository) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs, projects: projects, cascade: cascade}
}

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Admin     AdminInfo `json:"admin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AdminInfo struct {
	ID       string `json:"id"`
	FullName string `json:"fullname"`
}

func toOrganizationResponse(org *model.Organization, admin *model.User) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID.String(),
		Name:      org.Name,
		Admin:     AdminInfo{ID: admin.ID.String(), FullName: admin.FullName},
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

// Create registers a new organization owned by the calling user.
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Organization Name Missing", bindingErrors(err)...))
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	existing, err := h.orgs.FindByNameAndAdmin(c.Request.Context(), req.Name, user.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if existing != nil {
		response.Abort(c, response.Conflict("Organization Name already Exists"))
		return
	}

	org := &model.Organization{Name: req.Name, AdminID: user.ID}
	if err := h.orgs.Create(c.Request.Context(), org); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, toOrganizationResponse(org, user), "Organization Created")
}

// Delete cascades: memberships, notes, subtasks, tasks, projects, then
// the organization itself. Only the owning admin may call it.
func (h *OrganizationHandler) Delete(c *gin.Context) {
	orgID, apiErr := parseUUIDParam(c, "organizationId", "Invalid Organization ID format")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	org, err := h.orgs.GetByID(c.Request.Context(), orgID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if org == nil {
		response.Abort(c, response.NotFound("Organization not found"))
		return
	}
	if org.AdminID != user.ID {
		response.Abort(c, response.Forbidden("You are not authorized to delete this organization"))
		return
	}

	if err := h.cascade.DeleteOrganization(c.Request.Context(), orgID); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, toOrganizationResponse(org, user), "Organization Deleted")
}

// GetAll lists the organizations the calling user administers.
func (h *OrganizationHandler) GetAll(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	orgs, err := h.orgs.GetAllByAdmin(c.Request.Context(), user.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if len(orgs) == 0 {
		response.Abort(c, response.BadRequest("Could not find any Organizations"))
		return
	}

	out := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		out[i] = toOrganizationResponse(&orgs[i], user)
	}
	response.OK(c, http.StatusOK, out, "Organizations Fetched Successfully")
}

// GetByID returns the organization joined with its projects.
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	orgID, apiErr := parseUUIDParam(c, "organizationId", "Invalid Organization ID format")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	org, err := h.orgs.GetByIDWithAdmin(c.Request.Context(), orgID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if org == nil {
		response.Abort(c, response.NotFound("No Organization Found"))
		return
	}

	projects, err := h.projects.GetByOrganization(c.Request.Context(), orgID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"organization": toOrganizationResponse(org, &org.Admin),
		"projects":     projects,
	}, "Organization Fetched Successfully")
}

type UpdateOrganizationRequest struct {
	OrganizationID string `json:"organizationId" binding:"required,uuid"`
	Name           string `json:"name" binding:"required"`
}

// Update renames an organization; only the owning admin may call it.
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req UpdateOrganizationRequest
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
		response.Abort(c, response.NotFound("No Organization Found"))
		return
	}
	if org.AdminID != user.ID {
		response.Abort(c, response.Forbidden("You are not authorized to update this organization name"))
		return
	}

	org.Name = req.Name
	if err := h.orgs.Save(c.Request.Context(), org); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, toOrganizationResponse(org, user), "Organization Updated Successfully")
}
