package handler

import (
	"fmt"
	"net/http"

	"taskhive/internal/auth"
	"taskhive/internal/config"
	"taskhive/internal/mail"
	"taskhive/internal/middleware"
	"taskhive/internal/model"
	"taskhive/internal/repository"
	"taskhive/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MemberHandler struct {
	projects repository.ProjectRepositoryInterface
	members  repository.MemberRepositoryInterface
	users    repository.UserRepositoryInterface
	mailer   mail.Mailer
	cfg      *config.Config
}

func NewMemberHandler(projects repository.ProjectRepositoryInterface, members repository.MemberRepositoryInterface, users repository.UserRepositoryInterface, mailer mail.Mailer, cfg *config.Config) *MemberHandler {
	return &MemberHandler{projects: projects, members: members, users: users, mailer: mailer, cfg: cfg}
}

type MemberInfo struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	FullName   string `json:"fullname"`
	Role       string `json:"role"`
	IsApproved bool   `json:"isApproved"`
}

func toMemberInfos(members []model.ProjectMember) []MemberInfo {
	out := make([]MemberInfo, len(members))
	for i, m := range members {
		out[i] = MemberInfo{
			ID:         m.ID.String(),
			UserID:     m.UserID.String(),
			FullName:   m.User.FullName,
			Role:       m.Role,
			IsApproved: m.IsApproved,
		}
	}
	return out
}

// GetAllProjectMembers lists the project roster with user display
// fields. Any project role may read it.
func (h *MemberHandler) GetAllProjectMembers(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id format")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	members, err := h.members.FindByProject(c.Request.Context(), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, toMemberInfos(members), "Project Members Fetched Successfully")
}

type AddMemberRequestBody struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=admin project_admin member"`
}

// AddMemberRequest mails a signed invitation token carrying the target
// user, organization, project and role. Only an admin may offer the
// admin role.
func (h *MemberHandler) AddMemberRequest(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Project Id not valid")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	var req AddMemberRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if project == nil {
		response.Abort(c, response.BadRequest("Project not found"))
		return
	}

	target, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if target == nil {
		response.Abort(c, response.BadRequest("Given user not found"))
		return
	}

	if req.Role == model.RoleAdmin && middleware.CallerRole(c) != model.RoleAdmin {
		response.Abort(c, response.Forbidden("You cannot make someone an admin"))
		return
	}

	token, err := auth.GenerateInviteToken(target.ID, project.OrganizationID, project.ID, req.Role,
		h.cfg.AccessTokenSecret, h.cfg.AccessTokenExpiry)
	if err != nil {
		response.Abort(c, err)
		return
	}

	link := fmt.Sprintf("%s/api/v1/project/addMember?token=%s&email=%s", h.cfg.FrontendBaseURL, token, target.Email)
	if err := h.mailer.SendProjectInviteEmail(target.Email, target.Username, link, project.Name); err != nil {
		response.Abort(c, response.NotImplemented("Could not send invitation email"))
		return
	}

	response.OK(c, http.StatusOK, gin.H{"email": target.Email, "username": target.Username}, "Mail Sent Successfully")
}

// AddMember redeems an invitation link. The signature and expiry of the
// token are load-bearing; a membership is only written after they
// verify, and a duplicate (user, project) row is refused.
func (h *MemberHandler) AddMember(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		response.Abort(c, response.BadRequest("Token and email is required"))
		return
	}

	claims, err := auth.ParseInviteToken(tokenStr, h.cfg.AccessTokenSecret)
	if err != nil {
		response.Abort(c, response.Unauthorized("Token invalid or expired"))
		return
	}

	member := &model.ProjectMember{
		UserID:         mustUUID(claims.UserID),
		OrganizationID: mustUUID(claims.OrganizationID),
		ProjectID:      mustUUID(claims.ProjectID),
		Role:           claims.Role,
		IsApproved:     true,
	}
	if member.UserID == uuid.Nil || member.OrganizationID == uuid.Nil || member.ProjectID == uuid.Nil {
		response.Abort(c, response.MalformedToken("Token payload is malformed"))
		return
	}

	existing, err := h.members.FindByUserAndProject(c.Request.Context(), member.UserID, member.ProjectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if existing != nil {
		response.Abort(c, response.Conflict("User is already a member of this project"))
		return
	}

	if err := h.members.Create(c.Request.Context(), member); err != nil {
		response.Abort(c, response.NotImplemented("Could not add member to project"))
		return
	}

	response.OK(c, http.StatusOK, member, "Member successfully Added")
}

// DeleteMember enforces the strict rank rule: a caller can only remove
// members strictly below their own rank, never a peer or superior.
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}
	memberID, apiErr := parseUUIDParam(c, "memberId", "Invalid Member Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	target, err := h.members.GetByIDInProject(c.Request.Context(), memberID, projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if target == nil {
		response.Abort(c, response.BadRequest("Member not Found in this project"))
		return
	}

	if model.RoleRank(middleware.CallerRole(c)) <= model.RoleRank(target.Role) {
		response.Abort(c, response.Forbidden("You cannot delete a member above or equal to your level in hierarchy"))
		return
	}

	if err := h.members.Delete(c.Request.Context(), target.ID); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, target, "Member Deleted Successfully")
}

type UpdateMemberRoleRequest struct {
	MemberID string `json:"memberId" binding:"required,uuid"`
	NewRole  string `json:"newRole" binding:"required,oneof=admin project_admin member"`
}

// UpdateMemberRole changes a member's role. Only an admin may grant the
// admin role, and the project creator's role is frozen for the
// project's lifetime regardless of caller rank.
func (h *MemberHandler) UpdateMemberRole(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid id format")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}

	if req.NewRole == model.RoleAdmin && middleware.CallerRole(c) != model.RoleAdmin {
		response.Abort(c, response.Forbidden("You must be an admin to make someone an admin"))
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

	target, err := h.members.GetByIDInProject(c.Request.Context(), mustUUID(req.MemberID), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if target == nil {
		response.Abort(c, response.BadRequest("Member not Found in this project"))
		return
	}

	if project.CreatedBy == target.UserID {
		response.Abort(c, response.Forbidden("This member is the creator of this project. Their role cannot be changed"))
		return
	}

	if err := h.members.UpdateRole(c.Request.Context(), target.ID, req.NewRole); err != nil {
		response.Abort(c, err)
		return
	}
	target.Role = req.NewRole

	response.OK(c, http.StatusOK, target, "Member Role Updated Successfully")
}
