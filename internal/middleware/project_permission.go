package middleware

import (
	"taskhive/internal/model"
	"taskhive/internal/repository"
	"taskhive/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by ProjectPermission.
const (
	MemberRoleKey = "memberRole"
	MembershipKey = "membership"
)

// ProjectPermission is the single enforcement point for project-scoped
// routes: it resolves the caller's unique membership for the :projectId
// in the URL and rejects the request unless the membership's role is in
// allowedRoles. The resolved membership is attached to the context for
// downstream rank comparisons.
func ProjectPermission(members repository.MembershipResolver, allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			response.Abort(c, response.Unauthorized("Not authenticated"))
			return
		}

		projectID, err := uuid.Parse(c.Param("projectId"))
		if err != nil {
			response.Abort(c, response.BadRequest("Invalid project id"))
			return
		}

		membership, err := members.FindByUserAndProject(c.Request.Context(), userID, projectID)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if membership == nil {
			response.Abort(c, response.NotFound("You are not a member of this project"))
			return
		}

		if _, ok := allowed[membership.Role]; !ok {
			response.Abort(c, response.Forbidden("You do not have permission to perform this action"))
			return
		}

		c.Set(MemberRoleKey, membership.Role)
		c.Set(MembershipKey, membership)
		c.Next()
	}
}

// CallerRole returns the project role resolved by ProjectPermission.
func CallerRole(c *gin.Context) string {
	if role, ok := c.Get(MemberRoleKey); ok {
		if s, ok := role.(string); ok {
			return s
		}
	}
	return ""
}

// CallerMembership returns the membership row resolved by
// ProjectPermission.
func CallerMembership(c *gin.Context) *model.ProjectMember {
	if v, ok := c.Get(MembershipKey); ok {
		if m, ok := v.(*model.ProjectMember); ok {
			return m
		}
	}
	return nil
}
