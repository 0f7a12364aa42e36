package model

// Roles a user can hold inside a single project.
const (
	RoleAdmin        = "admin"
	RoleProjectAdmin = "project_admin"
	RoleMember       = "member"
)

// AvailableUserRoles is exposed for request validation and frontend dropdowns.
var AvailableUserRoles = []string{RoleAdmin, RoleProjectAdmin, RoleMember}

// RoleRank maps a role onto the permission hierarchy:
// member(1) < project_admin(2) < admin(3).
// Unknown roles rank below every real role.
func RoleRank(role string) int {
	switch role {
	case RoleAdmin:
		return 3
	case RoleProjectAdmin:
		return 2
	case RoleMember:
		return 1
	}
	return 0
}

// IsValidRole reports whether role is one of the known project roles.
func IsValidRole(role string) bool {
	return RoleRank(role) > 0
}
