package constants

import "github.com/taskdesk/taskdesk-api/internal/models"

// Canonical role group names used by the membership projection.
const (
	GroupSuperAdmin = "SuperAdmin"
	GroupAdmin      = "Admin"
	GroupUser       = "User"
)

var roleToGroup = map[models.Role]string{
	models.RoleSuperAdmin: GroupSuperAdmin,
	models.RoleAdmin:      GroupAdmin,
	models.RoleUser:       GroupUser,
}

// GroupForRole maps a role to its group name. Total over the role set;
// unknown values fall back to the USER group so a membership always exists.
func GroupForRole(role models.Role) string {
	if name, ok := roleToGroup[role]; ok {
		return name
	}
	return GroupUser
}

// RoleGroupNames returns the names of all role groups.
func RoleGroupNames() []string {
	return []string{GroupSuperAdmin, GroupAdmin, GroupUser}
}
