package permissions

import (
	"github.com/taskdesk/taskdesk-api/internal/constants"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/repository"
)

// Policy answers "can actor X perform action Y on target Z". Role checks go
// through the group membership projection; the delegated-admin checks read the
// target's profile. All predicates treat a nil actor as unauthenticated and
// deny on lookup failure.
//
// The two privileged roles have structurally different scoping (global vs.
// delegated subset), so the policy stays a set of independent predicates
// rather than a single rule table.
type Policy struct {
	groups   repository.GroupRepository
	profiles repository.ProfileRepository
}

// NewPolicy creates a new Policy
func NewPolicy(groups repository.GroupRepository, profiles repository.ProfileRepository) *Policy {
	return &Policy{
		groups:   groups,
		profiles: profiles,
	}
}

func (p *Policy) inGroup(actor *models.User, groupName string) bool {
	if actor == nil {
		return false
	}
	member, err := p.groups.IsMember(actor.ID, groupName)
	if err != nil {
		return false
	}
	return member
}

// IsSuperAdmin reports whether the actor belongs to the SuperAdmin group
func (p *Policy) IsSuperAdmin(actor *models.User) bool {
	return p.inGroup(actor, constants.GroupSuperAdmin)
}

// IsAdmin reports whether the actor belongs to the Admin group
func (p *Policy) IsAdmin(actor *models.User) bool {
	return p.inGroup(actor, constants.GroupAdmin)
}

// IsUser reports whether the actor belongs to the User group
func (p *Policy) IsUser(actor *models.User) bool {
	return p.inGroup(actor, constants.GroupUser)
}

// IsAdminOrSuperAdmin reports whether the actor holds either privileged role
func (p *Policy) IsAdminOrSuperAdmin(actor *models.User) bool {
	return p.IsAdmin(actor) || p.IsSuperAdmin(actor)
}

// CanManageAccounts gates the account roster: SuperAdmin only
func (p *Policy) CanManageAccounts(actor *models.User) bool {
	return p.IsSuperAdmin(actor)
}

// CanManageTasksGlobally gates unscoped task management: SuperAdmin only
func (p *Policy) CanManageTasksGlobally(actor *models.User) bool {
	return p.IsSuperAdmin(actor)
}

// CanManageOwnScopeTasks gates the admin task panel
func (p *Policy) CanManageOwnScopeTasks(actor *models.User) bool {
	return p.IsAdminOrSuperAdmin(actor)
}

// CanAssignTaskTo reports whether the actor may create a task for the target.
// SuperAdmins may target anyone; Admins only the users delegated to them.
func (p *Policy) CanAssignTaskTo(actor *models.User, target *models.User) bool {
	if actor == nil || target == nil {
		return false
	}
	if p.IsSuperAdmin(actor) {
		return true
	}
	if p.IsAdmin(actor) {
		profile := p.profileOf(target)
		return profile != nil &&
			profile.AssignedAdminID != nil &&
			*profile.AssignedAdminID == actor.ID
	}
	return false
}

// CanViewTask reports whether the actor may see the task on the admin side
func (p *Policy) CanViewTask(actor *models.User, task *models.Task) bool {
	if actor == nil || task == nil {
		return false
	}
	if p.IsSuperAdmin(actor) {
		return true
	}
	if p.IsAdmin(actor) {
		profile, err := p.profiles.FindByUserID(task.AssignedToID)
		if err != nil {
			return false
		}
		return profile.AssignedAdminID != nil && *profile.AssignedAdminID == actor.ID
	}
	return false
}

// CanViewTaskReport restricts report access to completed tasks within scope
func (p *Policy) CanViewTaskReport(actor *models.User, task *models.Task) bool {
	return p.CanViewTask(actor, task) && task.Status == models.TaskStatusCompleted
}

// CanUpdateTaskAsPerformer allows the assignee self-service updates
func (p *Policy) CanUpdateTaskAsPerformer(actor *models.User, task *models.Task) bool {
	if actor == nil || task == nil {
		return false
	}
	return task.AssignedToID == actor.ID
}

func (p *Policy) profileOf(user *models.User) *models.Profile {
	if user.Profile != nil {
		return user.Profile
	}
	profile, err := p.profiles.FindByUserID(user.ID)
	if err != nil {
		return nil
	}
	return profile
}
