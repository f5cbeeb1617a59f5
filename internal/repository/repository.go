package repository

import (
	"github.com/taskdesk/taskdesk-api/internal/models"
)

// UserRepository defines the interface for account data access
type UserRepository interface {
	// CreateWithProfile creates a user and their profile with the given role
	// within a single transaction.
	CreateWithProfile(user *models.User, role models.Role) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List retrieves all users with their profiles, ordered by username
	List() ([]models.User, error)

	// ListByRole retrieves users whose profile has the given role
	ListByRole(role models.Role) ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete hard deletes a user and cascades profile, tasks and memberships
	Delete(id uint64) error
}

// ProfileRepository defines the interface for profile data access.
// Every write re-validates the assignment invariants inside the same
// transaction before commit, so readers never observe a profile with a
// non-USER role carrying an assigned admin, or an assigned admin whose own
// role is not ADMIN.
type ProfileRepository interface {
	// EnsureForUser returns the profile for the user, creating one with the
	// default USER role when none exists. Idempotent.
	EnsureForUser(userID uint64) (*models.Profile, error)

	// FindByUserID finds a profile by the owning user's ID
	FindByUserID(userID uint64) (*models.Profile, error)

	// UpdateRole sets the role, clearing any assigned admin when the new role
	// is not USER.
	UpdateRole(userID uint64, role models.Role) (*models.Profile, error)

	// AssignAdmin sets or clears (nil) the delegated admin for a USER profile.
	AssignAdmin(userID uint64, adminID *uint64) (*models.Profile, error)
}

// GroupRepository defines the interface for the role-group membership
// projection.
type GroupRepository interface {
	// FindOrCreateByName returns the named group, creating it when missing
	FindOrCreateByName(name string) (*models.Group, error)

	// EnsureGroups creates any of the named groups that do not exist yet
	EnsureGroups(names []string) error

	// IsMember reports whether the user belongs to the named group
	IsMember(userID uint64, groupName string) (bool, error)

	// ReplaceMembership removes the user from every group in roleGroups and
	// adds them to the desired one, within a single transaction.
	ReplaceMembership(userID uint64, desired string, roleGroups []string) error

	// ListGroupNames returns the names of all groups the user belongs to
	ListGroupNames(userID uint64) ([]string, error)
}

// TaskFilter holds visibility filtering options for listing tasks
type TaskFilter struct {
	// AssignedToID restricts to tasks assigned to this user (self-service scope)
	AssignedToID *uint64

	// ManagedByAdminID restricts to tasks whose assignee is delegated to this
	// admin (delegated-subset scope)
	ManagedByAdminID *uint64

	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, most recently updated first
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists task changes atomically
	Update(task *models.Task) error
}
