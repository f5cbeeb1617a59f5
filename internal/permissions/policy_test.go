package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk-api/internal/constants"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type policyFixture struct {
	db       *gorm.DB
	policy   *Policy
	users    repository.UserRepository
	groups   repository.GroupRepository
	profiles repository.ProfileRepository
}

func newPolicyFixture(t *testing.T) *policyFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Group{},
		&models.GroupMembership{},
		&models.Task{},
	)
	require.NoError(t, err)

	groups := repository.NewGroupRepository(db)
	profiles := repository.NewProfileRepository(db)
	require.NoError(t, groups.EnsureGroups(constants.RoleGroupNames()))

	return &policyFixture{
		db:       db,
		policy:   NewPolicy(groups, profiles),
		users:    repository.NewUserRepository(db),
		groups:   groups,
		profiles: profiles,
	}
}

func (f *policyFixture) account(t *testing.T, username string, role models.Role, adminID *uint64) *models.User {
	t.Helper()

	user := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, f.users.CreateWithProfile(user, role))
	require.NoError(t, f.groups.ReplaceMembership(user.ID, constants.GroupForRole(role), constants.RoleGroupNames()))

	if adminID != nil {
		require.NoError(t, f.db.Model(&models.Profile{}).
			Where("user_id = ?", user.ID).
			Update("assigned_admin_id", *adminID).Error)
		user.Profile.AssignedAdminID = adminID
	}

	return user
}

func TestPolicyRolePredicates(t *testing.T) {
	f := newPolicyFixture(t)

	super := f.account(t, "root", models.RoleSuperAdmin, nil)
	admin := f.account(t, "admin", models.RoleAdmin, nil)
	user := f.account(t, "user", models.RoleUser, nil)

	assert.True(t, f.policy.IsSuperAdmin(super))
	assert.False(t, f.policy.IsSuperAdmin(admin))
	assert.False(t, f.policy.IsSuperAdmin(user))

	assert.True(t, f.policy.IsAdmin(admin))
	assert.False(t, f.policy.IsAdmin(super))

	assert.True(t, f.policy.IsUser(user))
	assert.False(t, f.policy.IsUser(admin))

	assert.True(t, f.policy.IsAdminOrSuperAdmin(super))
	assert.True(t, f.policy.IsAdminOrSuperAdmin(admin))
	assert.False(t, f.policy.IsAdminOrSuperAdmin(user))

	assert.True(t, f.policy.CanManageAccounts(super))
	assert.False(t, f.policy.CanManageAccounts(admin))

	assert.True(t, f.policy.CanManageTasksGlobally(super))
	assert.False(t, f.policy.CanManageTasksGlobally(admin))

	assert.True(t, f.policy.CanManageOwnScopeTasks(admin))
	assert.False(t, f.policy.CanManageOwnScopeTasks(user))
}

func TestPolicyUnauthenticatedActor(t *testing.T) {
	f := newPolicyFixture(t)

	task := &models.Task{AssignedToID: 1, Status: models.TaskStatusCompleted}

	assert.False(t, f.policy.IsSuperAdmin(nil))
	assert.False(t, f.policy.IsAdmin(nil))
	assert.False(t, f.policy.IsUser(nil))
	assert.False(t, f.policy.CanManageAccounts(nil))
	assert.False(t, f.policy.CanAssignTaskTo(nil, &models.User{ID: 1}))
	assert.False(t, f.policy.CanViewTask(nil, task))
	assert.False(t, f.policy.CanViewTaskReport(nil, task))
	assert.False(t, f.policy.CanUpdateTaskAsPerformer(nil, task))
}

func TestPolicyDelegatedScoping(t *testing.T) {
	f := newPolicyFixture(t)

	super := f.account(t, "root", models.RoleSuperAdmin, nil)
	adminA := f.account(t, "adminA", models.RoleAdmin, nil)
	adminB := f.account(t, "adminB", models.RoleAdmin, nil)
	u1 := f.account(t, "u1", models.RoleUser, &adminA.ID)
	u3 := f.account(t, "u3", models.RoleUser, &adminB.ID)

	assert.True(t, f.policy.CanAssignTaskTo(super, u3))
	assert.True(t, f.policy.CanAssignTaskTo(adminA, u1))
	assert.False(t, f.policy.CanAssignTaskTo(adminA, u3))
	assert.False(t, f.policy.CanAssignTaskTo(u1, u1))

	taskOfU1 := &models.Task{AssignedToID: u1.ID, Status: models.TaskStatusPending}
	taskOfU3 := &models.Task{AssignedToID: u3.ID, Status: models.TaskStatusCompleted}

	assert.True(t, f.policy.CanViewTask(super, taskOfU1))
	assert.True(t, f.policy.CanViewTask(adminA, taskOfU1))
	assert.False(t, f.policy.CanViewTask(adminA, taskOfU3))
	assert.False(t, f.policy.CanViewTask(u1, taskOfU1))

	// Scope alone is not enough: the task must be completed
	assert.False(t, f.policy.CanViewTaskReport(adminA, taskOfU1))
	assert.True(t, f.policy.CanViewTaskReport(adminB, taskOfU3))
	assert.False(t, f.policy.CanViewTaskReport(adminA, taskOfU3))

	assert.True(t, f.policy.CanUpdateTaskAsPerformer(u1, taskOfU1))
	assert.False(t, f.policy.CanUpdateTaskAsPerformer(u3, taskOfU1))
	assert.False(t, f.policy.CanUpdateTaskAsPerformer(adminA, taskOfU1))
}

func TestPolicyMembershipFollowsRoleChange(t *testing.T) {
	f := newPolicyFixture(t)

	user := f.account(t, "mover", models.RoleUser, nil)
	assert.True(t, f.policy.IsUser(user))
	assert.False(t, f.policy.IsAdmin(user))

	require.NoError(t, f.groups.ReplaceMembership(user.ID, constants.GroupAdmin, constants.RoleGroupNames()))

	assert.True(t, f.policy.IsAdmin(user))
	assert.False(t, f.policy.IsUser(user))
}
