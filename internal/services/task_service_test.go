package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/permissions"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
	sync    *GroupSyncService
	users   repository.UserRepository
	tasks   repository.TaskRepository

	super  *models.User
	adminA *models.User
	adminB *models.User
	u1     *models.User
	u2     *models.User
	u3     *models.User
}

// SetupTest builds the delegation fixture: adminA manages u1 and u2, adminB
// manages u3.
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Group{},
		&models.GroupMembership{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	suite.users = repository.NewUserRepository(suite.db)
	suite.tasks = repository.NewTaskRepository(suite.db)
	profiles := repository.NewProfileRepository(suite.db)
	groups := repository.NewGroupRepository(suite.db)

	policy := permissions.NewPolicy(groups, profiles)
	suite.sync = NewGroupSyncService(groups)
	suite.service = NewTaskService(suite.tasks, suite.users, policy)

	suite.Require().NoError(suite.sync.EnsureRoleGroups())

	suite.super = suite.createAccount("root", models.RoleSuperAdmin, nil)
	suite.adminA = suite.createAccount("adminA", models.RoleAdmin, nil)
	suite.adminB = suite.createAccount("adminB", models.RoleAdmin, nil)
	suite.u1 = suite.createAccount("u1", models.RoleUser, &suite.adminA.ID)
	suite.u2 = suite.createAccount("u2", models.RoleUser, &suite.adminA.ID)
	suite.u3 = suite.createAccount("u3", models.RoleUser, &suite.adminB.ID)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createAccount(username string, role models.Role, adminID *uint64) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.users.CreateWithProfile(user, role))
	suite.Require().NoError(suite.sync.SyncUserRole(user.ID, role))

	if adminID != nil {
		err := suite.db.Model(&models.Profile{}).
			Where("user_id = ?", user.ID).
			Update("assigned_admin_id", *adminID).Error
		suite.Require().NoError(err)
		user.Profile.AssignedAdminID = adminID
	}

	return user
}

func (suite *TaskServiceTestSuite) createTask(title string, assignee *models.User, status models.TaskStatus) *models.Task {
	task := &models.Task{
		Title:        title,
		Description:  "Test Description",
		AssignedToID: assignee.ID,
		Status:       status,
	}
	suite.Require().NoError(suite.tasks.Create(task))
	return task
}

func hoursPtr(h float64) *float64 { return &h }

func strPtr(s string) *string { return &s }

// --- completion gate ---

func (suite *TaskServiceTestSuite) TestUpdateStatus_CompletedRequiresReport() {
	task := suite.createTask("Feature", suite.u1, models.TaskStatusInProgress)

	_, err := suite.service.UpdateStatus(suite.u1, task.ID, UpdateStatusInput{
		Status:           models.TaskStatusCompleted,
		CompletionReport: strPtr(""),
		WorkedHours:      hoursPtr(5),
	})

	var validationErr *apierrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
	assert.Contains(suite.T(), validationErr.Fields, "completion_report")
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_CompletedRequiresPositiveHours() {
	task := suite.createTask("Feature", suite.u1, models.TaskStatusInProgress)

	_, err := suite.service.UpdateStatus(suite.u1, task.ID, UpdateStatusInput{
		Status:           models.TaskStatusCompleted,
		CompletionReport: strPtr("done"),
		WorkedHours:      hoursPtr(0),
	})

	var validationErr *apierrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
	assert.Contains(suite.T(), validationErr.Fields, "worked_hours")
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_CompletedSucceeds() {
	task := suite.createTask("Feature", suite.u1, models.TaskStatusPending)

	updated, err := suite.service.UpdateStatus(suite.u1, task.ID, UpdateStatusInput{
		Status:           models.TaskStatusCompleted,
		CompletionReport: strPtr("done"),
		WorkedHours:      hoursPtr(2.5),
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusCompleted, updated.Status)
	assert.Equal(suite.T(), "done", updated.CompletionReport)
	assert.Equal(suite.T(), 2.5, *updated.WorkedHours)
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_NonCompletedNeedsNoReport() {
	task := suite.createTask("Feature", suite.u1, models.TaskStatusPending)

	updated, err := suite.service.UpdateStatus(suite.u1, task.ID, UpdateStatusInput{
		Status: models.TaskStatusInProgress,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)
}

// --- self-service boundary ---

func (suite *TaskServiceTestSuite) TestUpdateStatus_OnlyAssignee() {
	task := suite.createTask("Feature", suite.u1, models.TaskStatusPending)

	for _, actor := range []*models.User{suite.u2, suite.adminA, suite.super} {
		_, err := suite.service.UpdateStatus(actor, task.ID, UpdateStatusInput{
			Status: models.TaskStatusInProgress,
		})

		var authzErr *apierrors.AuthorizationError
		assert.ErrorAs(suite.T(), err, &authzErr, "actor %s", actor.Username)
	}
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_TaskNotFound() {
	_, err := suite.service.UpdateStatus(suite.u1, 9999, UpdateStatusInput{
		Status: models.TaskStatusInProgress,
	})

	var notFoundErr *apierrors.NotFoundError
	assert.ErrorAs(suite.T(), err, &notFoundErr)
}

// --- creation scoping ---

func (suite *TaskServiceTestSuite) TestCreate_AdminWithinScope() {
	task, err := suite.service.Create(suite.adminA, CreateTaskInput{
		Title:        "Scoped",
		AssignedToID: suite.u1.ID,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
	assert.Equal(suite.T(), suite.u1.ID, task.AssignedToID)
}

func (suite *TaskServiceTestSuite) TestCreate_AdminOutOfScopeDenied() {
	_, err := suite.service.Create(suite.adminA, CreateTaskInput{
		Title:        "Out of scope",
		AssignedToID: suite.u3.ID,
	})

	var authzErr *apierrors.AuthorizationError
	assert.ErrorAs(suite.T(), err, &authzErr)
}

func (suite *TaskServiceTestSuite) TestCreate_UserDenied() {
	_, err := suite.service.Create(suite.u1, CreateTaskInput{
		Title:        "Nope",
		AssignedToID: suite.u2.ID,
	})

	var authzErr *apierrors.AuthorizationError
	assert.ErrorAs(suite.T(), err, &authzErr)
}

func (suite *TaskServiceTestSuite) TestCreate_SuperAdminAnyTarget() {
	_, err := suite.service.Create(suite.super, CreateTaskInput{
		Title:        "Global",
		AssignedToID: suite.u3.ID,
	})

	assert.NoError(suite.T(), err)
}

func (suite *TaskServiceTestSuite) TestCreate_PastDueDateRejected() {
	yesterday := time.Now().AddDate(0, 0, -1)

	_, err := suite.service.Create(suite.super, CreateTaskInput{
		Title:        "Late already",
		AssignedToID: suite.u1.ID,
		DueDate:      &yesterday,
	})

	var validationErr *apierrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
	assert.Contains(suite.T(), validationErr.Fields, "due_date")
}

// --- visibility scoping ---

func (suite *TaskServiceTestSuite) TestListVisible_AdminSeesOnlyDelegatedUsers() {
	suite.createTask("t1", suite.u1, models.TaskStatusPending)
	suite.createTask("t2", suite.u2, models.TaskStatusPending)
	suite.createTask("t3", suite.u3, models.TaskStatusPending)

	tasks, total, err := suite.service.ListVisible(suite.adminA, ListVisibleInput{})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(2), total)
	for _, task := range tasks {
		assert.Contains(suite.T(), []uint64{suite.u1.ID, suite.u2.ID}, task.AssignedToID)
	}
}

func (suite *TaskServiceTestSuite) TestListVisible_SuperAdminSeesAll() {
	suite.createTask("t1", suite.u1, models.TaskStatusPending)
	suite.createTask("t2", suite.u2, models.TaskStatusPending)
	suite.createTask("t3", suite.u3, models.TaskStatusPending)

	_, total, err := suite.service.ListVisible(suite.super, ListVisibleInput{})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(3), total)
}

func (suite *TaskServiceTestSuite) TestListVisible_UserSeesOwnOnly() {
	suite.createTask("t1", suite.u1, models.TaskStatusPending)
	suite.createTask("t2", suite.u2, models.TaskStatusPending)

	tasks, total, err := suite.service.ListVisible(suite.u1, ListVisibleInput{})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(1), total)
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), suite.u1.ID, tasks[0].AssignedToID)
}

func (suite *TaskServiceTestSuite) TestListVisible_Paginated() {
	suite.createTask("t1", suite.u1, models.TaskStatusPending)
	suite.createTask("t2", suite.u2, models.TaskStatusPending)
	suite.createTask("t3", suite.u3, models.TaskStatusPending)

	tasks, total, err := suite.service.ListVisible(suite.super, ListVisibleInput{Page: 1, PageSize: 2})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(3), total)
	assert.Len(suite.T(), tasks, 2)

	tasks, total, err = suite.service.ListVisible(suite.super, ListVisibleInput{Page: 2, PageSize: 2})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(3), total)
	assert.Len(suite.T(), tasks, 1)
}

func (suite *TaskServiceTestSuite) TestListVisible_Unauthenticated() {
	_, _, err := suite.service.ListVisible(nil, ListVisibleInput{})

	var authzErr *apierrors.AuthorizationError
	assert.ErrorAs(suite.T(), err, &authzErr)
}

// --- report gating ---

func (suite *TaskServiceTestSuite) completeTask(task *models.Task, assignee *models.User) {
	_, err := suite.service.UpdateStatus(assignee, task.ID, UpdateStatusInput{
		Status:           models.TaskStatusCompleted,
		CompletionReport: strPtr("all done"),
		WorkedHours:      hoursPtr(3),
	})
	suite.Require().NoError(err)
}

func (suite *TaskServiceTestSuite) TestGetReport_AdminOutOfScopeDenied() {
	task := suite.createTask("foreign", suite.u3, models.TaskStatusPending)
	suite.completeTask(task, suite.u3)

	_, err := suite.service.GetReport(suite.adminA, task.ID)

	var authzErr *apierrors.AuthorizationError
	assert.ErrorAs(suite.T(), err, &authzErr)
}

func (suite *TaskServiceTestSuite) TestGetReport_PendingTaskRejected() {
	task := suite.createTask("pending", suite.u1, models.TaskStatusPending)

	_, err := suite.service.GetReport(suite.adminA, task.ID)

	var validationErr *apierrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
}

func (suite *TaskServiceTestSuite) TestGetReport_WithinScope() {
	task := suite.createTask("done", suite.u1, models.TaskStatusPending)
	suite.completeTask(task, suite.u1)

	report, err := suite.service.GetReport(suite.adminA, task.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "all done", report.CompletionReport)
	assert.Equal(suite.T(), suite.u1.Username, report.AssignedTo.Username)
}

func (suite *TaskServiceTestSuite) TestGetReport_SuperAdminAnyTask() {
	task := suite.createTask("done", suite.u3, models.TaskStatusPending)
	suite.completeTask(task, suite.u3)

	_, err := suite.service.GetReport(suite.super, task.ID)
	assert.NoError(suite.T(), err)
}

func (suite *TaskServiceTestSuite) TestGetReport_NotFound() {
	_, err := suite.service.GetReport(suite.super, 4242)

	var notFoundErr *apierrors.NotFoundError
	assert.ErrorAs(suite.T(), err, &notFoundErr)
}

// --- admin-side edits ---

func (suite *TaskServiceTestSuite) TestUpdateFields_AdminOutOfScopeDenied() {
	task := suite.createTask("foreign", suite.u3, models.TaskStatusPending)

	_, err := suite.service.UpdateFields(suite.adminA, task.ID, UpdateFieldsInput{
		Title: strPtr("hijack"),
	})

	var authzErr *apierrors.AuthorizationError
	assert.ErrorAs(suite.T(), err, &authzErr)
}

func (suite *TaskServiceTestSuite) TestUpdateFields_ReassignOutOfScopeDenied() {
	task := suite.createTask("mine", suite.u1, models.TaskStatusPending)

	_, err := suite.service.UpdateFields(suite.adminA, task.ID, UpdateFieldsInput{
		AssignedToID: &suite.u3.ID,
	})

	var authzErr *apierrors.AuthorizationError
	assert.ErrorAs(suite.T(), err, &authzErr)
}

func (suite *TaskServiceTestSuite) TestUpdateFields_ReassignWithinScope() {
	task := suite.createTask("mine", suite.u1, models.TaskStatusPending)

	updated, err := suite.service.UpdateFields(suite.adminA, task.ID, UpdateFieldsInput{
		AssignedToID: &suite.u2.ID,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.u2.ID, updated.AssignedToID)
}

func (suite *TaskServiceTestSuite) TestUpdateFields_CompletionGateAppliesToAdminEdits() {
	task := suite.createTask("mine", suite.u1, models.TaskStatusPending)

	completed := models.TaskStatusCompleted
	_, err := suite.service.UpdateFields(suite.adminA, task.ID, UpdateFieldsInput{
		Status: &completed,
	})

	var validationErr *apierrors.ValidationError
	assert.ErrorAs(suite.T(), err, &validationErr)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
