package services

import (
	"errors"
	"fmt"
	"time"

	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/permissions"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task business logic and the role-scoped task queries.
type TaskService struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	policy *permissions.Policy
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, policy *permissions.Policy) *TaskService {
	return &TaskService{
		tasks:  tasks,
		users:  users,
		policy: policy,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	AssignedToID uint64
	DueDate      *time.Time
	Status       models.TaskStatus
}

// UpdateStatusInput represents a self-service status update by the assignee
type UpdateStatusInput struct {
	Status           models.TaskStatus
	CompletionReport *string
	WorkedHours      *float64
}

// UpdateFieldsInput represents an admin-side edit of a task
type UpdateFieldsInput struct {
	Title            *string
	Description      *string
	AssignedToID     *uint64
	DueDate          *time.Time
	ClearDueDate     bool
	Status           *models.TaskStatus
	CompletionReport *string
	WorkedHours      *float64
}

// ListVisibleInput holds paging and filters for the scoped task list
type ListVisibleInput struct {
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// ListVisible returns the tasks the actor may see, most recently updated
// first. SuperAdmins see everything, Admins the tasks of their delegated
// users, everyone else only their own.
func (s *TaskService) ListVisible(actor *models.User, input ListVisibleInput) ([]models.Task, int64, error) {
	if actor == nil {
		return nil, 0, apierrors.NewAuthorizationError("")
	}

	filter := repository.TaskFilter{
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	switch {
	case s.policy.IsSuperAdmin(actor):
		// global scope, no narrowing
	case s.policy.IsAdmin(actor):
		filter.ManagedByAdminID = &actor.ID
	default:
		filter.AssignedToID = &actor.ID
	}

	tasks, total, err := s.tasks.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// Create creates a task for a target account. Admins may only target their
// delegated users; SuperAdmins anyone.
func (s *TaskService) Create(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, apierrors.NewValidationError("title", "Title is required.")
	}

	target, err := s.users.FindByID(input.AssignedToID, "Profile")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewValidationError("assigned_to", "Assignee does not exist.")
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	if !s.policy.CanAssignTaskTo(actor, target) {
		return nil, apierrors.NewAuthorizationError("You can assign tasks only to your users")
	}

	if err := validateDueDate(input.DueDate); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		AssignedToID: input.AssignedToID,
		DueDate:      input.DueDate,
		Status:       input.Status,
	}

	if task.Status == models.TaskStatusCompleted {
		if err := validateCompletion(task); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.tasks.FindByID(task.ID, "AssignedTo")
}

// Get returns a task for the admin-side detail view.
func (s *TaskService) Get(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanViewTask(actor, task) {
		return nil, apierrors.NewAuthorizationError("")
	}

	return task, nil
}

// UpdateStatus is the assignee's self-service update of status, report and
// hours. Entering COMPLETED requires a non-empty report and positive hours.
func (s *TaskService) UpdateStatus(actor *models.User, taskID uint64, input UpdateStatusInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanUpdateTaskAsPerformer(actor, task) {
		return nil, apierrors.NewAuthorizationError("You can update only your own tasks")
	}

	task.Status = input.Status
	if input.CompletionReport != nil {
		task.CompletionReport = *input.CompletionReport
	}
	if input.WorkedHours != nil {
		task.WorkedHours = input.WorkedHours
	}

	if task.Status == models.TaskStatusCompleted {
		if err := validateCompletion(task); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.tasks.FindByID(task.ID, "AssignedTo")
}

// UpdateFields is the admin-side edit, gated by the same delegated-admin
// scoping as viewing. Reassignment re-checks the assignment boundary for the
// new target.
func (s *TaskService) UpdateFields(actor *models.User, taskID uint64, input UpdateFieldsInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanViewTask(actor, task) {
		return nil, apierrors.NewAuthorizationError("")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apierrors.NewValidationError("title", "Title cannot be empty.")
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}

	if input.AssignedToID != nil && *input.AssignedToID != task.AssignedToID {
		target, err := s.users.FindByID(*input.AssignedToID, "Profile")
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierrors.NewValidationError("assigned_to", "Assignee does not exist.")
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
		if !s.policy.CanAssignTaskTo(actor, target) {
			return nil, apierrors.NewAuthorizationError("You can assign tasks only to your users")
		}
		task.AssignedToID = *input.AssignedToID
	}

	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		if err := validateDueDate(input.DueDate); err != nil {
			return nil, err
		}
		task.DueDate = input.DueDate
	}

	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.CompletionReport != nil {
		task.CompletionReport = *input.CompletionReport
	}
	if input.WorkedHours != nil {
		task.WorkedHours = input.WorkedHours
	}

	if task.Status == models.TaskStatusCompleted {
		if err := validateCompletion(task); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.tasks.FindByID(task.ID, "AssignedTo")
}

// GetReport returns a completed task for the report view. Absent tasks are
// not found, incomplete tasks are a validation failure, out-of-scope tasks a
// denial.
func (s *TaskService) GetReport(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.tasks.FindByID(taskID, "AssignedTo")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFoundError("task")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.Status != models.TaskStatusCompleted {
		return nil, apierrors.NewValidationError("status", "Report is only available for completed tasks.")
	}

	if !s.policy.CanViewTaskReport(actor, task) {
		return nil, apierrors.NewAuthorizationError("Not authorized for this task")
	}

	return task, nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFoundError("task")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// validateCompletion enforces the completion gate: a task may enter COMPLETED
// only with a non-empty report and positive worked hours.
func validateCompletion(task *models.Task) error {
	fields := map[string]string{}

	if task.CompletionReport == "" {
		fields["completion_report"] = "Required when completing a task."
	}
	if task.WorkedHours == nil || *task.WorkedHours <= 0 {
		fields["worked_hours"] = "Must be > 0 when completing a task."
	}

	if len(fields) > 0 {
		return &apierrors.ValidationError{Fields: fields}
	}
	return nil
}

func validateDueDate(due *time.Time) error {
	if due == nil {
		return nil
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if due.Before(today) {
		return apierrors.NewValidationError("due_date", "Due date cannot be in the past.")
	}
	return nil
}
