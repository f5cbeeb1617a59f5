package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskdesk/taskdesk-api/internal/dto"
	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/middleware"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/services"
	"github.com/taskdesk/taskdesk-api/internal/utils"
)

// TaskHandler serves both the self-service task routes and the
// Admin/SuperAdmin task panel; the role gates live in the route setup.
type TaskHandler struct {
	tasks    *services.TaskService
	accounts *services.AccountService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *services.TaskService, accounts *services.AccountService) *TaskHandler {
	return &TaskHandler{
		tasks:    tasks,
		accounts: accounts,
	}
}

// actor resolves the authenticated user for routes without a role middleware.
func (h *TaskHandler) actor(c *gin.Context) (*models.User, bool) {
	if user, exists := middleware.GetCurrentUser(c); exists {
		return user, true
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		return nil, false
	}

	user, err := h.accounts.GetUser(userID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// ListTasks returns the tasks visible to the actor: everything for a
// SuperAdmin, the delegated users' tasks for an Admin, own tasks otherwise.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListVisibleInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, ok := models.ParseTaskStatus(statusStr)
		if !ok {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	tasks, total, err := h.tasks.ListVisible(actor, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// UpdateTaskStatus is the assignee's self-service update of status, report
// and worked hours.
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateStatusRequest struct {
		Status           string   `json:"status" binding:"required"`
		CompletionReport *string  `json:"completion_report"`
		WorkedHours      *float64 `json:"worked_hours"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := models.ParseTaskStatus(req.Status)
	if !ok {
		apierrors.BadRequest(c, "Invalid status")
		return
	}

	task, err := h.tasks.UpdateStatus(actor, taskID, services.UpdateStatusInput{
		Status:           status,
		CompletionReport: req.CompletionReport,
		WorkedHours:      req.WorkedHours,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// GetTaskReport returns the completion report of a COMPLETED task within the
// actor's scope.
func (h *TaskHandler) GetTaskReport(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.tasks.GetReport(actor, taskID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskReportDTO(*task))
}

// CreateTask creates a task for a target account (Admin/SuperAdmin panel).
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title        string     `json:"title" binding:"required"`
		Description  string     `json:"description"`
		AssignedToID uint64     `json:"assigned_to_id" binding:"required"`
		DueDate      *time.Time `json:"due_date"`
		Status       string     `json:"status"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		DueDate:      req.DueDate,
	}

	if req.Status != "" {
		status, ok := models.ParseTaskStatus(req.Status)
		if !ok {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = status
	}

	task, err := h.tasks.Create(actor, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns the admin-side task detail.
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.tasks.Get(actor, taskID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask edits a task's fields (Admin/SuperAdmin panel).
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateTaskRequest struct {
		Title            *string    `json:"title"`
		Description      *string    `json:"description"`
		AssignedToID     *uint64    `json:"assigned_to_id"`
		DueDate          *time.Time `json:"due_date"`
		ClearDueDate     bool       `json:"clear_due_date"`
		Status           *string    `json:"status"`
		CompletionReport *string    `json:"completion_report"`
		WorkedHours      *float64   `json:"worked_hours"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateFieldsInput{
		Title:            req.Title,
		Description:      req.Description,
		AssignedToID:     req.AssignedToID,
		DueDate:          req.DueDate,
		ClearDueDate:     req.ClearDueDate,
		CompletionReport: req.CompletionReport,
		WorkedHours:      req.WorkedHours,
	}

	if req.Status != nil {
		status, ok := models.ParseTaskStatus(*req.Status)
		if !ok {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	task, err := h.tasks.UpdateFields(actor, taskID, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}
