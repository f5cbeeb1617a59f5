package dto

import (
	"time"

	"github.com/taskdesk/taskdesk-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	AssignedToID uint64            `json:"assigned_to_id"`
	DueDate      *time.Time        `json:"due_date"`
	Status       models.TaskStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	AssignedTo   *UserDTO          `json:"assigned_to,omitempty"`
}

// TaskReportDTO represents a completed task's report
type TaskReportDTO struct {
	ID               uint64            `json:"id"`
	Title            string            `json:"title"`
	AssignedTo       string            `json:"assigned_to"`
	Status           models.TaskStatus `json:"status"`
	CompletionReport string            `json:"completion_report"`
	WorkedHours      *float64          `json:"worked_hours"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		AssignedToID: task.AssignedToID,
		DueDate:      task.DueDate,
		Status:       task.Status,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.AssignedTo.ID != 0 {
		assignee := ToUserDTO(task.AssignedTo)
		dto.AssignedTo = &assignee
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks to TaskDTOs
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToTaskReportDTO converts a completed Task to its report representation
func ToTaskReportDTO(task models.Task) TaskReportDTO {
	return TaskReportDTO{
		ID:               task.ID,
		Title:            task.Title,
		AssignedTo:       task.AssignedTo.Username,
		Status:           task.Status,
		CompletionReport: task.CompletionReport,
		WorkedHours:      task.WorkedHours,
		UpdatedAt:        task.UpdatedAt,
	}
}
