package models

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// ParseTaskStatus maps a request string onto the closed status set.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

type Task struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	Title            string     `gorm:"type:varchar(255);not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	AssignedToID     uint64     `gorm:"not null;index" json:"assigned_to_id"`
	DueDate          *time.Time `json:"due_date"`
	Status           TaskStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CompletionReport string     `gorm:"type:text" json:"completion_report,omitempty"`
	WorkedHours      *float64   `gorm:"type:decimal(6,2)" json:"worked_hours,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	AssignedTo User `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}
