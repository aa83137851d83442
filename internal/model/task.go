package model

import "time"

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusBlocked    = "blocked"
)

var TaskStatuses = []string{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusBlocked,
}

// Task has no owner field of its own: authorization always resolves through
// the parent project's user_id.
type Task struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProjectID      uint       `gorm:"not null;index" json:"project_id"`
	AssignedTo     *uint      `json:"assigned_to"`
	Title          string     `gorm:"size:255;not null;index" json:"title"`
	Description    *string    `gorm:"type:text" json:"description"`
	Status         string     `gorm:"size:50;not null;index" json:"status"`
	Priority       string     `gorm:"size:20;not null" json:"priority"`
	DueDate        *Date      `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

type TaskStats struct {
	Total      int64 `json:"total"`
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Blocked    int64 `json:"blocked"`
}
