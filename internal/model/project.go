package model

import "time"

const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusOnHold     = "on_hold"
	ProjectStatusCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ProjectStatuses is the closed status vocabulary for projects; stats buckets
// depend on it being exhaustive.
var ProjectStatuses = []string{
	ProjectStatusPlanning,
	ProjectStatusInProgress,
	ProjectStatusCompleted,
	ProjectStatusOnHold,
	ProjectStatusCancelled,
}

var Priorities = []string{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityUrgent,
}

type Project struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Title         string     `gorm:"size:255;not null;index" json:"title"`
	Description   *string    `gorm:"type:text" json:"description"`
	ClientName    *string    `gorm:"size:100" json:"client_name"`
	Status        string     `gorm:"size:50;not null;index" json:"status"`
	Priority      string     `gorm:"size:20;not null" json:"priority"`
	StartDate     *Date      `json:"start_date"`
	EndDate       *Date      `json:"end_date"`
	Budget        *float64   `json:"budget"`
	RepositoryURL *string    `gorm:"size:500" json:"repository_url"`
	DemoURL       *string    `gorm:"size:500" json:"demo_url"`
	TechStack     []string   `gorm:"serializer:json" json:"tech_stack"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

type ProjectStats struct {
	Total      int64 `json:"total"`
	Planning   int64 `json:"planning"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	OnHold     int64 `json:"on_hold"`
	Cancelled  int64 `json:"cancelled"`
}
