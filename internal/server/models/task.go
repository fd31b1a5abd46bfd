package models

import "time"

// Task statuses. "pending" tasks are picked up by the worker; "completed"
// sets CompletedAt.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusBlocked    = "blocked"
	TaskStatusCancelled  = "cancelled"
)

// DependencyTypeFinishToStart is the default edge type: the prerequisite
// must finish before the dependent task may start.
const DependencyTypeFinishToStart = "finish_to_start"

type Task struct {
	ID             int64
	ProjectID      *int64
	Title          string
	Description    string
	Status         string
	Priority       int
	AssignedTo     *string
	DueDate        *time.Time
	CompletedAt    *time.Time
	EstimatedHours *float64
	ActualHours    *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskDependency is a directed edge: TaskID depends on DependsOnID.
type TaskDependency struct {
	ID             int64
	TaskID         int64
	DependsOnID    int64
	DependencyType string
	CreatedAt      time.Time
}

// TaskFilter narrows task listings. Nil fields match everything.
type TaskFilter struct {
	ProjectID *int64
	Status    *string
}
