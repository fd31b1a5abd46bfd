package models

import "time"

// Project statuses. Stored as plain strings; validated at the service layer.
const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Project is the top-level grouping unit. Deleting a project removes its
// tasks (ON DELETE CASCADE).
type Project struct {
	ID          int64
	Name        string
	Description string
	Status      string
	Priority    int
	StartDate   time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
