// Package tasks declares the repository contract for task storage,
// including dependency edges between tasks.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

type Repository interface {
	// Create stores a task and returns it with generated fields filled in.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// GetByID returns a single task or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Task, error)

	// List returns tasks matching the filter, newest first.
	List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)

	// Update rewrites the mutable fields and refreshes updated_at.
	Update(ctx context.Context, task *models.Task) (*models.Task, error)

	// SetStatus changes only the task status. Transitioning to "completed"
	// stamps completed_at; leaving it clears the stamp.
	SetStatus(ctx context.Context, id int64, status string) (*models.Task, error)

	// Delete removes a task and its dependent rows.
	Delete(ctx context.Context, id int64) error

	// AddDependency inserts an edge: taskID depends on dependsOnID.
	// Duplicate edges yield common.ErrorAlreadyExists.
	AddDependency(ctx context.Context, dep *models.TaskDependency) (*models.TaskDependency, error)

	// ListDependencies returns the outgoing edges of a task.
	ListDependencies(ctx context.Context, taskID int64) ([]*models.TaskDependency, error)

	// ListAllDependencies returns every edge whose dependent task is in
	// the given set. Prerequisites outside the set are included so callers
	// can see blocked tasks. Used by the worker to build the run graph.
	ListAllDependencies(ctx context.Context, taskIDs []int64) ([]*models.TaskDependency, error)

	// DeleteDependency removes one edge of a task.
	DeleteDependency(ctx context.Context, taskID, depID int64) error
}
