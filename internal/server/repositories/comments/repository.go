// Package comments declares the repository contract for task comments.
package comments

import (
	"context"

	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

type Repository interface {
	// Create stores a comment and returns it with generated fields filled in.
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)

	// ListByTask returns a task's comments oldest first.
	ListByTask(ctx context.Context, taskID int64) ([]*models.Comment, error)
}
