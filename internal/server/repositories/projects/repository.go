// Package projects declares the repository contract for project storage.
package projects

import (
	"context"

	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

type Repository interface {
	// Create stores a project and returns it with generated fields filled in.
	Create(ctx context.Context, project *models.Project) (*models.Project, error)

	// GetByID returns a single project or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Project, error)

	// List returns all projects ordered by priority desc, then creation time.
	List(ctx context.Context) ([]*models.Project, error)

	// Update rewrites the mutable fields and refreshes updated_at.
	// Updating an absent project yields common.ErrorNotFound.
	Update(ctx context.Context, project *models.Project) (*models.Project, error)

	// Delete removes a project; its tasks go with it via ON DELETE CASCADE.
	Delete(ctx context.Context, id int64) error
}
