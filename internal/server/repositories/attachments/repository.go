// Package attachments declares the repository contract for attachment
// metadata. The file bytes themselves live in object storage.
package attachments

import (
	"context"

	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

type Repository interface {
	// Create stores attachment metadata and returns it with generated
	// fields filled in.
	Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error)

	// GetByID returns a single attachment or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Attachment, error)

	// ListByTask returns a task's attachments newest first.
	ListByTask(ctx context.Context, taskID int64) ([]*models.Attachment, error)
}
