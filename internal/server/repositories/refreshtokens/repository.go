// Package refreshtokens declares the repository contract for refresh-token
// storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID expiring at now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find looks a refresh token up by its opaque token string.
	// Absent tokens yield common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token. Deleting a non-existent token is not
	// an error.
	Delete(ctx context.Context, token string) error
}
