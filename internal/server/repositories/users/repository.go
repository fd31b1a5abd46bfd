// Package users declares the repository contract for account storage.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

type Repository interface {
	// Create stores a new user and returns it with the generated ID.
	// A duplicate username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUserName looks a user up by username.
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
}
