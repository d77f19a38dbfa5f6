// Package users is the credential store: user records plus the password
// verification routine.
package users

import (
	"context"

	"github.com/dmitrijs2005/plms/internal/server/models"
)

type Repository interface {
	// Create stores a new user. An empty ID is filled in.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetActiveUserByName returns the active user with exactly this name,
	// hash included, or common.ErrorNotFound.
	GetActiveUserByName(ctx context.Context, name string) (*models.User, error)
	// VerifyPassword reports whether candidate matches the stored hash.
	VerifyPassword(ctx context.Context, candidate, hash string) (bool, error)
}
