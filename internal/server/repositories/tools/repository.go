// Package tools persists inventory records.
package tools

import (
	"context"
	"time"

	"github.com/dmitrijs2005/plms/internal/server/models"
)

type Repository interface {
	// List returns a page of tools, most recently updated first.
	List(ctx context.Context, limit, offset int) ([]models.Tool, error)
	Count(ctx context.Context) (int, error)
	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.Tool, error)
	// Create reports a duplicate tool number as common.ErrorAlreadyExists
	// and a dangling reference as common.ErrorValidation.
	Create(ctx context.Context, id string, t models.NewTool, now time.Time) error
	NumberExists(ctx context.Context, number string) (bool, error)
	// MissingReference returns the JSON name of the first set reference
	// without a matching row, or "".
	MissingReference(ctx context.Context, t models.NewTool) (string, error)
	// SetDocumentKey returns common.ErrorNotFound for an unknown id.
	SetDocumentKey(ctx context.Context, id, key string, now time.Time) error
}
