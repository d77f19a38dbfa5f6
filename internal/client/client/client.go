package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/plms/internal/client/models"
)

// Client is the PLMS API surface the CLI uses. The session lives in a
// cookie held by the implementation.
type Client interface {
	Login(ctx context.Context, name, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	ListTools(ctx context.Context, limit, offset int) (*models.ToolPage, error)
	CreateTool(ctx context.Context, t models.NewTool) (*models.Tool, error)
	// UploadDocument asks the server for a presigned URL, sends body
	// straight to object storage and then attaches the stored key to the
	// tool.
	UploadDocument(ctx context.Context, toolID string, body io.Reader, size int64) (string, error)
	DocumentLink(ctx context.Context, toolID string) (*models.DocumentLink, error)
}
