package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/procflow-io/procflow/pkg/pagination"
)

// System defines the public contract for document catalog operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Document], error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByStorageKey(ctx context.Context, key string) (*Document, error)
	FindByFilename(ctx context.Context, filename string) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
