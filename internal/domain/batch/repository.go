// Package batch provides the batch document and its allocation recorder.
package batch

import (
	"context"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
)

// Repository defines storage operations for batch documents.
type Repository interface {
	// Create inserts a new batch.
	Create(ctx context.Context, b *entity.Batch) error

	// GetByID retrieves a batch by ID.
	GetByID(ctx context.Context, batchID id.ID) (*entity.Batch, error)

	// GetForUpdate retrieves a batch with a row lock. Must be called
	// within a transaction; the recorder relies on it to serialize
	// concurrent writers against the same batch.
	GetForUpdate(ctx context.Context, batchID id.ID) (*entity.Batch, error)

	// Update writes the batch back, items included, with optimistic
	// version check.
	Update(ctx context.Context, b *entity.Batch) error

	// Delete soft-deletes a batch.
	Delete(ctx context.Context, batchID id.ID) error

	// List retrieves batches with filtering.
	List(ctx context.Context, filter ListFilter) ([]*entity.Batch, error)
}

// ListFilter narrows List results.
type ListFilter struct {
	Search         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// EventArchiver persists recorded allocation events to an append-only
// archive, outside the batch document. Archival is best-effort.
type EventArchiver interface {
	ArchiveAllocation(ctx context.Context, batchID id.ID, event entity.BatchAllocation) error
}

// ProductStocker receives the stock that an allocation sends downstream to a
// product. Implemented by the product service.
type ProductStocker interface {
	AddStock(ctx context.Context, productID id.ID, variantType, color, size string, qty int) error
}
