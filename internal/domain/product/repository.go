// Package product provides the product document and its issue ledger.
package product

import (
	"context"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
)

// Repository defines storage operations for product documents.
type Repository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, productID id.ID) (*entity.Product, error)

	// GetForUpdate retrieves a product with a row lock for stock moves.
	GetForUpdate(ctx context.Context, productID id.ID) (*entity.Product, error)

	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, productID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*entity.Product, error)
}

// ListFilter narrows List results.
type ListFilter struct {
	Search         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}
