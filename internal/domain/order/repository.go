// Package order provides school uniform orders.
package order

import (
	"context"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
)

// Repository defines storage operations for orders.
type Repository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, orderID id.ID) (*entity.Order, error)
	Update(ctx context.Context, o *entity.Order) error
	List(ctx context.Context, filter ListFilter) ([]*entity.Order, error)

	// NextNumber returns the next order sequence value for the year.
	NextNumber(ctx context.Context, year int) (int64, error)
}

// ListFilter narrows List results.
type ListFilter struct {
	SchoolID       *id.ID
	Status         *entity.OrderStatus
	IncludeDeleted bool
	Limit          int
	Offset         int
}
