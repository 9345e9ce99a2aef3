package entity

import (
	"context"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/id"
)

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a school's request for uniform stock.
type Order struct {
	BaseDocument

	Number   string      `db:"number" json:"number"`
	SchoolID id.ID       `db:"school_id" json:"schoolId"`
	Status   OrderStatus `db:"status" json:"status"`

	// Lines is stored as a single JSONB document.
	Lines OrderLineList `db:"lines" json:"lines"`
}

// OrderLine is one requested (variant type, color, size) row.
type OrderLine struct {
	VariantType string `json:"variantType"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
}

// NewOrder creates a pending order.
func NewOrder(schoolID id.ID) *Order {
	return &Order{
		BaseDocument: NewBaseDocument(),
		SchoolID:     schoolID,
		Status:       OrderStatusPending,
		Lines:        OrderLineList{},
	}
}

// Validate checks order invariants.
func (o *Order) Validate(ctx context.Context) error {
	if id.IsNil(o.SchoolID) {
		return apperror.NewValidation("school is required").
			WithDetail("field", "schoolId")
	}
	if len(o.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	for i, line := range o.Lines {
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}

// TransitionTo moves the order to a new status, rejecting transitions out of
// a terminal state.
func (o *Order) TransitionTo(status OrderStatus) error {
	if o.Status == OrderStatusFulfilled || o.Status == OrderStatusCancelled {
		return apperror.NewBusinessRule(
			apperror.CodeConflict,
			"order is already closed",
		).WithDetail("order_id", o.ID.String()).WithDetail("status", string(o.Status))
	}

	switch status {
	case OrderStatusPending, OrderStatusFulfilled, OrderStatusCancelled:
		o.Status = status
		o.Touch()
		return nil
	default:
		return apperror.NewValidation("unknown order status").
			WithDetail("status", string(status))
	}
}
