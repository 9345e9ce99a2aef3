package dto

import (
	"kitstock/internal/core/apperror"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
)

// CreateOrderRequest creates a pending order for a school.
type CreateOrderRequest struct {
	SchoolID string             `json:"schoolId" binding:"required"`
	Lines    []OrderLineRequest `json:"lines" binding:"required,min=1"`
}

// OrderLineRequest is one requested item of an order.
type OrderLineRequest struct {
	VariantType string `json:"variantType" binding:"required"`
	Color       string `json:"color" binding:"required"`
	Size        string `json:"size" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// ToEntity builds a new order document from the request.
func (r CreateOrderRequest) ToEntity() (*entity.Order, error) {
	schoolID, err := id.Parse(r.SchoolID)
	if err != nil {
		return nil, apperror.NewValidation("invalid schoolId").
			WithDetail("schoolId", r.SchoolID)
	}

	lines := make(entity.OrderLineList, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, entity.OrderLine{
			VariantType: l.VariantType,
			Color:       l.Color,
			Size:        l.Size,
			Quantity:    l.Quantity,
		})
	}

	o := entity.NewOrder(schoolID)
	o.Lines = lines
	return o, nil
}

// OrderListQuery filters order listings.
type OrderListQuery struct {
	PaginationRequest
	SchoolID       string `form:"schoolId"`
	Status         string `form:"status"`
	IncludeDeleted bool   `form:"includeDeleted"`
}
