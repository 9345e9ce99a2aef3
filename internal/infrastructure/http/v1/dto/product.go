package dto

import (
	"kitstock/internal/core/entity"
	"kitstock/internal/core/types"
)

// CreateProductRequest creates a product with optional initial variants.
type CreateProductRequest struct {
	Name     string             `json:"name" binding:"required"`
	Price    types.Money        `json:"price"`
	Variants entity.VariantList `json:"variants"`
}

// ToEntity builds a new product document from the request.
func (r CreateProductRequest) ToEntity() *entity.Product {
	p := entity.NewProduct(r.Name, r.Price)
	if len(r.Variants) > 0 {
		p.Variants = r.Variants
	}
	return p
}

// UpdateProductRequest replaces the mutable product fields.
type UpdateProductRequest struct {
	Name     string             `json:"name" binding:"required"`
	Price    types.Money        `json:"price"`
	Variants entity.VariantList `json:"variants"`
	Version  int                `json:"version" binding:"required,min=1"`
}

// IssueToStudentRequest hands product stock to a student.
type IssueToStudentRequest struct {
	StudentID   string `json:"studentId" binding:"required"`
	VariantType string `json:"variantType" binding:"required"`
	Color       string `json:"color" binding:"required"`
	Size        string `json:"size" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// ProductListQuery filters product listings.
type ProductListQuery struct {
	PaginationRequest
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"includeDeleted"`
}
