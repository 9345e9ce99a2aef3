package entity

import (
	"context"
	"fmt"
	"time"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/id"
	"kitstock/internal/core/types"
)

// Product is a sellable uniform article. Its variants carry present-day
// on-hand stock, which drifts independently of any batch once allocations
// land: issues to students, corrections and further batch allocations all
// mutate it downstream.
type Product struct {
	BaseDocument

	Name  string      `db:"name" json:"name"`
	Price types.Money `db:"price" json:"price"`

	// Variants is stored as a single JSONB document.
	Variants VariantList `db:"variants" json:"variants"`
}

// ProductVariant is one (variant type, color) combination of a product.
type ProductVariant struct {
	VariantType string        `json:"variantType"`
	Color       string        `json:"color"`
	Sizes       []VariantSize `json:"sizes"`

	// IssueHistory is the product-side ledger: stock issued from this
	// product to students. It is a different log from the batch-side
	// allocation log and must never be merged with it.
	IssueHistory []StudentIssue `json:"allocationHistory,omitempty"`
}

// VariantSize tracks on-hand stock for one size of a variant.
type VariantSize struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// StudentIssue is one immutable entry in a variant's issue history:
// product stock handed to a specific student.
type StudentIssue struct {
	StudentID id.ID     `json:"studentId"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
	IssuedAt  time.Time `json:"allocatedAt"`
}

// NewProduct creates an empty product.
func NewProduct(name string, price types.Money) *Product {
	return &Product{
		BaseDocument: NewBaseDocument(),
		Name:         name,
		Price:        price,
		Variants:     VariantList{},
	}
}

// Validate checks product invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "price")
	}
	for _, v := range p.Variants {
		for _, s := range v.Sizes {
			if s.Quantity < 0 {
				return apperror.NewValidation("quantity must not be negative").
					WithDetail("variantType", v.VariantType).
					WithDetail("size", s.Size)
			}
		}
	}
	return nil
}

// FindVariant returns the first variant matching (variantType, color)
// exactly, or nil.
func (p *Product) FindVariant(variantType, color string) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].VariantType == variantType && p.Variants[i].Color == color {
			return &p.Variants[i]
		}
	}
	return nil
}

// FindSize returns the size entry with the exact label, or nil.
func (v *ProductVariant) FindSize(size string) *VariantSize {
	for i := range v.Sizes {
		if v.Sizes[i].Size == size {
			return &v.Sizes[i]
		}
	}
	return nil
}

// CurrentStock sums on-hand quantity across all variants and sizes.
func (p *Product) CurrentStock() int {
	total := 0
	for _, v := range p.Variants {
		for _, s := range v.Sizes {
			total += s.Quantity
		}
	}
	return total
}

// AddStock adds units to a variant size, creating variant or size entries
// when absent. Used when batch stock arrives at the product.
func (p *Product) AddStock(variantType, color, size string, qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}

	variant := p.FindVariant(variantType, color)
	if variant == nil {
		p.Variants = append(p.Variants, ProductVariant{
			VariantType: variantType,
			Color:       color,
		})
		variant = &p.Variants[len(p.Variants)-1]
	}

	entry := variant.FindSize(size)
	if entry == nil {
		variant.Sizes = append(variant.Sizes, VariantSize{Size: size})
		entry = &variant.Sizes[len(variant.Sizes)-1]
	}

	entry.Quantity += qty
	p.Touch()
	return nil
}

// IssueToStudent moves product stock to a student: decrements the variant
// size and appends a StudentIssue to the issue history, in one mutation.
func (p *Product) IssueToStudent(variantType, color, size string, studentID id.ID, qty int, now time.Time) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}

	variant := p.FindVariant(variantType, color)
	if variant == nil {
		return apperror.NewNotFound("product variant", fmt.Sprintf("%s/%s", variantType, color)).
			WithDetail("product_id", p.ID.String())
	}

	entry := variant.FindSize(size)
	if entry == nil {
		return apperror.NewNotFound("variant size", size).
			WithDetail("product_id", p.ID.String())
	}

	if entry.Quantity < qty {
		return apperror.NewInsufficientStock(size, qty, entry.Quantity)
	}

	entry.Quantity -= qty
	variant.IssueHistory = append(variant.IssueHistory, StudentIssue{
		StudentID: studentID,
		Size:      size,
		Quantity:  qty,
		IssuedAt:  now.UTC(),
	})

	p.Touch()
	return nil
}
