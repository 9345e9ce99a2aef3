package dto

import (
	"kitstock/internal/core/apperror"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/core/types"
)

// CreateBatchRequest creates a batch with its initial items.
type CreateBatchRequest struct {
	Name  string             `json:"name" binding:"required"`
	Items []BatchItemRequest `json:"items"`
}

// BatchItemRequest is one (variant type, color) entry of a batch.
type BatchItemRequest struct {
	VariantType string            `json:"variantType" binding:"required"`
	Color       string            `json:"color" binding:"required"`
	Price       types.Money       `json:"price"`
	Sizes       []SizeLineRequest `json:"sizes"`
}

// SizeLineRequest is one size line within an item.
type SizeLineRequest struct {
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// ToEntity builds a new batch document from the request.
func (r CreateBatchRequest) ToEntity() *entity.Batch {
	b := entity.NewBatch(r.Name)
	for _, item := range r.Items {
		sizes := make([]entity.SizeRecord, 0, len(item.Sizes))
		for _, s := range item.Sizes {
			sizes = append(sizes, entity.SizeRecord{Size: s.Size, Quantity: s.Quantity})
		}
		b.Items = append(b.Items, entity.BatchItem{
			VariantType: item.VariantType,
			Color:       item.Color,
			Price:       item.Price,
			Sizes:       sizes,
		})
	}
	return b
}

// UpdateBatchRequest replaces the mutable batch fields.
type UpdateBatchRequest struct {
	Name    string          `json:"name" binding:"required"`
	Items   entity.ItemList `json:"items"`
	Version int             `json:"version" binding:"required,min=1"`
}

// RecordAllocationRequest records one allocation event against a batch.
type RecordAllocationRequest struct {
	EventKey    string `json:"eventKey"`
	ProductID   string `json:"productId" binding:"required"`
	ProductName string `json:"productName"`
	SchoolID    string `json:"schoolId" binding:"required"`
	SchoolName  string `json:"schoolName"`
	VariantType string `json:"variantType" binding:"required"`
	Color       string `json:"color" binding:"required"`
	Size        string `json:"size" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// ToEntity converts the request, resolving IDs.
func (r RecordAllocationRequest) ToEntity() (entity.AllocationRequest, error) {
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return entity.AllocationRequest{}, apperror.NewValidation("invalid productId").
			WithDetail("productId", r.ProductID)
	}
	schoolID, err := id.Parse(r.SchoolID)
	if err != nil {
		return entity.AllocationRequest{}, apperror.NewValidation("invalid schoolId").
			WithDetail("schoolId", r.SchoolID)
	}

	return entity.AllocationRequest{
		EventKey:    r.EventKey,
		ProductID:   productID,
		ProductName: r.ProductName,
		SchoolID:    schoolID,
		SchoolName:  r.SchoolName,
		VariantType: r.VariantType,
		Color:       r.Color,
		Size:        r.Size,
		Quantity:    r.Quantity,
	}, nil
}

// RecordAllocationResponse carries the recorder's boolean outcome.
type RecordAllocationResponse struct {
	Recorded bool `json:"recorded"`
}

// ReceiveStockRequest adds units to a batch size line.
type ReceiveStockRequest struct {
	VariantType string      `json:"variantType" binding:"required"`
	Color       string      `json:"color" binding:"required"`
	Price       types.Money `json:"price"`
	Size        string      `json:"size" binding:"required"`
	Quantity    int         `json:"quantity" binding:"required,gt=0"`
}

// ConsumeStockRequest removes units from a batch size line.
type ConsumeStockRequest struct {
	VariantType string `json:"variantType" binding:"required"`
	Color       string `json:"color" binding:"required"`
	Size        string `json:"size" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// BatchListQuery filters batch listings.
type BatchListQuery struct {
	PaginationRequest
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"includeDeleted"`
}
