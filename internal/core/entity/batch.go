package entity

import (
	"context"
	"fmt"
	"time"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/id"
	"kitstock/internal/core/types"
)

// Batch is a warehouse receipt of uniform stock. Its Items collection is the
// sole mutable surface for allocation bookkeeping: every unit that leaves the
// batch is accounted for in the per-size ledger below.
type Batch struct {
	BaseDocument

	Name string `db:"name" json:"name"`

	// Items is stored as a single JSONB document, read and written whole.
	Items ItemList `db:"items" json:"items"`
}

// BatchItem is one (variant type, color) combination within a batch.
// The pair is unique within the batch and matched exactly, case-sensitive.
type BatchItem struct {
	VariantType string       `json:"variantType"`
	Color       string       `json:"color"`
	Price       types.Money  `json:"price"`
	Sizes       []SizeRecord `json:"sizes"`
}

// SizeRecord is the leaf of the ledger, keyed by size label within an item.
//
// Quantity is the stock still sitting in the batch. It is moved by receiving
// and consumption workflows, never by the allocation recorder: the recorder
// only keeps the books.
//
// OriginalQuantity is the pre-allocation baseline. It is back-filled on the
// first recorded allocation as quantity + that allocation, and once set is
// never overwritten.
type SizeRecord struct {
	Size             string            `json:"size"`
	Quantity         int               `json:"quantity"`
	Allocated        int               `json:"allocated,omitempty"`
	OriginalQuantity *int              `json:"originalQuantity,omitempty"`
	AllocationLog    []BatchAllocation `json:"allocationLog,omitempty"`
}

// BatchAllocation is one immutable entry in a size's allocation log: batch
// stock assigned to a product for a school. There is no retraction; the log
// only grows.
//
// This is the batch-side ledger. The product-side ledger (product → student)
// is the distinctly-typed StudentIssue on ProductVariant; the two must never
// be conflated.
type BatchAllocation struct {
	// EventKey is an optional idempotency key. Empty for legacy events.
	EventKey string `json:"eventKey,omitempty"`

	ProductID   id.ID  `json:"productId"`
	ProductName string `json:"productName"`
	SchoolID    id.ID  `json:"schoolId"`
	SchoolName  string `json:"schoolName"`

	Quantity int `json:"quantityAllocated"`

	AllocatedAt     time.Time `json:"allocatedAt"`
	AllocatedBy     string    `json:"allocatedBy"`
	AllocatedByName string    `json:"allocatedByName"`
}

// AllocationRequest describes one allocation to record against a batch.
type AllocationRequest struct {
	// EventKey enables at-most-once recording when the service runs with
	// strict-once semantics. Ignored otherwise.
	EventKey string `json:"eventKey,omitempty"`

	ProductID   id.ID  `json:"productId"`
	ProductName string `json:"productName"`
	SchoolID    id.ID  `json:"schoolId"`
	SchoolName  string `json:"schoolName"`

	VariantType string `json:"variantType"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`

	AllocatedBy     string `json:"allocatedBy"`
	AllocatedByName string `json:"allocatedByName"`
}

// NewBatch creates an empty batch.
func NewBatch(name string) *Batch {
	return &Batch{
		BaseDocument: NewBaseDocument(),
		Name:         name,
		Items:        ItemList{},
	}
}

// Validate checks batch invariants: a name, and no duplicate
// (variant type, color) pairs.
func (b *Batch) Validate(ctx context.Context) error {
	if b.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	seen := make(map[string]struct{}, len(b.Items))
	for i, item := range b.Items {
		key := item.VariantType + "\x00" + item.Color
		if _, dup := seen[key]; dup {
			return apperror.NewValidation("duplicate variant/color pair").
				WithDetail("variantType", item.VariantType).
				WithDetail("color", item.Color)
		}
		seen[key] = struct{}{}

		for _, size := range item.Sizes {
			if size.Quantity < 0 {
				return apperror.NewValidation("quantity must not be negative").
					WithDetail("item", i).
					WithDetail("size", size.Size)
			}
		}
	}

	return nil
}

// FindItem returns the first item matching (variantType, color) exactly,
// or nil. Matching is case-sensitive as originally recorded.
func (b *Batch) FindItem(variantType, color string) *BatchItem {
	for i := range b.Items {
		if b.Items[i].VariantType == variantType && b.Items[i].Color == color {
			return &b.Items[i]
		}
	}
	return nil
}

// FindSize returns the size record with the exact label, or nil.
func (it *BatchItem) FindSize(size string) *SizeRecord {
	for i := range it.Sizes {
		if it.Sizes[i].Size == size {
			return &it.Sizes[i]
		}
	}
	return nil
}

// LoggedTotal sums the quantities of all log entries. The ledger invariant
// is Allocated == LoggedTotal at all times.
func (s *SizeRecord) LoggedTotal() int {
	total := 0
	for _, e := range s.AllocationLog {
		total += e.Quantity
	}
	return total
}

// HasEvent reports whether any log entry across the batch carries the key.
func (b *Batch) HasEvent(key string) bool {
	if key == "" {
		return false
	}
	for i := range b.Items {
		for j := range b.Items[i].Sizes {
			for _, e := range b.Items[i].Sizes[j].AllocationLog {
				if e.EventKey == key {
					return true
				}
			}
		}
	}
	return false
}

// RecordAllocation appends an allocation event to the matching size record
// and maintains the running counters. It does NOT move stock: Quantity is
// decremented by the consumption workflow, before or alongside this call.
//
// On the first allocation for a size the original-quantity baseline is
// back-filled as current quantity plus this allocation.
//
// Calling this twice with the same payload records two events; dedup, when
// wanted, happens above via HasEvent and event keys.
func (b *Batch) RecordAllocation(req AllocationRequest, now time.Time) error {
	if req.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", req.Quantity)
	}

	item := b.FindItem(req.VariantType, req.Color)
	if item == nil {
		return apperror.NewNotFound("batch item", fmt.Sprintf("%s/%s", req.VariantType, req.Color)).
			WithDetail("batch_id", b.ID.String())
	}

	size := item.FindSize(req.Size)
	if size == nil {
		return apperror.NewNotFound("size record", req.Size).
			WithDetail("batch_id", b.ID.String()).
			WithDetail("variantType", req.VariantType).
			WithDetail("color", req.Color)
	}

	if size.OriginalQuantity == nil {
		baseline := size.Quantity + req.Quantity
		size.OriginalQuantity = &baseline
	}

	size.Allocated += req.Quantity
	size.AllocationLog = append(size.AllocationLog, BatchAllocation{
		EventKey:        req.EventKey,
		ProductID:       req.ProductID,
		ProductName:     req.ProductName,
		SchoolID:        req.SchoolID,
		SchoolName:      req.SchoolName,
		Quantity:        req.Quantity,
		AllocatedAt:     now.UTC(),
		AllocatedBy:     req.AllocatedBy,
		AllocatedByName: req.AllocatedByName,
	})

	b.Touch()
	return nil
}

// ReceiveStock adds units to a size record, creating the item or size entry
// when absent. Price applies only when the item is created.
func (b *Batch) ReceiveStock(variantType, color string, price types.Money, size string, qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}

	item := b.FindItem(variantType, color)
	if item == nil {
		b.Items = append(b.Items, BatchItem{
			VariantType: variantType,
			Color:       color,
			Price:       price,
		})
		item = &b.Items[len(b.Items)-1]
	}

	record := item.FindSize(size)
	if record == nil {
		item.Sizes = append(item.Sizes, SizeRecord{Size: size})
		record = &item.Sizes[len(item.Sizes)-1]
	}

	record.Quantity += qty
	b.Touch()
	return nil
}

// ConsumeStock removes units from a size record. This is the stock movement
// half of an allocation; the bookkeeping half is RecordAllocation.
func (b *Batch) ConsumeStock(variantType, color, size string, qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}

	item := b.FindItem(variantType, color)
	if item == nil {
		return apperror.NewNotFound("batch item", fmt.Sprintf("%s/%s", variantType, color)).
			WithDetail("batch_id", b.ID.String())
	}

	record := item.FindSize(size)
	if record == nil {
		return apperror.NewNotFound("size record", size).
			WithDetail("batch_id", b.ID.String())
	}

	if record.Quantity < qty {
		return apperror.NewInsufficientStock(size, qty, record.Quantity)
	}

	record.Quantity -= qty
	b.Touch()
	return nil
}
