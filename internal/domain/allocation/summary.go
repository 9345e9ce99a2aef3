// Package allocation derives read-only views from the batch ledger:
// per-batch summaries, batch → product → student flows and fleet-wide
// aggregates. Everything here is pure: callers pass already-fetched
// snapshots and no function in this package touches storage or fails on
// malformed input.
package allocation

import (
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/core/types"
)

// UnknownProductKey groups log entries that predate product references.
const UnknownProductKey = "unknown"

// Summary is the derived allocation state of one batch.
type Summary struct {
	BatchID   id.ID  `json:"batchId"`
	BatchName string `json:"batchName"`

	TotalOriginal    int `json:"totalOriginal"`
	TotalAllocated   int `json:"totalAllocated"`
	TotalUnallocated int `json:"totalUnallocated"`

	AllocatedValue   types.Money `json:"allocatedValue"`
	UnallocatedValue types.Money `json:"unallocatedValue"`

	// AllocationRate is allocated/original as a percentage, one decimal.
	AllocationRate float64 `json:"allocationRate"`

	// AllocationsByProduct lists product groups in order of first
	// encounter in the ledger. It is a list, not a map.
	AllocationsByProduct []ProductGroup `json:"allocationsByProduct"`

	// UnallocatedItems lists every size row with stock still in the batch.
	UnallocatedItems []UnallocatedItem `json:"unallocatedItems"`
}

// ProductGroup aggregates a batch's allocations to one product.
type ProductGroup struct {
	// ProductID is the product's ID string, or "unknown" for legacy
	// entries without one.
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`

	TotalQuantity int             `json:"totalQuantity"`
	Allocations   []AllocationRow `json:"allocations"`
}

// AllocationRow is one ledger entry enriched with the item and size it
// belongs to.
type AllocationRow struct {
	VariantType string `json:"variantType"`
	Color       string `json:"color"`
	Size        string `json:"size"`

	entity.BatchAllocation
}

// UnallocatedItem is one size row with remaining stock.
type UnallocatedItem struct {
	BatchID     id.ID       `json:"batchId"`
	BatchName   string      `json:"batchName"`
	VariantType string      `json:"variantType"`
	Color       string      `json:"color"`
	Size        string      `json:"size"`
	Quantity    int         `json:"quantity"`
	Price       types.Money `json:"price"`
	Value       types.Money `json:"value"`
}

// SummarizeBatch folds one batch's items, sizes and allocation logs into a
// Summary. A nil batch or a batch without items yields the zero-valued
// summary; partially populated legacy records degrade to zeros, never to an
// error.
func SummarizeBatch(batch *entity.Batch) Summary {
	summary := Summary{
		AllocatedValue:       types.ZeroMoney(),
		UnallocatedValue:     types.ZeroMoney(),
		AllocationsByProduct: []ProductGroup{},
		UnallocatedItems:     []UnallocatedItem{},
	}

	if batch == nil {
		return summary
	}
	summary.BatchID = batch.ID
	summary.BatchName = batch.Name
	if len(batch.Items) == 0 {
		return summary
	}

	groupIndex := make(map[string]int)

	for _, item := range batch.Items {
		for _, size := range item.Sizes {
			quantity := size.Quantity
			allocated := size.Allocated

			// Records that predate the ledger have no explicit
			// baseline; reconstruct it the same way the recorder
			// does on first write.
			original := quantity + allocated
			if size.OriginalQuantity != nil {
				original = *size.OriginalQuantity
			}

			summary.TotalOriginal += original
			summary.TotalAllocated += allocated
			summary.TotalUnallocated += quantity

			summary.AllocatedValue = summary.AllocatedValue.Add(types.MulUnits(item.Price, allocated))
			summary.UnallocatedValue = summary.UnallocatedValue.Add(types.MulUnits(item.Price, quantity))

			if quantity > 0 {
				summary.UnallocatedItems = append(summary.UnallocatedItems, UnallocatedItem{
					BatchID:     batch.ID,
					BatchName:   batch.Name,
					VariantType: item.VariantType,
					Color:       item.Color,
					Size:        size.Size,
					Quantity:    quantity,
					Price:       item.Price,
					Value:       types.MulUnits(item.Price, quantity),
				})
			}

			for _, event := range size.AllocationLog {
				key := UnknownProductKey
				if !id.IsNil(event.ProductID) {
					key = event.ProductID.String()
				}

				idx, ok := groupIndex[key]
				if !ok {
					idx = len(summary.AllocationsByProduct)
					groupIndex[key] = idx
					summary.AllocationsByProduct = append(summary.AllocationsByProduct, ProductGroup{
						ProductID:   key,
						ProductName: event.ProductName,
					})
				}

				group := &summary.AllocationsByProduct[idx]
				group.TotalQuantity += event.Quantity
				group.Allocations = append(group.Allocations, AllocationRow{
					VariantType:     item.VariantType,
					Color:           item.Color,
					Size:            size.Size,
					BatchAllocation: event,
				})
			}
		}
	}

	summary.AllocationRate = types.AllocationRate(summary.TotalAllocated, summary.TotalOriginal)

	return summary
}
