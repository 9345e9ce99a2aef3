package allocation

import (
	"kitstock/internal/core/entity"
	"kitstock/internal/core/types"
)

// Aggregate combines allocation summaries across many batches for
// fleet-wide reporting.
type Aggregate struct {
	BatchCount int `json:"batchCount"`

	TotalOriginal    int `json:"totalOriginal"`
	TotalAllocated   int `json:"totalAllocated"`
	TotalUnallocated int `json:"totalUnallocated"`

	AllocatedValue   types.Money `json:"allocatedValue"`
	UnallocatedValue types.Money `json:"unallocatedValue"`

	// AllocationRate is recomputed from the summed totals, not averaged
	// per batch.
	AllocationRate float64 `json:"allocationRate"`

	// UnallocatedItems concatenates every batch's unallocated rows.
	UnallocatedItems []UnallocatedItem `json:"unallocatedItems"`
}

// AggregateAllocations runs the summarizer over each batch and folds the
// totals. A nil or empty batch list yields the zero aggregate.
func AggregateAllocations(batches []*entity.Batch) Aggregate {
	agg := Aggregate{
		AllocatedValue:   types.ZeroMoney(),
		UnallocatedValue: types.ZeroMoney(),
		UnallocatedItems: []UnallocatedItem{},
	}

	for _, batch := range batches {
		summary := SummarizeBatch(batch)

		agg.BatchCount++
		agg.TotalOriginal += summary.TotalOriginal
		agg.TotalAllocated += summary.TotalAllocated
		agg.TotalUnallocated += summary.TotalUnallocated
		agg.AllocatedValue = agg.AllocatedValue.Add(summary.AllocatedValue)
		agg.UnallocatedValue = agg.UnallocatedValue.Add(summary.UnallocatedValue)
		agg.UnallocatedItems = append(agg.UnallocatedItems, summary.UnallocatedItems...)
	}

	agg.AllocationRate = types.AllocationRate(agg.TotalAllocated, agg.TotalOriginal)

	return agg
}
