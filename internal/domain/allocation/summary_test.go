package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/core/types"
)

func intPtr(v int) *int { return &v }

func ledgerBatch() *entity.Batch {
	b := entity.NewBatch("August Delivery")
	b.Items = entity.ItemList{
		{
			VariantType: "Short Sleeve",
			Color:       "White",
			Price:       types.MustMoney("5.00"),
			Sizes: []entity.SizeRecord{
				{
					Size:             "M",
					Quantity:         6,
					Allocated:        4,
					OriginalQuantity: intPtr(10),
					AllocationLog: []entity.BatchAllocation{
						{
							ProductID:   id.MustParse("0191d6a0-0000-7000-8000-000000000001"),
							ProductName: "School Polo Shirt",
							Quantity:    4,
							AllocatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
						},
					},
				},
				{Size: "L", Quantity: 5},
			},
		},
	}
	return b
}

func TestSummarizeBatch(t *testing.T) {
	s := SummarizeBatch(ledgerBatch())

	assert.Equal(t, 15, s.TotalOriginal)
	assert.Equal(t, 4, s.TotalAllocated)
	assert.Equal(t, 11, s.TotalUnallocated)
	assert.Equal(t, 26.7, s.AllocationRate)

	assert.True(t, types.MustMoney("20.00").Equal(s.AllocatedValue))
	assert.True(t, types.MustMoney("55.00").Equal(s.UnallocatedValue))

	require.Len(t, s.AllocationsByProduct, 1)
	group := s.AllocationsByProduct[0]
	assert.Equal(t, "School Polo Shirt", group.ProductName)
	assert.Equal(t, 4, group.TotalQuantity)
	require.Len(t, group.Allocations, 1)
	assert.Equal(t, "M", group.Allocations[0].Size)

	// Both sizes still hold stock.
	require.Len(t, s.UnallocatedItems, 2)
	assert.Equal(t, 6, s.UnallocatedItems[0].Quantity)
	assert.True(t, types.MustMoney("30.00").Equal(s.UnallocatedItems[0].Value))
}

func TestSummarizeBatch_BaselineReconstruction(t *testing.T) {
	// Legacy records carry no explicit baseline; original falls back to
	// quantity + allocated.
	b := ledgerBatch()
	b.Items[0].Sizes[0].OriginalQuantity = nil

	s := SummarizeBatch(b)
	assert.Equal(t, 15, s.TotalOriginal)
}

func TestSummarizeBatch_UnknownProductGrouping(t *testing.T) {
	b := ledgerBatch()
	b.Items[0].Sizes[0].AllocationLog = append(b.Items[0].Sizes[0].AllocationLog,
		entity.BatchAllocation{Quantity: 2},
		entity.BatchAllocation{Quantity: 1},
	)
	b.Items[0].Sizes[0].Allocated = 7

	s := SummarizeBatch(b)
	require.Len(t, s.AllocationsByProduct, 2)
	assert.Equal(t, UnknownProductKey, s.AllocationsByProduct[1].ProductID)
	assert.Equal(t, 3, s.AllocationsByProduct[1].TotalQuantity)
}

func TestSummarizeBatch_FullyAllocatedHasNoUnallocatedRows(t *testing.T) {
	b := ledgerBatch()
	b.Items[0].Sizes[0].Quantity = 0
	b.Items[0].Sizes[1].Quantity = 0

	s := SummarizeBatch(b)
	assert.Empty(t, s.UnallocatedItems)
}

func TestSummarizeBatch_NilAndEmpty(t *testing.T) {
	s := SummarizeBatch(nil)
	assert.Equal(t, 0, s.TotalOriginal)
	assert.Equal(t, 0.0, s.AllocationRate)
	assert.NotNil(t, s.AllocationsByProduct)
	assert.NotNil(t, s.UnallocatedItems)

	empty := entity.NewBatch("Empty")
	s = SummarizeBatch(empty)
	assert.Equal(t, "Empty", s.BatchName)
	assert.Equal(t, 0.0, s.AllocationRate)
}

func TestAggregateAllocations(t *testing.T) {
	b1 := ledgerBatch()

	b2 := entity.NewBatch("September Delivery")
	b2.Items = entity.ItemList{
		{
			VariantType: "Long Sleeve",
			Color:       "Blue",
			Price:       types.MustMoney("6.00"),
			Sizes: []entity.SizeRecord{
				{Size: "S", Quantity: 0, Allocated: 5, OriginalQuantity: intPtr(5)},
			},
		},
	}

	agg := AggregateAllocations([]*entity.Batch{b1, b2})

	assert.Equal(t, 2, agg.BatchCount)
	assert.Equal(t, 20, agg.TotalOriginal)
	assert.Equal(t, 9, agg.TotalAllocated)
	assert.Equal(t, 11, agg.TotalUnallocated)
	// Recomputed from summed totals, not averaged per batch.
	assert.Equal(t, 45.0, agg.AllocationRate)
	assert.True(t, types.MustMoney("50.00").Equal(agg.AllocatedValue))
	assert.Len(t, agg.UnallocatedItems, 2)
}

func TestAggregateAllocations_Empty(t *testing.T) {
	agg := AggregateAllocations(nil)
	assert.Equal(t, 0, agg.BatchCount)
	assert.Equal(t, 0.0, agg.AllocationRate)
	assert.NotNil(t, agg.UnallocatedItems)
}
