package entity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/id"
	"kitstock/internal/core/types"
)

func testBatch() *Batch {
	b := NewBatch("September Delivery")
	b.Items = ItemList{
		{
			VariantType: "Short Sleeve",
			Color:       "White",
			Price:       types.MustMoney("5.20"),
			Sizes: []SizeRecord{
				{Size: "S", Quantity: 5},
				{Size: "M", Quantity: 10},
			},
		},
		{
			VariantType: "Long Sleeve",
			Color:       "Blue",
			Price:       types.MustMoney("6.80"),
			Sizes: []SizeRecord{
				{Size: "M", Quantity: 7},
			},
		},
	}
	return b
}

func allocReq(variantType, color, size string, qty int) AllocationRequest {
	return AllocationRequest{
		ProductID:   id.New(),
		ProductName: "School Polo Shirt",
		SchoolID:    id.New(),
		SchoolName:  "Greenwood Primary",
		VariantType: variantType,
		Color:       color,
		Size:        size,
		Quantity:    qty,
	}
}

func TestRecordAllocation_BackfillsBaselineOnce(t *testing.T) {
	b := testBatch()
	now := time.Now()

	// Stock has already moved out before recording: quantity 5 means
	// 5 left after the first allocation of 3.
	size := b.Items[0].FindSize("S")
	require.NotNil(t, size)
	require.Nil(t, size.OriginalQuantity)

	err := b.RecordAllocation(allocReq("Short Sleeve", "White", "S", 3), now)
	require.NoError(t, err)

	require.NotNil(t, size.OriginalQuantity)
	assert.Equal(t, 8, *size.OriginalQuantity)
	assert.Equal(t, 3, size.Allocated)

	// A second allocation must not move the baseline.
	err = b.RecordAllocation(allocReq("Short Sleeve", "White", "S", 2), now)
	require.NoError(t, err)
	assert.Equal(t, 8, *size.OriginalQuantity)
	assert.Equal(t, 5, size.Allocated)
}

func TestRecordAllocation_LedgerInvariant(t *testing.T) {
	b := testBatch()
	now := time.Now()

	quantities := []int{3, 2, 4, 1}
	for _, qty := range quantities {
		require.NoError(t, b.RecordAllocation(allocReq("Short Sleeve", "White", "M", qty), now))

		size := b.Items[0].FindSize("M")
		require.NotNil(t, size)
		assert.Equal(t, size.Allocated, size.LoggedTotal())
	}

	size := b.Items[0].FindSize("M")
	assert.Equal(t, 10, size.Allocated)
	assert.Len(t, size.AllocationLog, 4)
}

func TestRecordAllocation_DuplicatePayloadRecordsTwice(t *testing.T) {
	b := testBatch()
	now := time.Now()
	req := allocReq("Long Sleeve", "Blue", "M", 2)

	require.NoError(t, b.RecordAllocation(req, now))
	require.NoError(t, b.RecordAllocation(req, now))

	size := b.Items[1].FindSize("M")
	assert.Len(t, size.AllocationLog, 2)
	assert.Equal(t, 4, size.Allocated)
}

func TestRecordAllocation_UnknownItemOrSize(t *testing.T) {
	b := testBatch()
	now := time.Now()

	err := b.RecordAllocation(allocReq("Hoodie", "Grey", "M", 1), now)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	err = b.RecordAllocation(allocReq("Short Sleeve", "White", "XXL", 1), now)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	// Matching is case-sensitive.
	err = b.RecordAllocation(allocReq("short sleeve", "white", "S", 1), now)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordAllocation_RejectsNonPositiveQuantity(t *testing.T) {
	b := testBatch()
	now := time.Now()

	for _, qty := range []int{0, -3} {
		err := b.RecordAllocation(allocReq("Short Sleeve", "White", "S", qty), now)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
}

func TestRecordAllocation_EventFields(t *testing.T) {
	b := testBatch()
	now := time.Date(2026, 2, 10, 9, 30, 0, 0, time.FixedZone("CET", 3600))

	req := allocReq("Short Sleeve", "White", "S", 3)
	req.EventKey = "evt-123"
	req.AllocatedBy = "u-1"
	req.AllocatedByName = "Dana Mokoena"

	require.NoError(t, b.RecordAllocation(req, now))

	size := b.Items[0].FindSize("S")
	require.Len(t, size.AllocationLog, 1)
	event := size.AllocationLog[0]

	assert.Equal(t, "evt-123", event.EventKey)
	assert.Equal(t, req.ProductID, event.ProductID)
	assert.Equal(t, req.SchoolID, event.SchoolID)
	assert.Equal(t, 3, event.Quantity)
	assert.Equal(t, now.UTC(), event.AllocatedAt)
	assert.Equal(t, "Dana Mokoena", event.AllocatedByName)

	assert.True(t, b.HasEvent("evt-123"))
	assert.False(t, b.HasEvent("evt-999"))
	assert.False(t, b.HasEvent(""))
}

func TestConsumeThenRecord_FullWorkflow(t *testing.T) {
	b := testBatch()
	now := time.Now()

	// The movement half then the bookkeeping half, as the service runs them.
	require.NoError(t, b.ConsumeStock("Short Sleeve", "White", "M", 4))
	require.NoError(t, b.RecordAllocation(allocReq("Short Sleeve", "White", "M", 4), now))

	size := b.Items[0].FindSize("M")
	assert.Equal(t, 6, size.Quantity)
	assert.Equal(t, 4, size.Allocated)
	require.NotNil(t, size.OriginalQuantity)
	assert.Equal(t, 10, *size.OriginalQuantity)
}

func TestConsumeStock_Insufficient(t *testing.T) {
	b := testBatch()

	err := b.ConsumeStock("Short Sleeve", "White", "S", 6)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 6, appErr.Details["requested"])
	assert.Equal(t, 5, appErr.Details["available"])

	// Nothing moved.
	assert.Equal(t, 5, b.Items[0].FindSize("S").Quantity)
}

func TestReceiveStock_CreatesItemAndSize(t *testing.T) {
	b := testBatch()

	require.NoError(t, b.ReceiveStock("Hoodie", "Grey", types.MustMoney("12.00"), "L", 15))

	item := b.FindItem("Hoodie", "Grey")
	require.NotNil(t, item)
	size := item.FindSize("L")
	require.NotNil(t, size)
	assert.Equal(t, 15, size.Quantity)

	// Receiving into an existing size just adds.
	require.NoError(t, b.ReceiveStock("Hoodie", "Grey", types.ZeroMoney(), "L", 5))
	assert.Equal(t, 20, size.Quantity)
}

func TestBatchValidate(t *testing.T) {
	ctx := context.Background()

	b := testBatch()
	require.NoError(t, b.Validate(ctx))

	b.Name = ""
	require.Error(t, b.Validate(ctx))

	b = testBatch()
	b.Items = append(b.Items, BatchItem{VariantType: "Short Sleeve", Color: "White"})
	require.Error(t, b.Validate(ctx))

	b = testBatch()
	b.Items[0].Sizes[0].Quantity = -1
	require.Error(t, b.Validate(ctx))
}
