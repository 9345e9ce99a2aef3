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

func TestComposeProductFlow(t *testing.T) {
	batch := ledgerBatch()
	productID := batch.Items[0].Sizes[0].AllocationLog[0].ProductID

	student := entity.NewStudent("Amara Osei", id.New())

	product := entity.NewProduct("School Polo Shirt", types.MustMoney("8.50"))
	product.ID = productID
	product.Variants = entity.VariantList{
		{
			VariantType: "Short Sleeve",
			Color:       "White",
			Sizes:       []entity.VariantSize{{Size: "M", Quantity: 3}},
			IssueHistory: []entity.StudentIssue{
				{StudentID: student.ID, Size: "M", Quantity: 1, IssuedAt: time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC)},
				{StudentID: id.New(), Size: "M", Quantity: 2},
			},
		},
	}

	flow := ComposeProductFlow(batch, []*entity.Product{product}, []*entity.Student{student})
	require.NotNil(t, flow)

	assert.Equal(t, batch.ID, flow.Batch.ID)
	assert.Equal(t, 15, flow.Batch.TotalItems)
	assert.Equal(t, 4, flow.Batch.AllocatedItems)
	assert.Equal(t, 26.7, flow.Batch.AllocationRate)

	require.Len(t, flow.Products, 1)
	node := flow.Products[0]
	assert.Equal(t, 4, node.AllocatedFromBatch)
	assert.Equal(t, 3, node.CurrentStock)
	assert.Equal(t, 3, node.DistributedToStudents)

	require.Len(t, node.StudentAllocations, 2)
	assert.Equal(t, "Amara Osei", node.StudentAllocations[0].StudentName)
	// Issues to students that no longer resolve keep a placeholder name.
	assert.Equal(t, UnknownStudentName, node.StudentAllocations[1].StudentName)

	assert.Len(t, flow.Unallocated, 2)
}

func TestComposeProductFlow_MissingProductRecord(t *testing.T) {
	batch := ledgerBatch()

	flow := ComposeProductFlow(batch, nil, nil)
	require.NotNil(t, flow)
	require.Len(t, flow.Products, 1)

	node := flow.Products[0]
	// The name recorded in the ledger survives even without the product.
	assert.Equal(t, "School Polo Shirt", node.ProductName)
	assert.Equal(t, 4, node.AllocatedFromBatch)
	assert.Equal(t, 0, node.CurrentStock)
	assert.Equal(t, 0, node.DistributedToStudents)
	assert.Empty(t, node.StudentAllocations)
}

func TestComposeProductFlow_NoFlow(t *testing.T) {
	assert.Nil(t, ComposeProductFlow(nil, nil, nil))
	assert.Nil(t, ComposeProductFlow(entity.NewBatch("Empty"), nil, nil))
}
