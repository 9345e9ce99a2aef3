package allocation

import (
	"time"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
)

// UnknownStudentName is used when an issue references a student that no
// longer resolves.
const UnknownStudentName = "Unknown Student"

// ProductFlow traces one batch's stock through the products it was allocated
// to and on to the students those products were issued to.
type ProductFlow struct {
	Batch       BatchNode         `json:"batch"`
	Products    []ProductNode     `json:"products"`
	Unallocated []UnallocatedItem `json:"unallocated"`
}

// BatchNode is the root of the flow.
type BatchNode struct {
	ID               id.ID   `json:"id"`
	Name             string  `json:"name"`
	TotalItems       int     `json:"totalItems"`
	AllocatedItems   int     `json:"allocatedItems"`
	UnallocatedItems int     `json:"unallocatedItems"`
	AllocationRate   float64 `json:"allocationRate"`
}

// ProductNode is one product that received stock from the batch, with its
// present-day position.
type ProductNode struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`

	// AllocatedFromBatch is what this batch sent to the product.
	AllocatedFromBatch int `json:"allocatedFromBatch"`

	// CurrentStock is the product's own on-hand total today. It is read
	// from the product's variants, not from the batch: stock keeps moving
	// after the allocation.
	CurrentStock int `json:"currentStock"`

	// DistributedToStudents sums the product-side issue ledger.
	DistributedToStudents int `json:"distributedToStudents"`

	StudentAllocations []StudentAllocationRow `json:"studentAllocations"`
}

// StudentAllocationRow is one product → student issue with the student name
// resolved.
type StudentAllocationRow struct {
	StudentID   id.ID     `json:"studentId"`
	StudentName string    `json:"studentName"`
	Size        string    `json:"size"`
	Quantity    int       `json:"quantity"`
	IssuedAt    time.Time `json:"allocatedAt"`
}

// ComposeProductFlow joins a batch's allocation summary with the downstream
// product and student records. Returns nil when no flow can be computed
// (missing batch or empty items). Products absent from the passed collection
// are tolerated: their position fields stay zero.
//
// The two ledgers meet here and stay separate: AllocatedFromBatch comes from
// the batch-side allocation log, DistributedToStudents from the product-side
// issue history.
func ComposeProductFlow(batch *entity.Batch, products []*entity.Product, students []*entity.Student) *ProductFlow {
	if batch == nil || len(batch.Items) == 0 {
		return nil
	}

	summary := SummarizeBatch(batch)

	flow := &ProductFlow{
		Batch: BatchNode{
			ID:               batch.ID,
			Name:             batch.Name,
			TotalItems:       summary.TotalOriginal,
			AllocatedItems:   summary.TotalAllocated,
			UnallocatedItems: summary.TotalUnallocated,
			AllocationRate:   summary.AllocationRate,
		},
		Products:    make([]ProductNode, 0, len(summary.AllocationsByProduct)),
		Unallocated: summary.UnallocatedItems,
	}

	for _, group := range summary.AllocationsByProduct {
		node := ProductNode{
			ProductID:          group.ProductID,
			ProductName:        group.ProductName,
			AllocatedFromBatch: group.TotalQuantity,
			StudentAllocations: []StudentAllocationRow{},
		}

		if product := findProduct(products, group.ProductID); product != nil {
			node.ProductName = product.Name
			node.CurrentStock = product.CurrentStock()

			for _, variant := range product.Variants {
				for _, issue := range variant.IssueHistory {
					node.DistributedToStudents += issue.Quantity
					node.StudentAllocations = append(node.StudentAllocations, StudentAllocationRow{
						StudentID:   issue.StudentID,
						StudentName: resolveStudentName(students, issue.StudentID),
						Size:        issue.Size,
						Quantity:    issue.Quantity,
						IssuedAt:    issue.IssuedAt,
					})
				}
			}
		}

		flow.Products = append(flow.Products, node)
	}

	return flow
}

func findProduct(products []*entity.Product, productID string) *entity.Product {
	for _, p := range products {
		if p != nil && p.ID.String() == productID {
			return p
		}
	}
	return nil
}

func resolveStudentName(students []*entity.Student, studentID id.ID) string {
	for _, s := range students {
		if s != nil && s.ID == studentID {
			return s.Name
		}
	}
	return UnknownStudentName
}
