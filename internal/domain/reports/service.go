package reports

import (
	"context"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/id"
	"kitstock/internal/domain/allocation"
	"kitstock/internal/domain/batch"
	"kitstock/internal/domain/product"
	"kitstock/internal/domain/student"
)

// Service assembles allocation reports from stored documents.
type Service struct {
	batches  batch.Repository
	products product.Repository
	students student.Repository
}

// NewService creates a reports service.
func NewService(batches batch.Repository, products product.Repository, students student.Repository) *Service {
	return &Service{
		batches:  batches,
		products: products,
		students: students,
	}
}

// BatchSummary builds the allocation summary for a single batch.
func (s *Service) BatchSummary(ctx context.Context, batchID id.ID) (*allocation.Summary, error) {
	b, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	summary := allocation.SummarizeBatch(b)
	return &summary, nil
}

// ProductFlow builds the batch to product to student flow view for a batch.
func (s *Service) ProductFlow(ctx context.Context, batchID id.ID) (*allocation.ProductFlow, error) {
	b, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.List(ctx, product.ListFilter{})
	if err != nil {
		return nil, err
	}
	students, err := s.students.List(ctx, student.ListFilter{})
	if err != nil {
		return nil, err
	}

	flow := allocation.ComposeProductFlow(b, products, students)
	if flow == nil {
		return nil, apperror.NewNotFound("batch items", batchID.String())
	}
	return flow, nil
}

// Overview aggregates allocation summaries across all live batches.
func (s *Service) Overview(ctx context.Context) (*allocation.Aggregate, error) {
	batches, err := s.batches.List(ctx, batch.ListFilter{})
	if err != nil {
		return nil, err
	}

	agg := allocation.AggregateAllocations(batches)
	return &agg, nil
}

// UnallocatedStock lists every unallocated size line across all live batches.
func (s *Service) UnallocatedStock(ctx context.Context) ([]allocation.UnallocatedItem, error) {
	agg, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return agg.UnallocatedItems, nil
}
