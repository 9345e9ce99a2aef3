package product

import (
	"context"
	"fmt"
	"time"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/core/tx"
	"kitstock/pkg/logger"
)

// Service provides business operations for products.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create creates a new product document.
func (s *Service) Create(ctx context.Context, p *entity.Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "id", p.ID, "name", p.Name)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*entity.Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List retrieves products with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*entity.Product, error) {
	return s.repo.List(ctx, filter)
}

// Update writes back a modified product.
func (s *Service) Update(ctx context.Context, p *entity.Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	p.Touch()
	return s.repo.Update(ctx, p)
}

// Delete soft-deletes a product.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	return s.repo.Delete(ctx, productID)
}

// AddStock adds units to a product's variant size. Called by the batch
// allocation workflow when stock arrives from a batch; reuses any open
// transaction from the caller.
func (s *Service) AddStock(ctx context.Context, productID id.ID, variantType, color, size string, qty int) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if err := p.AddStock(variantType, color, size, qty); err != nil {
			return err
		}
		return s.repo.Update(ctx, p)
	})
}

// IssueToStudent hands product stock to a student: decrements the variant
// size and appends to the product-side issue ledger, atomically.
func (s *Service) IssueToStudent(ctx context.Context, productID id.ID, variantType, color, size string, studentID id.ID, qty int) error {
	if id.IsNil(studentID) {
		return fmt.Errorf("student id is required")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if err := p.IssueToStudent(variantType, color, size, studentID, qty, time.Now()); err != nil {
			return err
		}
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock issued to student",
		"product_id", productID,
		"student_id", studentID,
		"size", size,
		"quantity", qty,
	)
	return nil
}
