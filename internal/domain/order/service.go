package order

import (
	"context"
	"fmt"
	"time"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/core/tx"
	"kitstock/pkg/logger"
)

// Service provides business operations for orders.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates an order service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create creates a pending order and assigns its number.
func (s *Service) Create(ctx context.Context, o *entity.Order) error {
	if err := o.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if o.Number == "" {
			year := time.Now().UTC().Year()
			seq, err := s.repo.NextNumber(ctx, year)
			if err != nil {
				return fmt.Errorf("generate order number: %w", err)
			}
			o.Number = fmt.Sprintf("ORD-%d-%05d", year, seq)
		}

		if err := s.repo.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		logger.Info(ctx, "order created", "id", o.ID, "number", o.Number, "school_id", o.SchoolID)
		return nil
	})
}

// GetByID retrieves an order.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*entity.Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// List retrieves orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*entity.Order, error) {
	return s.repo.List(ctx, filter)
}

// Fulfill marks an order fulfilled.
func (s *Service) Fulfill(ctx context.Context, orderID id.ID) error {
	return s.transition(ctx, orderID, entity.OrderStatusFulfilled)
}

// Cancel marks an order cancelled.
func (s *Service) Cancel(ctx context.Context, orderID id.ID) error {
	return s.transition(ctx, orderID, entity.OrderStatusCancelled)
}

func (s *Service) transition(ctx context.Context, orderID id.ID, status entity.OrderStatus) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.TransitionTo(status); err != nil {
			return err
		}
		return s.repo.Update(ctx, o)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "order status changed", "id", orderID, "status", status)
	return nil
}
