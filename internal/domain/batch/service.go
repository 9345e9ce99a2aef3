package batch

import (
	"context"
	"fmt"
	"time"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/core/tx"
	"kitstock/internal/core/types"
	"kitstock/pkg/logger"
)

// Config tunes recorder behavior.
type Config struct {
	// StrictOnce enables at-most-once recording per event key: an
	// allocation whose key already appears in the batch's log is
	// acknowledged without being appended again. Off by default;
	// recording the same payload twice then genuinely means two events.
	StrictOnce bool
}

// Service provides business operations for batches and the allocation
// recorder.
type Service struct {
	repo      Repository
	txManager tx.Manager
	archive   EventArchiver // optional
	cfg       Config
}

// NewService creates a batch service. archive may be nil.
func NewService(repo Repository, txManager tx.Manager, archive EventArchiver, cfg Config) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		archive:   archive,
		cfg:       cfg,
	}
}

// Create creates a new batch document.
func (s *Service) Create(ctx context.Context, b *entity.Batch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return fmt.Errorf("create batch: %w", err)
	}

	logger.Info(ctx, "batch created", "id", b.ID, "name", b.Name)
	return nil
}

// GetByID retrieves a batch.
func (s *Service) GetByID(ctx context.Context, batchID id.ID) (*entity.Batch, error) {
	return s.repo.GetByID(ctx, batchID)
}

// List retrieves batches with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*entity.Batch, error) {
	return s.repo.List(ctx, filter)
}

// Update writes back a modified batch.
func (s *Service) Update(ctx context.Context, b *entity.Batch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}
	b.Touch()
	return s.repo.Update(ctx, b)
}

// Delete soft-deletes a batch.
func (s *Service) Delete(ctx context.Context, batchID id.ID) error {
	return s.repo.Delete(ctx, batchID)
}

// RecordAllocation appends an allocation event to the batch's ledger.
//
// The contract is a plain boolean: false covers both not-found conditions
// (batch, item or size missing) and persistence failures, all of which are
// logged here rather than surfaced as errors; callers branch on the result.
// True means the event is durably recorded.
func (s *Service) RecordAllocation(ctx context.Context, batchID id.ID, req entity.AllocationRequest) bool {
	event, err := s.recordAllocation(ctx, batchID, req)
	if err != nil {
		logger.Warn(ctx, "allocation not recorded",
			"batch_id", batchID,
			"product_id", req.ProductID,
			"size", req.Size,
			"quantity", req.Quantity,
			"error", err,
		)
		return false
	}

	if event != nil && s.archive != nil {
		// Archive failures must not fail a recorded allocation.
		if err := s.archive.ArchiveAllocation(ctx, batchID, *event); err != nil {
			logger.Warn(ctx, "allocation archive write failed",
				"batch_id", batchID,
				"error", err,
			)
		}
	}

	logger.Info(ctx, "allocation recorded",
		"batch_id", batchID,
		"product_id", req.ProductID,
		"school_id", req.SchoolID,
		"size", req.Size,
		"quantity", req.Quantity,
	)
	return true
}

// recordAllocation runs the locked read-modify-write. The row lock
// serializes writers against the same batch; without it two concurrent
// recordings could overwrite each other's events.
func (s *Service) recordAllocation(ctx context.Context, batchID id.ID, req entity.AllocationRequest) (*entity.BatchAllocation, error) {
	var recorded *entity.BatchAllocation

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}

		if s.cfg.StrictOnce && req.EventKey != "" && b.HasEvent(req.EventKey) {
			// Already recorded under this key; acknowledge without
			// appending.
			return nil
		}

		if err := b.RecordAllocation(req, time.Now()); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, b); err != nil {
			return fmt.Errorf("persist batch: %w", err)
		}

		// The event just appended is the last entry of the matched size.
		if item := b.FindItem(req.VariantType, req.Color); item != nil {
			if size := item.FindSize(req.Size); size != nil && len(size.AllocationLog) > 0 {
				last := size.AllocationLog[len(size.AllocationLog)-1]
				recorded = &last
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return recorded, nil
}

// ReceiveStock adds units to a batch's size record.
func (s *Service) ReceiveStock(ctx context.Context, batchID id.ID, variantType, color string, price types.Money, size string, qty int) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if err := b.ReceiveStock(variantType, color, price, size, qty); err != nil {
			return err
		}
		return s.repo.Update(ctx, b)
	})
}

// ConsumeStock removes units from a batch's size record without recording an
// allocation event. Exposed for corrections and non-allocation outflows.
func (s *Service) ConsumeStock(ctx context.Context, batchID id.ID, variantType, color, size string, qty int) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if err := b.ConsumeStock(variantType, color, size, qty); err != nil {
			return err
		}
		return s.repo.Update(ctx, b)
	})
}

// AllocateFromBatch is the full allocation workflow in one transaction:
// stock leaves the batch, the ledger records the event, and the receiving
// product's on-hand stock grows. products may be nil when the caller only
// wants the batch side.
func (s *Service) AllocateFromBatch(ctx context.Context, batchID id.ID, req entity.AllocationRequest, products ProductStocker) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}

		if s.cfg.StrictOnce && req.EventKey != "" && b.HasEvent(req.EventKey) {
			return nil
		}

		if err := b.ConsumeStock(req.VariantType, req.Color, req.Size, req.Quantity); err != nil {
			return err
		}

		if err := b.RecordAllocation(req, time.Now()); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, b); err != nil {
			return fmt.Errorf("persist batch: %w", err)
		}

		if products != nil && !id.IsNil(req.ProductID) {
			if err := products.AddStock(ctx, req.ProductID, req.VariantType, req.Color, req.Size, req.Quantity); err != nil {
				return fmt.Errorf("add product stock: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "batch allocation completed",
		"batch_id", batchID,
		"product_id", req.ProductID,
		"quantity", req.Quantity,
	)
	return nil
}
