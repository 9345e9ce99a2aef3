package postgres

import (
	"fmt"

	"context"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/domain/batch"
)

// Compile-time check that BatchRepo implements batch.Repository.
var _ batch.Repository = (*BatchRepo)(nil)

var batchColumns = []string{
	"id", "deletion_mark", "version",
	"created_at", "updated_at", "created_by", "updated_by",
	"name", "items",
}

// BatchRepo persists batch documents. The items column is JSONB holding the
// full item list with per-size allocation ledgers.
type BatchRepo struct {
	tm *TxManager
}

// NewBatchRepo creates a batch repository.
func NewBatchRepo(tm *TxManager) *BatchRepo {
	return &BatchRepo{tm: tm}
}

func (r *BatchRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BatchRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(batchColumns...).From("batches")
}

// Create inserts a new batch.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	q := r.builder().
		Insert("batches").
		Columns(batchColumns...).
		Values(
			b.ID, b.DeletionMark, b.Version,
			b.CreatedAt, b.UpdatedAt, b.CreatedBy, b.UpdatedBy,
			b.Name, b.Items,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID retrieves a batch by ID.
func (r *BatchRepo) GetByID(ctx context.Context, batchID id.ID) (*entity.Batch, error) {
	return r.get(ctx, batchID, false)
}

// GetForUpdate retrieves a batch with a row lock. Callers must hold an
// open transaction.
func (r *BatchRepo) GetForUpdate(ctx context.Context, batchID id.ID) (*entity.Batch, error) {
	return r.get(ctx, batchID, true)
}

func (r *BatchRepo) get(ctx context.Context, batchID id.ID, forUpdate bool) (*entity.Batch, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": batchID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b entity.Batch
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("batch", batchID.String())
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// Update writes the batch back with optimistic version check. The items
// column is replaced as a whole, matching the document write model.
func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	q := r.builder().
		Update("batches").
		Set("deletion_mark", b.DeletionMark).
		Set("updated_at", b.UpdatedAt).
		Set("updated_by", b.UpdatedBy).
		Set("name", b.Name).
		Set("items", b.Items).
		Set("version", b.Version).
		Where(squirrel.Eq{"id": b.ID}).
		// Touch() may have bumped the in-memory version more than once
		// within a single workflow; the row must still hold an older one.
		Where(squirrel.Lt{"version": b.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("batch", b.ID.String())
	}
	return nil
}

// Delete soft-deletes a batch.
func (r *BatchRepo) Delete(ctx context.Context, batchID id.ID) error {
	q := r.builder().
		Update("batches").
		Set("deletion_mark", true).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": batchID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("batch", batchID.String())
	}
	return nil
}

// List retrieves batches with filtering.
func (r *BatchRepo) List(ctx context.Context, filter batch.ListFilter) ([]*entity.Batch, error) {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	q = q.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var batches []*entity.Batch
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}
