package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/domain/order"
)

// Compile-time check that OrderRepo implements order.Repository.
var _ order.Repository = (*OrderRepo)(nil)

var orderColumns = []string{
	"id", "deletion_mark", "version",
	"created_at", "updated_at", "created_by", "updated_by",
	"number", "school_id", "status", "lines",
}

// OrderRepo persists school orders. The lines column is JSONB.
type OrderRepo struct {
	tm *TxManager
}

// NewOrderRepo creates an order repository.
func NewOrderRepo(tm *TxManager) *OrderRepo {
	return &OrderRepo{tm: tm}
}

func (r *OrderRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *OrderRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(orderColumns...).From("orders")
}

// Create inserts a new order.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	q := r.builder().
		Insert("orders").
		Columns(orderColumns...).
		Values(
			o.ID, o.DeletionMark, o.Version,
			o.CreatedAt, o.UpdatedAt, o.CreatedBy, o.UpdatedBy,
			o.Number, o.SchoolID, o.Status, o.Lines,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*entity.Order, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": orderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o entity.Order
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// Update writes the order back with optimistic version check.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	q := r.builder().
		Update("orders").
		Set("deletion_mark", o.DeletionMark).
		Set("updated_at", o.UpdatedAt).
		Set("updated_by", o.UpdatedBy).
		Set("status", o.Status).
		Set("lines", o.Lines).
		Set("version", o.Version).
		Where(squirrel.Eq{"id": o.ID}).
		Where(squirrel.Lt{"version": o.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("order", o.ID.String())
	}
	return nil
}

// List retrieves orders with filtering.
func (r *OrderRepo) List(ctx context.Context, filter order.ListFilter) ([]*entity.Order, error) {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.SchoolID != nil {
		q = q.Where(squirrel.Eq{"school_id": *filter.SchoolID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
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

	var orders []*entity.Order
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &orders, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// NextNumber reserves the next order sequence value for the year using
// UPSERT + RETURNING, so concurrent callers never observe the same value.
func (r *OrderRepo) NextNumber(ctx context.Context, year int) (int64, error) {
	var num int64
	err := r.tm.GetQuerier(ctx).QueryRow(ctx, `
        INSERT INTO sys_sequences (sequence_type, year, current_val)
        VALUES ('ORD', $1, 1)
        ON CONFLICT (sequence_type, year) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, year).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return num, nil
}
