package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/domain/product"
)

// Compile-time check that ProductRepo implements product.Repository.
var _ product.Repository = (*ProductRepo)(nil)

var productColumns = []string{
	"id", "deletion_mark", "version",
	"created_at", "updated_at", "created_by", "updated_by",
	"name", "price", "variants",
}

// ProductRepo persists product documents. The variants column is JSONB
// holding sizes, stock counts and the student issue history.
type ProductRepo struct {
	tm *TxManager
}

// NewProductRepo creates a product repository.
func NewProductRepo(tm *TxManager) *ProductRepo {
	return &ProductRepo{tm: tm}
}

func (r *ProductRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ProductRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(productColumns...).From("products")
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	q := r.builder().
		Insert("products").
		Columns(productColumns...).
		Values(
			p.ID, p.DeletionMark, p.Version,
			p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
			p.Name, p.Price, p.Variants,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*entity.Product, error) {
	return r.get(ctx, productID, false)
}

// GetForUpdate retrieves a product with a row lock.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*entity.Product, error) {
	return r.get(ctx, productID, true)
}

func (r *ProductRepo) get(ctx context.Context, productID id.ID, forUpdate bool) (*entity.Product, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": productID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p entity.Product
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update writes the product back with optimistic version check.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	q := r.builder().
		Update("products").
		Set("deletion_mark", p.DeletionMark).
		Set("updated_at", p.UpdatedAt).
		Set("updated_by", p.UpdatedBy).
		Set("name", p.Name).
		Set("price", p.Price).
		Set("variants", p.Variants).
		Set("version", p.Version).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Lt{"version": p.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("product", p.ID.String())
	}
	return nil
}

// Delete soft-deletes a product.
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := r.builder().
		Update("products").
		Set("deletion_mark", true).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// List retrieves products with filtering.
func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) ([]*entity.Product, error) {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	q = q.OrderBy("name ASC")
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

	var products []*entity.Product
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
