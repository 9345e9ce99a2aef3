package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/domain/student"
)

// Compile-time checks.
var (
	_ student.Repository       = (*StudentRepo)(nil)
	_ student.SchoolRepository = (*SchoolRepo)(nil)
)

var studentColumns = []string{
	"id", "deletion_mark", "version",
	"created_at", "updated_at", "created_by", "updated_by",
	"name", "school_id",
}

var schoolColumns = []string{
	"id", "deletion_mark", "version",
	"created_at", "updated_at", "created_by", "updated_by",
	"name",
}

// StudentRepo persists students.
type StudentRepo struct {
	tm *TxManager
}

// NewStudentRepo creates a student repository.
func NewStudentRepo(tm *TxManager) *StudentRepo {
	return &StudentRepo{tm: tm}
}

func (r *StudentRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new student.
func (r *StudentRepo) Create(ctx context.Context, s *entity.Student) error {
	q := r.builder().
		Insert("students").
		Columns(studentColumns...).
		Values(
			s.ID, s.DeletionMark, s.Version,
			s.CreatedAt, s.UpdatedAt, s.CreatedBy, s.UpdatedBy,
			s.Name, s.SchoolID,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// GetByID retrieves a student by ID.
func (r *StudentRepo) GetByID(ctx context.Context, studentID id.ID) (*entity.Student, error) {
	q := r.builder().Select(studentColumns...).From("students").
		Where(squirrel.Eq{"id": studentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s entity.Student
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("student", studentID.String())
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &s, nil
}

// Update writes the student back with optimistic version check.
func (r *StudentRepo) Update(ctx context.Context, s *entity.Student) error {
	q := r.builder().
		Update("students").
		Set("deletion_mark", s.DeletionMark).
		Set("updated_at", s.UpdatedAt).
		Set("updated_by", s.UpdatedBy).
		Set("name", s.Name).
		Set("school_id", s.SchoolID).
		Set("version", s.Version).
		Where(squirrel.Eq{"id": s.ID}).
		Where(squirrel.Lt{"version": s.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("student", s.ID.String())
	}
	return nil
}

// Delete soft-deletes a student.
func (r *StudentRepo) Delete(ctx context.Context, studentID id.ID) error {
	q := r.builder().
		Update("students").
		Set("deletion_mark", true).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": studentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("student", studentID.String())
	}
	return nil
}

// List retrieves students with filtering.
func (r *StudentRepo) List(ctx context.Context, filter student.ListFilter) ([]*entity.Student, error) {
	q := r.builder().Select(studentColumns...).From("students")

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.SchoolID != nil {
		q = q.Where(squirrel.Eq{"school_id": *filter.SchoolID})
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

	var students []*entity.Student
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &students, sql, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// SchoolRepo persists schools.
type SchoolRepo struct {
	tm *TxManager
}

// NewSchoolRepo creates a school repository.
func NewSchoolRepo(tm *TxManager) *SchoolRepo {
	return &SchoolRepo{tm: tm}
}

func (r *SchoolRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new school.
func (r *SchoolRepo) Create(ctx context.Context, sc *entity.School) error {
	q := r.builder().
		Insert("schools").
		Columns(schoolColumns...).
		Values(
			sc.ID, sc.DeletionMark, sc.Version,
			sc.CreatedAt, sc.UpdatedAt, sc.CreatedBy, sc.UpdatedBy,
			sc.Name,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert school: %w", err)
	}
	return nil
}

// GetByID retrieves a school by ID.
func (r *SchoolRepo) GetByID(ctx context.Context, schoolID id.ID) (*entity.School, error) {
	q := r.builder().Select(schoolColumns...).From("schools").
		Where(squirrel.Eq{"id": schoolID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sc entity.School
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &sc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("school", schoolID.String())
		}
		return nil, fmt.Errorf("get school: %w", err)
	}
	return &sc, nil
}

// Update writes the school back with optimistic version check.
func (r *SchoolRepo) Update(ctx context.Context, sc *entity.School) error {
	q := r.builder().
		Update("schools").
		Set("deletion_mark", sc.DeletionMark).
		Set("updated_at", sc.UpdatedAt).
		Set("updated_by", sc.UpdatedBy).
		Set("name", sc.Name).
		Set("version", sc.Version).
		Where(squirrel.Eq{"id": sc.ID}).
		Where(squirrel.Lt{"version": sc.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("school", sc.ID.String())
	}
	return nil
}

// Delete soft-deletes a school.
func (r *SchoolRepo) Delete(ctx context.Context, schoolID id.ID) error {
	q := r.builder().
		Update("schools").
		Set("deletion_mark", true).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": schoolID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("school", schoolID.String())
	}
	return nil
}

// List retrieves schools with filtering.
func (r *SchoolRepo) List(ctx context.Context, filter student.ListFilter) ([]*entity.School, error) {
	q := r.builder().Select(schoolColumns...).From("schools")

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

	var schools []*entity.School
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &schools, sql, args...); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}
