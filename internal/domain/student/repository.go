// Package student provides student and school records.
package student

import (
	"context"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
)

// Repository defines storage operations for students.
type Repository interface {
	Create(ctx context.Context, s *entity.Student) error
	GetByID(ctx context.Context, studentID id.ID) (*entity.Student, error)
	Update(ctx context.Context, s *entity.Student) error
	Delete(ctx context.Context, studentID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*entity.Student, error)
}

// SchoolRepository defines storage operations for schools.
type SchoolRepository interface {
	Create(ctx context.Context, sc *entity.School) error
	GetByID(ctx context.Context, schoolID id.ID) (*entity.School, error)
	Update(ctx context.Context, sc *entity.School) error
	Delete(ctx context.Context, schoolID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*entity.School, error)
}

// ListFilter narrows List results.
type ListFilter struct {
	SchoolID       *id.ID
	Search         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}
