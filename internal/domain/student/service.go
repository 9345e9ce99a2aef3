package student

import (
	"context"
	"fmt"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/pkg/logger"
)

// Service provides business operations for students and schools.
type Service struct {
	students Repository
	schools  SchoolRepository
}

// NewService creates a student service.
func NewService(students Repository, schools SchoolRepository) *Service {
	return &Service{
		students: students,
		schools:  schools,
	}
}

// CreateStudent creates a student, verifying the school exists.
func (s *Service) CreateStudent(ctx context.Context, st *entity.Student) error {
	if err := st.Validate(ctx); err != nil {
		return err
	}

	if _, err := s.schools.GetByID(ctx, st.SchoolID); err != nil {
		return fmt.Errorf("resolve school: %w", err)
	}

	if err := s.students.Create(ctx, st); err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	logger.Info(ctx, "student created", "id", st.ID, "school_id", st.SchoolID)
	return nil
}

// GetStudent retrieves a student.
func (s *Service) GetStudent(ctx context.Context, studentID id.ID) (*entity.Student, error) {
	return s.students.GetByID(ctx, studentID)
}

// ListStudents retrieves students with filtering.
func (s *Service) ListStudents(ctx context.Context, filter ListFilter) ([]*entity.Student, error) {
	return s.students.List(ctx, filter)
}

// UpdateStudent writes back a modified student.
func (s *Service) UpdateStudent(ctx context.Context, st *entity.Student) error {
	if err := st.Validate(ctx); err != nil {
		return err
	}
	st.Touch()
	return s.students.Update(ctx, st)
}

// DeleteStudent soft-deletes a student.
func (s *Service) DeleteStudent(ctx context.Context, studentID id.ID) error {
	return s.students.Delete(ctx, studentID)
}

// CreateSchool creates a school.
func (s *Service) CreateSchool(ctx context.Context, sc *entity.School) error {
	if err := sc.Validate(ctx); err != nil {
		return err
	}

	if err := s.schools.Create(ctx, sc); err != nil {
		return fmt.Errorf("create school: %w", err)
	}

	logger.Info(ctx, "school created", "id", sc.ID, "name", sc.Name)
	return nil
}

// GetSchool retrieves a school.
func (s *Service) GetSchool(ctx context.Context, schoolID id.ID) (*entity.School, error) {
	return s.schools.GetByID(ctx, schoolID)
}

// ListSchools retrieves schools with filtering.
func (s *Service) ListSchools(ctx context.Context, filter ListFilter) ([]*entity.School, error) {
	return s.schools.List(ctx, filter)
}

// UpdateSchool writes back a modified school.
func (s *Service) UpdateSchool(ctx context.Context, sc *entity.School) error {
	if err := sc.Validate(ctx); err != nil {
		return err
	}
	sc.Touch()
	return s.schools.Update(ctx, sc)
}

// DeleteSchool soft-deletes a school.
func (s *Service) DeleteSchool(ctx context.Context, schoolID id.ID) error {
	return s.schools.Delete(ctx, schoolID)
}
