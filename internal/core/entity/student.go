package entity

import (
	"context"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/id"
)

// School is a customer school uniforms are allocated for.
type School struct {
	BaseDocument

	Name string `db:"name" json:"name"`
}

// NewSchool creates a school record.
func NewSchool(name string) *School {
	return &School{
		BaseDocument: NewBaseDocument(),
		Name:         name,
	}
}

// Validate checks school invariants.
func (s *School) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Student is a pupil receiving uniform issues. Flow composition resolves
// student display names by ID; an unknown ID degrades to a placeholder name
// rather than an error.
type Student struct {
	BaseDocument

	Name     string `db:"name" json:"name"`
	SchoolID id.ID  `db:"school_id" json:"schoolId"`
}

// NewStudent creates a student record.
func NewStudent(name string, schoolID id.ID) *Student {
	return &Student{
		BaseDocument: NewBaseDocument(),
		Name:         name,
		SchoolID:     schoolID,
	}
}

// Validate checks student invariants.
func (s *Student) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if id.IsNil(s.SchoolID) {
		return apperror.NewValidation("school is required").
			WithDetail("field", "schoolId")
	}
	return nil
}
