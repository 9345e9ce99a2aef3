// Package id provides UUIDv7 identifiers for batches, products, students
// and every other persisted record. Time-ordered UUIDs keep B-tree inserts
// local and make "order by id" equal to "order by creation".
package id

import (
	"github.com/google/uuid"
)

// ID identifies a persisted record.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the entropy source does; fall back to V4.
		return uuid.New()
	}
	return v7
}

// Parse converts a string to an ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string to an ID, panicking on error.
// Intended for constants and test fixtures only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero-value ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
