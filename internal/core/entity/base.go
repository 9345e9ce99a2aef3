// Package entity provides the persisted document shapes: batches with their
// allocation ledger, products with their issue history, students, schools
// and orders.
package entity

import (
	"time"

	"kitstock/internal/core/id"
)

// BaseDocument contains common fields for all persisted documents.
type BaseDocument struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// DeletionMark indicates a soft-deleted document
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	// Audit fields
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument creates a new BaseDocument with generated ID and timestamps.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp and increments the version.
func (b *BaseDocument) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.Version++
}

// MarkDeleted sets the deletion mark.
func (b *BaseDocument) MarkDeleted() {
	b.DeletionMark = true
}
