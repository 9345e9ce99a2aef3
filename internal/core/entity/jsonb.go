package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// The nested collections (batch items, product variants, order lines) are
// persisted as single JSONB columns, mirroring the document-store layout the
// data originated in. Each list type implements sql.Scanner and
// driver.Valuer so repositories can treat the column like any other field.

func scanJSON(src any, dst any) error {
	if src == nil {
		return nil
	}

	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("unsupported source type for JSONB column: %T", src)
	}

	if len(source) == 0 {
		return nil
	}

	return json.Unmarshal(source, dst)
}

// ItemList is the JSONB column type for a batch's items.
type ItemList []BatchItem

// Scan implements sql.Scanner.
func (l *ItemList) Scan(src any) error {
	*l = nil
	return scanJSON(src, l)
}

// Value implements driver.Valuer.
func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// VariantList is the JSONB column type for a product's variants.
type VariantList []ProductVariant

// Scan implements sql.Scanner.
func (l *VariantList) Scan(src any) error {
	*l = nil
	return scanJSON(src, l)
}

// Value implements driver.Valuer.
func (l VariantList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// OrderLineList is the JSONB column type for an order's lines.
type OrderLineList []OrderLine

// Scan implements sql.Scanner.
func (l *OrderLineList) Scan(src any) error {
	*l = nil
	return scanJSON(src, l)
}

// Value implements driver.Valuer.
func (l OrderLineList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}
