// Package types provides common value types shared across domains.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// This is the preferred constructor for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panicking on error.
// Use only for constants and test fixtures.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns the zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// MulUnits multiplies a unit price by a whole-unit count.
// Uniform stock is counted in whole garments, so quantities stay int.
func MulUnits(price Money, units int) Money {
	return price.Mul(decimal.NewFromInt(int64(units)))
}

// AllocationRate returns allocated/original as a percentage rounded to one
// decimal place. A zero or negative original yields 0 rather than a division
// error.
func AllocationRate(allocated, original int) float64 {
	if original <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(allocated) * 100).
		Div(decimal.NewFromInt(int64(original))).
		Round(1)
	f, _ := rate.Float64()
	return f
}
