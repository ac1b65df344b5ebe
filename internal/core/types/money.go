// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors: daily rates like
// 2.83 and lost-item penalties like 933.33 must survive multiplication.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MoneyFromInt creates a Money value from whole currency units.
func MoneyFromInt(n int64) Money {
	return decimal.NewFromInt(n)
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MaxMoney returns the larger of a and b.
func MaxMoney(a, b Money) Money {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// MinMoney returns the smaller of a and b.
func MinMoney(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Quantity is a count of physical rental items.
//
// Scaffolding plates, props and spans are counted in whole pieces, so an
// int64 count is used directly (stored as BIGINT).
type Quantity int64

func (q Quantity) Int64() int64 { return int64(q) }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Neg() Quantity { return -q }

// Money converts a quantity to Money for rate multiplication.
func (q Quantity) Money() Money {
	return decimal.NewFromInt(int64(q))
}
