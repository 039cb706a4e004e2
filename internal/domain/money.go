package domain

import "github.com/shopspring/decimal"

// Money converts minor units to a major-unit decimal (4399 -> 43.99).
func Money(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Cents converts a major-unit decimal to minor units, rounding half away from zero.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
