// Package tax computes the flat-rate tax line added to hosted checkout sessions.
package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// Calculator defines the interface for tax calculation.
// Implementations: FlatRateCalculator, NoTaxCalculator
type Calculator interface {
	// CalculateTax returns tax in cents on the taxable amount.
	CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error)
}

// TaxParams is the taxable base of a checkout.
type TaxParams struct {
	SubtotalCents int64
	ShippingCents int64
	Country       string
}

// TaxResult contains the calculated tax amount.
type TaxResult struct {
	TotalTaxCents int64
	Rate          decimal.Decimal
	Label         string
}

// FlatRateCalculator applies one rate to subtotal plus shipping.
type FlatRateCalculator struct {
	rate  decimal.Decimal
	label string
}

// NewFlatRateCalculator creates a calculator from a rate in basis points (825 = 8.25%).
func NewFlatRateCalculator(basisPoints int64) (*FlatRateCalculator, error) {
	if basisPoints < 0 || basisPoints > 10000 {
		return nil, ErrInvalidRate
	}
	return &FlatRateCalculator{
		rate:  decimal.New(basisPoints, -4),
		label: "Sales tax",
	}, nil
}

// CalculateTax rounds half away from zero to the nearest cent.
func (c *FlatRateCalculator) CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error) {
	if params.SubtotalCents < 0 || params.ShippingCents < 0 {
		return nil, ErrNegativeAmount
	}
	base := decimal.NewFromInt(params.SubtotalCents + params.ShippingCents)
	return &TaxResult{
		TotalTaxCents: base.Mul(c.rate).Round(0).IntPart(),
		Rate:          c.rate,
		Label:         c.label,
	}, nil
}

// NoTaxCalculator always returns zero tax.
type NoTaxCalculator struct{}

// NewNoTaxCalculator creates a calculator that never charges tax.
func NewNoTaxCalculator() Calculator {
	return NoTaxCalculator{}
}

// CalculateTax returns a zero result.
func (NoTaxCalculator) CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error) {
	return &TaxResult{Rate: decimal.Zero, Label: "Sales tax"}, nil
}
