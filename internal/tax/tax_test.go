package tax_test

import (
	"context"
	"testing"

	"github.com/dukerupert/stitchwork/internal/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatRateCalculator(t *testing.T) {
	tests := []struct {
		name     string
		bps      int64
		subtotal int64
		shipping int64
		want     int64
	}{
		{"eight percent on subtotal and shipping", 800, 2500, 500, 240},
		{"rounds half up", 825, 4000, 0, 330},
		{"fractional cent rounds", 725, 1999, 0, 145},
		{"zero rate", 0, 4000, 599, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := tax.NewFlatRateCalculator(tt.bps)
			require.NoError(t, err)

			result, err := calc.CalculateTax(context.Background(), tax.TaxParams{
				SubtotalCents: tt.subtotal,
				ShippingCents: tt.shipping,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.TotalTaxCents)
		})
	}
}

func TestFlatRateCalculator_Invalid(t *testing.T) {
	_, err := tax.NewFlatRateCalculator(-1)
	assert.ErrorIs(t, err, tax.ErrInvalidRate)

	calc, err := tax.NewFlatRateCalculator(800)
	require.NoError(t, err)
	_, err = calc.CalculateTax(context.Background(), tax.TaxParams{SubtotalCents: -5})
	assert.ErrorIs(t, err, tax.ErrNegativeAmount)
}

func TestNoTaxCalculator(t *testing.T) {
	result, err := tax.NewNoTaxCalculator().CalculateTax(context.Background(), tax.TaxParams{SubtotalCents: 10000})
	require.NoError(t, err)
	assert.Zero(t, result.TotalTaxCents)
}
