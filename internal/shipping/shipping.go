// Package shipping quotes the shipping line added to hosted checkout sessions.
package shipping

import (
	"context"
	"errors"
)

// ErrNoItems is returned when a quote is requested for an empty cart.
var ErrNoItems = errors.New("shipping: at least one item is required")

// Provider quotes shipping for a cart.
type Provider interface {
	Quote(ctx context.Context, params QuoteParams) (*Rate, error)
}

// QuoteParams is the cart summary a quote is based on.
type QuoteParams struct {
	SubtotalCents int64
	ItemCount     int
	Country       string
}

// Rate is a single shipping charge.
type Rate struct {
	ServiceName string
	CostCents   int64
}

// FlatRateProvider charges one flat rate, free above an optional threshold.
type FlatRateProvider struct {
	serviceName   string
	costCents     int64
	freeOverCents int64
}

// NewFlatRateProvider creates a flat-rate provider. freeOverCents <= 0 disables free shipping.
func NewFlatRateProvider(serviceName string, costCents, freeOverCents int64) *FlatRateProvider {
	if serviceName == "" {
		serviceName = "Standard Shipping"
	}
	return &FlatRateProvider{
		serviceName:   serviceName,
		costCents:     costCents,
		freeOverCents: freeOverCents,
	}
}

// Quote returns the flat rate, or zero cost when the subtotal reaches the free threshold.
func (p *FlatRateProvider) Quote(ctx context.Context, params QuoteParams) (*Rate, error) {
	if params.ItemCount <= 0 {
		return nil, ErrNoItems
	}

	cost := p.costCents
	if p.freeOverCents > 0 && params.SubtotalCents >= p.freeOverCents {
		cost = 0
	}
	return &Rate{ServiceName: p.serviceName, CostCents: cost}, nil
}
