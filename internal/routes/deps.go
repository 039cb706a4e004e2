package routes

import (
	"net/http"

	"github.com/dukerupert/stitchwork/internal/handler/admin"
	"github.com/dukerupert/stitchwork/internal/handler/storefront"
	"github.com/dukerupert/stitchwork/internal/handler/webhook"
)

// StorefrontDeps contains dependencies for customer routes
type StorefrontDeps struct {
	CheckoutHandler *storefront.CheckoutHandler
	OrderHandler    *storefront.OrderHandler

	// CheckoutRateLimit bounds session creation per user; nil disables it.
	CheckoutRateLimit func(http.Handler) http.Handler
}

// AdminDeps contains dependencies for operator routes
type AdminDeps struct {
	OrderHandler  *admin.OrderHandler
	ReportHandler *admin.ReportHandler
}

// WebhookDeps contains dependencies for webhook routes
type WebhookDeps struct {
	StripeHandler *webhook.StripeHandler
}

// OpsDeps contains dependencies for operational endpoints
type OpsDeps struct {
	Metrics http.Handler
	Health  http.HandlerFunc
}
