package routes

import (
	"github.com/dukerupert/stitchwork/internal/middleware"
	"github.com/dukerupert/stitchwork/internal/router"
)

// RegisterWebhookRoutes registers gateway callbacks.
//
// Webhook routes carry no identity middleware; the handler verifies the
// Stripe signature over the raw body.
func RegisterWebhookRoutes(r *router.Router, deps WebhookDeps) {
	r.Post("/webhooks/stripe", deps.StripeHandler.HandleWebhook, middleware.MaxBodySize(middleware.WebhookMaxBodySize))
}

// RegisterOpsRoutes registers /metrics and /health.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Handle("GET", "/metrics", deps.Metrics)
	r.Get("/health", deps.Health)
}
