package routes

import (
	"github.com/dukerupert/stitchwork/internal/middleware"
	"github.com/dukerupert/stitchwork/internal/router"
)

// RegisterStorefrontRoutes registers the authenticated customer API.
// Every route requires a verified identity token.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	api := r.Group(middleware.RequireAuth, middleware.MaxBodySize(), middleware.Timeout())

	var checkoutMiddleware []router.Middleware
	if deps.CheckoutRateLimit != nil {
		checkoutMiddleware = append(checkoutMiddleware, deps.CheckoutRateLimit)
	}
	api.Post("/api/checkout", deps.CheckoutHandler.Create, checkoutMiddleware...)

	api.Get("/api/orders", deps.OrderHandler.List)
	api.Get("/api/orders/{id}", deps.OrderHandler.Get)
	api.Post("/api/orders/{id}/cancel", deps.OrderHandler.Cancel)
}
