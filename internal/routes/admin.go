package routes

import (
	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/middleware"
	"github.com/dukerupert/stitchwork/internal/router"
)

// RegisterAdminRoutes registers the operator API and the designer self-report.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireAdmin, middleware.MaxBodySize())

	admin.Get("/api/admin/orders", deps.OrderHandler.List, middleware.Timeout())
	admin.Get("/api/admin/orders/{id}", deps.OrderHandler.Get, middleware.Timeout())
	admin.Put("/api/admin/orders/{id}/status", deps.OrderHandler.UpdateStatus, middleware.Timeout())

	reports := admin.Group(middleware.Timeout(middleware.ReportTimeout))
	reports.Get("/api/admin/reports/sales", deps.ReportHandler.Sales)
	reports.Get("/api/admin/reports/designs/{id}", deps.ReportHandler.Design)
	reports.Get("/api/admin/reports/designers/{id}", deps.ReportHandler.Designer)

	designer := r.Group(middleware.RequireRole(domain.RoleDesigner), middleware.Timeout(middleware.ReportTimeout))
	designer.Get("/api/designer/report", deps.ReportHandler.OwnDesigner)
}
