package admin

import (
	"net/http"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/handler"
)

// ReportHandler serves sales analytics.
type ReportHandler struct {
	reports domain.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports domain.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Sales handles GET /api/admin/reports/sales
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	filters, err := handler.ParseReportFilters(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	report, err := h.reports.SalesReport(r.Context(), filters)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, report)
}

// Design handles GET /api/admin/reports/designs/{id}
func (h *ReportHandler) Design(w http.ResponseWriter, r *http.Request) {
	filters, err := handler.ParseReportFilters(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	report, err := h.reports.DesignReport(r.Context(), r.PathValue("id"), filters)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, report)
}

// Designer handles GET /api/admin/reports/designers/{id}
func (h *ReportHandler) Designer(w http.ResponseWriter, r *http.Request) {
	h.designer(w, r, r.PathValue("id"))
}

// OwnDesigner handles GET /api/designer/report for a principal with the
// designer role. The principal's user id is its designer id.
func (h *ReportHandler) OwnDesigner(w http.ResponseWriter, r *http.Request) {
	p := domain.PrincipalFromContext(r.Context())
	if p == nil {
		handler.UnauthorizedResponse(w, r)
		return
	}
	if p.Role != domain.RoleDesigner {
		handler.ForbiddenResponse(w, r)
		return
	}
	h.designer(w, r, p.UserID)
}

func (h *ReportHandler) designer(w http.ResponseWriter, r *http.Request, designerID string) {
	filters, err := handler.ParseReportFilters(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	report, err := h.reports.DesignerReport(r.Context(), designerID, filters)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, report)
}
