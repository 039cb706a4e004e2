package admin

import (
	"net/http"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/handler"
	"github.com/dukerupert/stitchwork/internal/middleware"
)

// OrderHandler is the operator view over every order.
type OrderHandler struct {
	orders domain.OrderService
}

// NewOrderHandler creates a new admin order handler
func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/admin/orders?page=&limit=&status=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))

	page, err := h.orders.List(r.Context(), status, handler.QueryInt(r, "page", 1), handler.QueryInt(r, "limit", 0))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, handler.NewOrderListResponse(page))
}

// Get handles GET /api/admin/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, handler.NewOrderResponse(view))
}

// UpdateStatusRequest is the body of PUT /api/admin/orders/{id}/status.
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// UpdateStatus handles PUT /api/admin/orders/{id}/status
//
// Any known status may be set, bypassing the owner and gateway rules.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.Status == "" {
		handler.BadRequestResponse(w, r, "status is required")
		return
	}

	order, err := h.orders.ForceStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("Order status set by admin",
		"order_id", order.ID,
		"status", order.Status,
	)
	handler.JSON(w, http.StatusOK, handler.NewOrderSummaryResponse(order))
}
