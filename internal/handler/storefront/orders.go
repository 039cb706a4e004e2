package storefront

import (
	"net/http"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/handler"
)

// OrderHandler serves the authenticated customer's own orders.
type OrderHandler struct {
	orders domain.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/orders?page=&limit=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserIDFromContext(r.Context())
	if userID == "" {
		handler.UnauthorizedResponse(w, r)
		return
	}

	page, err := h.orders.ListForUser(r.Context(), userID, handler.QueryInt(r, "page", 1), handler.QueryInt(r, "limit", 0))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, handler.NewOrderListResponse(page))
}

// Get handles GET /api/orders/{id}. Orders owned by someone else are reported as not found.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserIDFromContext(r.Context())
	if userID == "" {
		handler.UnauthorizedResponse(w, r)
		return
	}

	view, err := h.orders.GetForUser(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, handler.NewOrderResponse(view))
}

// Cancel handles POST /api/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserIDFromContext(r.Context())
	if userID == "" {
		handler.UnauthorizedResponse(w, r)
		return
	}

	order, err := h.orders.Cancel(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, handler.NewOrderSummaryResponse(order))
}
