package storefront

import (
	"net/http"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/handler"
	"github.com/dukerupert/stitchwork/internal/middleware"
)

// CheckoutHandler turns a cart into a pending order and a hosted payment page.
type CheckoutHandler struct {
	checkout domain.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout domain.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Create handles POST /api/checkout
//
// The body is {"items":[...],"shippingDetails":{...}}. The user id always comes
// from the verified identity, never from the body.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserIDFromContext(r.Context())
	if userID == "" {
		handler.UnauthorizedResponse(w, r)
		return
	}

	var req domain.CheckoutRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	req.UserID = userID

	result, err := h.checkout.CreateCheckout(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("Checkout session created",
		"order_id", result.OrderID,
		"session_id", result.SessionID,
	)
	handler.JSON(w, http.StatusCreated, result)
}
