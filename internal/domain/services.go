package domain

import (
	"context"
	"time"
)

// CheckoutItem is one requested cart line.
type CheckoutItem struct {
	DesignID       string         `json:"designId" validate:"required"`
	Quantity       int            `json:"quantity" validate:"required,min=1,max=100"`
	Size           Size           `json:"size" validate:"required,oneof=XS S M L XL XXL"`
	Customizations *Customization `json:"customizations,omitempty"`
}

// CheckoutRequest is a cart plus shipping snapshot under an authenticated user.
type CheckoutRequest struct {
	UserID          string          `json:"-"`
	Items           []CheckoutItem  `json:"items" validate:"required,min=1,dive"`
	ShippingDetails ShippingDetails `json:"shippingDetails"`
}

// CheckoutResult is returned to the caller to redirect to the hosted payment page.
type CheckoutResult struct {
	OrderID     string `json:"orderId"`
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"url"`
}

// CheckoutService turns a cart into a pending order and a hosted payment session.
type CheckoutService interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

// OrderItemView is an order line joined with its design for display.
type OrderItemView struct {
	OrderItem
	Design Design `json:"design"`
}

// OrderView is a display-ready order.
type OrderView struct {
	Order
	Items []OrderItemView
}

// OrderPage is one page of a listing.
type OrderPage struct {
	Orders []OrderView
	Total  int
	Page   int
	Limit  int
}

// OrderService is the owner/admin lifecycle API.
type OrderService interface {
	Cancel(ctx context.Context, orderID, userID string) (*Order, error)
	ForceStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error)
	GetForUser(ctx context.Context, orderID, userID string) (*OrderView, error)
	Get(ctx context.Context, orderID string) (*OrderView, error)
	ListForUser(ctx context.Context, userID string, page, limit int) (*OrderPage, error)
	List(ctx context.Context, status OrderStatus, page, limit int) (*OrderPage, error)
}

// ReportService builds sales reports.
type ReportService interface {
	SalesReport(ctx context.Context, filters ReportFilters) (*SalesReport, error)
	DesignReport(ctx context.Context, designID string, filters ReportFilters) (*DesignReport, error)
	DesignerReport(ctx context.Context, designerID string, filters ReportFilters) (*DesignerReport, error)
}

// GatewayEvent is a verified payment-provider event, normalized away from the provider's SDK types.
type GatewayEvent struct {
	ID   string
	Type string
	// OrderID is recovered from checkout session metadata; empty when absent.
	OrderID         string
	SessionID       string
	PaymentIntentID string
	// AmountTotalCents is the captured amount when the event carries one.
	AmountTotalCents *int64
	Created          time.Time
}

// Gateway event types the reconciler acts on.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentFailed      = "payment_intent.payment_failed"
)

// ReconcileOutcome reports the decision taken for an event.
type ReconcileOutcome struct {
	Decision WebhookDecision
	OrderID  string
}

// WebhookReconciler applies verified gateway events to order state.
type WebhookReconciler interface {
	Reconcile(ctx context.Context, event GatewayEvent) (ReconcileOutcome, error)
}
