package domain

//go:generate mockgen -destination=../mocks/order_store.go -package=mocks . OrderStore

import (
	"context"
	"fmt"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending       OrderStatus = "pending"
	StatusConfirmed     OrderStatus = "confirmed"
	StatusProcessing    OrderStatus = "processing"
	StatusShipped       OrderStatus = "shipped"
	StatusDelivered     OrderStatus = "delivered"
	StatusCancelled     OrderStatus = "cancelled"
	StatusPaymentFailed OrderStatus = "payment_failed"
)

// AllStatuses lists every known status in pipeline order.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
	StatusPaymentFailed,
}

// RevenueStatuses are the statuses counted toward sales totals.
var RevenueStatuses = []OrderStatus{
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Size is a garment size.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// Customization is free-form garment personalization captured at checkout.
type Customization struct {
	Color     string `json:"color,omitempty"`
	Text      string `json:"text,omitempty"`
	Placement string `json:"placement,omitempty"`
}

// ShippingDetails is the address and contact snapshot taken at checkout.
// It is never re-read from a user profile.
type ShippingDetails struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty" validate:"max=40"`
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2,omitempty" validate:"max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state,omitempty" validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,len=2"`
}

// OrderItem is one line of an order. PriceCents is the unit price snapshotted at checkout.
type OrderItem struct {
	DesignID       string         `json:"designId"`
	Quantity       int            `json:"quantity"`
	Size           Size           `json:"size"`
	PriceCents     int64          `json:"priceCents"`
	Customizations *Customization `json:"customizations,omitempty"`
}

// LineTotalCents returns price*quantity in cents.
func (i OrderItem) LineTotalCents() int64 {
	return i.PriceCents * int64(i.Quantity)
}

// Order is a single checkout's durable record.
type Order struct {
	ID                string
	UserID            string
	Items             []OrderItem
	ShippingDetails   ShippingDetails
	Status            OrderStatus
	TotalAmountCents  int64
	AmountCaptured    bool
	PaymentID         string
	CheckoutSessionID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ItemsSubtotalCents returns the sum of price*quantity over the order's items.
func (o *Order) ItemsSubtotalCents() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.LineTotalCents()
	}
	return total
}

// NewOrderParams describes an order to create in pending state.
type NewOrderParams struct {
	UserID           string
	Items            []OrderItem
	ShippingDetails  ShippingDetails
	TotalAmountCents int64
}

// ConfirmParams carries the gateway's view of a completed checkout.
type ConfirmParams struct {
	PaymentID string
	// CapturedCents is the authoritative captured amount; nil when the gateway did not report one.
	CapturedCents *int64
}

// ListParams controls pagination for order listings.
type ListParams struct {
	Limit  int
	Offset int
	// Status restricts the admin listing; empty means all statuses.
	Status OrderStatus
}

// OrderQuery selects orders for reporting. All fields are optional.
type OrderQuery struct {
	// CreatedFrom and CreatedTo are inclusive bounds on CreatedAt.
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Statuses    []OrderStatus
	// DesignIDs matches orders with at least one item referencing one of the ids.
	// A non-nil empty slice matches nothing.
	DesignIDs []string
}

// WebhookDecision is the outcome recorded for a verified gateway event.
type WebhookDecision string

const (
	DecisionConfirmed       WebhookDecision = "confirmed"
	DecisionPaymentFailed   WebhookDecision = "payment_failed"
	DecisionAlreadyApplied  WebhookDecision = "already_applied"
	DecisionNoMatchingOrder WebhookDecision = "no_matching_order"
	DecisionRejected        WebhookDecision = "rejected"
	DecisionIgnored         WebhookDecision = "ignored"
)

// WebhookRecord is one row of the webhook audit log.
type WebhookRecord struct {
	EventID   string
	EventType string
	OrderID   string
	Decision  WebhookDecision
	Detail    string
}

// StaleStatusError is returned by a compare-and-swap status write when the stored
// status was no longer one of the expected values.
type StaleStatusError struct {
	OrderID string
	Current OrderStatus
}

func (e *StaleStatusError) Error() string {
	return fmt.Sprintf("order %s: status changed concurrently to %s", e.OrderID, e.Current)
}

// OrderStore is the durable record of orders and the single source of truth for order state.
//
// Status-changing methods are compare-and-swap writes: they apply only when the stored
// status is one of the from values and return *StaleStatusError otherwise. No other
// method writes status or payment id. Lookups of absent orders return ErrOrderNotFound.
type OrderStore interface {
	Create(ctx context.Context, params NewOrderParams) (*Order, error)
	Get(ctx context.Context, orderID string) (*Order, error)
	GetForUser(ctx context.Context, orderID, userID string) (*Order, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*Order, error)
	ListForUser(ctx context.Context, userID string, params ListParams) ([]Order, int, error)
	List(ctx context.Context, params ListParams) ([]Order, int, error)

	// AttachCheckoutSession records the gateway session id on a pending order,
	// and the payment intent id when the gateway created one eagerly. The payment
	// id is written only while still NULL.
	AttachCheckoutSession(ctx context.Context, orderID, sessionID, paymentIntentID string) error

	// Confirm moves an order from one of the from statuses to confirmed, recording
	// the payment id (set once) and the captured amount.
	Confirm(ctx context.Context, orderID string, from []OrderStatus, params ConfirmParams) (*Order, error)

	// TransitionStatus moves an order from one of the from statuses to to.
	TransitionStatus(ctx context.Context, orderID string, from []OrderStatus, to OrderStatus) (*Order, error)

	// ForceStatus overwrites status unconditionally. Admin path only.
	ForceStatus(ctx context.Context, orderID string, to OrderStatus) (*Order, error)

	// ListStalePending returns ids of orders pending since before cutoff.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]string, error)

	FindForReport(ctx context.Context, query OrderQuery) ([]Order, error)

	RecordWebhookEvent(ctx context.Context, record WebhookRecord) error
}
