// Package billing is the payment gateway collaborator: it opens hosted checkout
// sessions and verifies asynchronous payment events.
package billing

import (
	"context"

	"github.com/dukerupert/stitchwork/internal/domain"
)

// MetadataOrderID is the session metadata key carrying the order id.
const MetadataOrderID = "order_id"

// Gateway is the payment gateway contract. The order core talks to the provider
// only through these two operations.
type Gateway interface {
	// CreateCheckoutSession opens a hosted payment session. Implementations must not
	// retry internally: a retry could open a second session for the same order.
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)

	// VerifyAndParseEvent checks the signature over the raw, unparsed request body
	// and returns the normalized event. Verification failures wrap ErrInvalidWebhookSignature.
	VerifyAndParseEvent(payload []byte, signatureHeader string) (*domain.GatewayEvent, error)
}

// LineItem is one priced line on the hosted payment page.
type LineItem struct {
	Name            string
	Description     string
	ImageURL        string
	UnitAmountCents int64
	Quantity        int64
}

// CheckoutSessionParams describes a hosted payment session.
type CheckoutSessionParams struct {
	LineItems     []LineItem
	Currency      string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string

	// Metadata is echoed back on the completed-session event.
	Metadata map[string]string

	// IdempotencyKey deduplicates concurrent creation for the same order.
	IdempotencyKey string
}

// CheckoutSession is the provider's answer to a session request.
type CheckoutSession struct {
	ID  string
	URL string
	// PaymentIntentID is set when the provider creates the intent eagerly.
	PaymentIntentID string
}
