package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAPIKey is returned when Stripe API key is invalid or missing.
	ErrInvalidAPIKey = errors.New("billing: invalid or missing API key")

	// ErrInvalidWebhookSignature is returned when webhook signature verification fails.
	ErrInvalidWebhookSignature = errors.New("billing: invalid webhook signature")

	// ErrMalformedEvent is returned when a verified event's object cannot be decoded.
	ErrMalformedEvent = errors.New("billing: malformed event payload")

	// ErrNoLineItems is returned when a session is requested without line items.
	ErrNoLineItems = errors.New("billing: at least one line item is required")
)

// StripeError wraps a Stripe API error with additional context.
type StripeError struct {
	Message        string // Human-readable error message
	Code           string // Stripe error code (e.g., "amount_too_small")
	Type           string // Stripe error type (e.g., "invalid_request_error")
	HTTPStatusCode int
	RequestID      string // Stripe request ID for debugging
	OriginalError  error
}

func (e *StripeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe: %s (code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("stripe: %s", e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.OriginalError
}

// IsTemporary returns true if error is likely transient.
// Callers still do not retry session creation automatically.
func (e *StripeError) IsTemporary() bool {
	return e.Code == "rate_limit" || e.Type == "api_connection_error" || e.HTTPStatusCode >= 500
}
