package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

// StripeGateway implements Gateway using Stripe Checkout.
type StripeGateway struct {
	client *stripe.Client
	config StripeConfig
}

// NewStripeGateway creates a Stripe gateway with its own client and backends.
// Network retries are disabled: a retried session create could open a duplicate session.
func NewStripeGateway(cfg StripeConfig) (*StripeGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backends := stripe.NewBackendsWithConfig(&stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.timeout()},
		MaxNetworkRetries: stripe.Int64(0),
	})

	return &StripeGateway{
		client: stripe.NewClient(cfg.APIKey, stripe.WithBackends(backends)),
		config: cfg,
	}, nil
}

// CreateCheckoutSession opens a hosted Stripe Checkout session in payment mode.
func (s *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	sessionParams, err := buildSessionParams(params, s.config.currency())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.timeout())
	defer cancel()

	sess, err := s.client.V1CheckoutSessions.Create(ctx, sessionParams)
	if err != nil {
		return nil, translateStripeError(err)
	}

	result := &CheckoutSession{
		ID:  sess.ID,
		URL: sess.URL,
	}
	if sess.PaymentIntent != nil {
		result.PaymentIntentID = sess.PaymentIntent.ID
	}
	return result, nil
}

// buildSessionParams maps gateway-neutral params onto the Stripe request.
func buildSessionParams(params CheckoutSessionParams, defaultCurrency string) (*stripe.CheckoutSessionCreateParams, error) {
	if len(params.LineItems) == 0 {
		return nil, ErrNoLineItems
	}

	currency := params.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	lineItems := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		product := &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		if item.ImageURL != "" {
			product.Images = []*string{stripe.String(item.ImageURL)}
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:    stripe.String(currency),
				UnitAmount:  stripe.Int64(item.UnitAmountCents),
				ProductData: product,
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	sp := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		Metadata:   params.Metadata,
	}
	if orderID := params.Metadata[MetadataOrderID]; orderID != "" {
		sp.ClientReferenceID = stripe.String(orderID)
	}
	if params.CustomerEmail != "" {
		sp.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	if params.IdempotencyKey != "" {
		sp.SetIdempotencyKey(params.IdempotencyKey)
	}

	return sp, nil
}

// VerifyAndParseEvent verifies the Stripe-Signature header over the raw payload.
func (s *StripeGateway) VerifyAndParseEvent(payload []byte, signatureHeader string) (*domain.GatewayEvent, error) {
	return parseEvent(payload, signatureHeader, s.config.WebhookSecret)
}

func parseEvent(payload []byte, signatureHeader, secret string) (*domain.GatewayEvent, error) {
	if signatureHeader == "" {
		return nil, fmt.Errorf("%w: missing signature header", ErrInvalidWebhookSignature)
	}

	// API version pinning is the dashboard's concern; the fields read here are stable.
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhookSignature, err)
	}

	ge := &domain.GatewayEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Created: time.Unix(event.Created, 0).UTC(),
	}
	if event.Data == nil {
		return ge, nil
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		ge.SessionID = sess.ID
		ge.OrderID = sess.Metadata[MetadataOrderID]
		if sess.PaymentIntent != nil {
			ge.PaymentIntentID = sess.PaymentIntent.ID
		}
		if sess.AmountTotal > 0 {
			amount := sess.AmountTotal
			ge.AmountTotalCents = &amount
		}

	case stripe.EventTypePaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		ge.PaymentIntentID = pi.ID
	}

	return ge, nil
}

func translateStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &StripeError{
			Message:        stripeErr.Msg,
			Code:           string(stripeErr.Code),
			Type:           string(stripeErr.Type),
			HTTPStatusCode: stripeErr.HTTPStatusCode,
			RequestID:      stripeErr.RequestID,
			OriginalError:  err,
		}
	}
	return &StripeError{Message: err.Error(), OriginalError: err}
}
