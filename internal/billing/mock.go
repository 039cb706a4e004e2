package billing

import (
	"context"
	"fmt"
	"sync"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/google/uuid"
)

// MockGateway is a gateway for tests. It opens fake sessions without calling Stripe.
type MockGateway struct {
	// CreateCheckoutSessionFunc allows customizing session creation behavior
	CreateCheckoutSessionFunc func(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)

	// VerifyAndParseEventFunc allows customizing webhook verification behavior
	VerifyAndParseEventFunc func(payload []byte, signatureHeader string) (*domain.GatewayEvent, error)

	mu sync.Mutex

	// Sessions stores the params of every session created, keyed by session id
	Sessions map[string]CheckoutSessionParams

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Sessions: make(map[string]CheckoutSessionParams),
		CallLog:  []string{},
	}
}

// CreateCheckoutSession records the call and returns a fake hosted session.
func (m *MockGateway) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreateCheckoutSession(%s, %d items)", params.Metadata[MetadataOrderID], len(params.LineItems)))
	m.mu.Unlock()

	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, params)
	}

	if len(params.LineItems) == 0 {
		return nil, ErrNoLineItems
	}

	id := "cs_test_" + uuid.New().String()
	m.mu.Lock()
	m.Sessions[id] = params
	m.mu.Unlock()

	return &CheckoutSession{
		ID:              id,
		URL:             "https://checkout.stripe.test/pay/" + id,
		PaymentIntentID: "pi_test_" + id[len("cs_test_"):],
	}, nil
}

// VerifyAndParseEvent delegates to VerifyAndParseEventFunc or rejects every payload.
func (m *MockGateway) VerifyAndParseEvent(payload []byte, signatureHeader string) (*domain.GatewayEvent, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("VerifyAndParseEvent(%d bytes)", len(payload)))
	m.mu.Unlock()

	if m.VerifyAndParseEventFunc != nil {
		return m.VerifyAndParseEventFunc(payload, signatureHeader)
	}
	return nil, ErrInvalidWebhookSignature
}

// Calls returns a copy of the call log.
func (m *MockGateway) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.CallLog...)
}
