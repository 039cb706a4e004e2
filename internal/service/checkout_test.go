package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/stitchwork/internal/billing"
	"github.com/dukerupert/stitchwork/internal/cache"
	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/mocks"
	"github.com/dukerupert/stitchwork/internal/shipping"
	"github.com/dukerupert/stitchwork/internal/tax"
	"github.com/dukerupert/stitchwork/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var catalogDesigns = []domain.Design{
	{ID: "D1", Title: "Wave", PriceCents: 2000, DesignerID: "dz1", DesignerName: "Ada", ImageURL: "https://img.test/d1.png", Active: true},
	{ID: "D2", Title: "Peak", PriceCents: 3500, DesignerID: "dz2", DesignerName: "Lin", Active: true},
	{ID: "D3", Title: "Retired", PriceCents: 1500, DesignerID: "dz2", Active: false},
}

func catalogSubset(ids []string) []domain.Design {
	idx := domain.DesignIndex(catalogDesigns)
	var out []domain.Design
	for _, id := range ids {
		if d, ok := idx[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

type checkoutFixture struct {
	store   *mocks.MockOrderStore
	catalog *mocks.MockCatalog
	gateway *billing.MockGateway
	reports *cache.MemoryReportCache
	svc     domain.CheckoutService
}

func newCheckoutFixture(t *testing.T, taxCalc tax.Calculator, shipper shipping.Provider) *checkoutFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &checkoutFixture{
		store:   mocks.NewMockOrderStore(ctrl),
		catalog: mocks.NewMockCatalog(ctrl),
		gateway: billing.NewMockGateway(),
		reports: cache.NewMemoryReportCache(time.Minute),
	}
	notifier := NewNotifier(nil, f.reports, telemetry.NewNopBusinessMetrics(), discardLogger())

	svc, err := NewCheckoutService(f.store, f.catalog, f.gateway, taxCalc, shipper, notifier, CheckoutConfig{
		BaseURL:        "https://shop.test/",
		SuccessPath:    "/checkout/success",
		CancelPath:     "/checkout/cancel",
		Currency:       "usd",
		GatewayTimeout: 2 * time.Second,
	}, telemetry.NewNopBusinessMetrics(), discardLogger())
	require.NoError(t, err)
	f.svc = svc
	return f
}

// expectCatalog resolves requested ids from catalogDesigns.
func (f *checkoutFixture) expectCatalog() *gomock.Call {
	return f.catalog.EXPECT().
		ResolveDesigns(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ids []string) ([]domain.Design, error) {
			return catalogSubset(ids), nil
		})
}

// expectCreate persists the order and hands it back with an id.
func (f *checkoutFixture) expectCreate(captured *domain.NewOrderParams) *gomock.Call {
	return f.store.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p domain.NewOrderParams) (*domain.Order, error) {
			if captured != nil {
				*captured = p
			}
			return &domain.Order{
				ID:               "11111111-1111-1111-1111-111111111111",
				UserID:           p.UserID,
				Items:            p.Items,
				ShippingDetails:  p.ShippingDetails,
				Status:           domain.StatusPending,
				TotalAmountCents: p.TotalAmountCents,
			}, nil
		})
}

func TestCheckout_CreatesOnePendingOrderWithSnapshotTotal(t *testing.T) {
	f := newCheckoutFixture(t, nil, nil)
	ctx := context.Background()

	var created domain.NewOrderParams
	var attachedSession, attachedIntent string
	f.expectCatalog().Times(1)
	f.expectCreate(&created).Times(1)
	f.store.EXPECT().
		AttachCheckoutSession(gomock.Any(), "11111111-1111-1111-1111-111111111111", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, sessionID, paymentIntentID string) error {
			attachedSession, attachedIntent = sessionID, paymentIntentID
			return nil
		})

	result, err := f.svc.CreateCheckout(ctx, domain.CheckoutRequest{
		UserID: "user-1",
		Items: []domain.CheckoutItem{
			{DesignID: "D1", Quantity: 2, Size: domain.SizeM, Customizations: &domain.Customization{Color: "navy"}},
			{DesignID: "D2", Quantity: 1, Size: domain.SizeXL},
		},
		ShippingDetails: testShipping(),
	})
	require.NoError(t, err)

	assert.Equal(t, "11111111-1111-1111-1111-111111111111", result.OrderID)
	assert.NotEmpty(t, result.SessionID)
	assert.Contains(t, result.RedirectURL, result.SessionID)

	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, int64(2*2000+3500), created.TotalAmountCents)
	require.Len(t, created.Items, 2)
	assert.Equal(t, int64(2000), created.Items[0].PriceCents, "price is snapshotted from the catalog")
	assert.Equal(t, result.SessionID, attachedSession)
	assert.NotEmpty(t, attachedIntent, "an eagerly created payment intent is persisted for payment_failed lookup")
	assert.Equal(t, "navy", created.Items[0].Customizations.Color)

	session := f.gateway.Sessions[result.SessionID]
	assert.Equal(t, result.OrderID, session.Metadata[billing.MetadataOrderID])
	assert.Equal(t, "checkout-"+result.OrderID, session.IdempotencyKey)
	assert.Equal(t, "sam@example.com", session.CustomerEmail)
	assert.Equal(t, "https://shop.test/checkout/success?order_id="+result.OrderID+"&session_id={CHECKOUT_SESSION_ID}", session.SuccessURL)
	assert.Equal(t, "https://shop.test/checkout/cancel?order_id="+result.OrderID, session.CancelURL)
	require.Len(t, session.LineItems, 2)
	assert.Equal(t, "Wave (M)", session.LineItems[0].Name)
	assert.Equal(t, int64(2000), session.LineItems[0].UnitAmountCents)
	assert.Equal(t, int64(2), session.LineItems[0].Quantity)
	assert.Equal(t, "https://img.test/d1.png", session.LineItems[0].ImageURL)
}

func TestCheckout_AddsShippingAndTaxLinesToSessionOnly(t *testing.T) {
	calc, err := tax.NewFlatRateCalculator(1000) // 10%
	require.NoError(t, err)
	f := newCheckoutFixture(t, calc, shipping.NewFlatRateProvider("", 500, 0))

	var created domain.NewOrderParams
	f.expectCatalog()
	f.expectCreate(&created)
	f.store.EXPECT().AttachCheckoutSession(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	result, err := f.svc.CreateCheckout(context.Background(), domain.CheckoutRequest{
		UserID:          "user-1",
		Items:           []domain.CheckoutItem{{DesignID: "D1", Quantity: 1, Size: domain.SizeS}},
		ShippingDetails: testShipping(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2000), created.TotalAmountCents, "order total excludes shipping and tax")

	lines := f.gateway.Sessions[result.SessionID].LineItems
	require.Len(t, lines, 3)
	assert.Equal(t, "Standard Shipping", lines[1].Name)
	assert.Equal(t, int64(500), lines[1].UnitAmountCents)
	assert.Equal(t, "Sales tax", lines[2].Name)
	assert.Equal(t, int64(250), lines[2].UnitAmountCents)
}

func TestCheckout_DuplicateDesignsResolvedOnce(t *testing.T) {
	f := newCheckoutFixture(t, nil, nil)

	f.catalog.EXPECT().
		ResolveDesigns(gomock.Any(), []string{"D1"}).
		Return(catalogSubset([]string{"D1"}), nil).
		Times(1)
	var created domain.NewOrderParams
	f.expectCreate(&created)
	f.store.EXPECT().AttachCheckoutSession(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.svc.CreateCheckout(context.Background(), domain.CheckoutRequest{
		UserID: "user-1",
		Items: []domain.CheckoutItem{
			{DesignID: "D1", Quantity: 1, Size: domain.SizeS},
			{DesignID: "D1", Quantity: 3, Size: domain.SizeL},
		},
		ShippingDetails: testShipping(),
	})
	require.NoError(t, err)
	assert.Len(t, created.Items, 2)
	assert.Equal(t, int64(8000), created.TotalAmountCents)
}

func TestCheckout_UnresolvedDesignsFailWholeCheckout(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.CheckoutItem
	}{
		{
			name: "unknown design",
			items: []domain.CheckoutItem{
				{DesignID: "D1", Quantity: 1, Size: domain.SizeM},
				{DesignID: "missing", Quantity: 1, Size: domain.SizeM},
			},
		},
		{
			name:  "soft-deleted design",
			items: []domain.CheckoutItem{{DesignID: "D3", Quantity: 1, Size: domain.SizeM}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t, nil, nil)
			f.expectCatalog()
			// No Create expectation: gomock fails the test if one happens.

			_, err := f.svc.CreateCheckout(context.Background(), domain.CheckoutRequest{
				UserID:          "user-1",
				Items:           tt.items,
				ShippingDetails: testShipping(),
			})
			assert.ErrorIs(t, err, domain.ErrDesignsNotFound)
			assert.Equal(t, "one or more designs not found", domain.ErrorMessage(err))
			assert.Empty(t, f.gateway.Calls())
		})
	}
}

func TestCheckout_Validation(t *testing.T) {
	noName := testShipping()
	noName.Name = ""

	tests := []struct {
		name      string
		req       domain.CheckoutRequest
		wantField string
	}{
		{
			name:      "no items",
			req:       domain.CheckoutRequest{UserID: "u", ShippingDetails: testShipping()},
			wantField: "items",
		},
		{
			name: "zero quantity",
			req: domain.CheckoutRequest{UserID: "u", ShippingDetails: testShipping(),
				Items: []domain.CheckoutItem{{DesignID: "D1", Quantity: 0, Size: domain.SizeM}}},
			wantField: "items[0].quantity",
		},
		{
			name: "unknown size",
			req: domain.CheckoutRequest{UserID: "u", ShippingDetails: testShipping(),
				Items: []domain.CheckoutItem{{DesignID: "D1", Quantity: 1, Size: "XXXL"}}},
			wantField: "items[0].size",
		},
		{
			name: "missing shipping name",
			req: domain.CheckoutRequest{UserID: "u", ShippingDetails: noName,
				Items: []domain.CheckoutItem{{DesignID: "D1", Quantity: 1, Size: domain.SizeM}}},
			wantField: "shippingDetails.name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t, nil, nil)

			_, err := f.svc.CreateCheckout(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
			assert.Contains(t, domain.GetValidationFields(err), tt.wantField)
		})
	}
}

func TestCheckout_RequiresUser(t *testing.T) {
	f := newCheckoutFixture(t, nil, nil)

	_, err := f.svc.CreateCheckout(context.Background(), domain.CheckoutRequest{
		Items:           []domain.CheckoutItem{{DesignID: "D1", Quantity: 1, Size: domain.SizeM}},
		ShippingDetails: testShipping(),
	})
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestCheckout_CatalogFailure(t *testing.T) {
	f := newCheckoutFixture(t, nil, nil)
	f.catalog.EXPECT().ResolveDesigns(gomock.Any(), gomock.Any()).Return(nil, errors.New("catalog down"))

	_, err := f.svc.CreateCheckout(context.Background(), domain.CheckoutRequest{
		UserID:          "user-1",
		Items:           []domain.CheckoutItem{{DesignID: "D1", Quantity: 1, Size: domain.SizeM}},
		ShippingDetails: testShipping(),
	})
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
}

func TestCheckout_GatewayFailureLeavesOrderPending(t *testing.T) {
	f := newCheckoutFixture(t, nil, nil)
	f.expectCatalog()
	f.expectCreate(nil).Times(1)
	// No AttachCheckoutSession and no status change are expected.

	var hadDeadline bool
	f.gateway.CreateCheckoutSessionFunc = func(ctx context.Context, _ billing.CheckoutSessionParams) (*billing.CheckoutSession, error) {
		_, hadDeadline = ctx.Deadline()
		return nil, context.DeadlineExceeded
	}

	_, err := f.svc.CreateCheckout(context.Background(), domain.CheckoutRequest{
		UserID:          "user-1",
		Items:           []domain.CheckoutItem{{DesignID: "D1", Quantity: 1, Size: domain.SizeM}},
		ShippingDetails: testShipping(),
	})
	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, hadDeadline, "gateway call must carry a timeout")
	assert.Len(t, f.gateway.Calls(), 1, "session creation is not retried")
}

func TestCheckout_CreatedOrderInvalidatesReports(t *testing.T) {
	ctx := context.Background()
	req := domain.CheckoutRequest{
		UserID:          "user-1",
		Items:           []domain.CheckoutItem{{DesignID: "D1", Quantity: 1, Size: domain.SizeM}},
		ShippingDetails: testShipping(),
	}

	t.Run("session created", func(t *testing.T) {
		f := newCheckoutFixture(t, nil, nil)
		require.NoError(t, f.reports.Set(ctx, "status", map[string]int{"pending": 0}))
		f.expectCatalog()
		f.expectCreate(nil)
		f.store.EXPECT().AttachCheckoutSession(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.CreateCheckout(ctx, req)
		require.NoError(t, err)
		assert.Zero(t, f.reports.Len())
	})

	t.Run("gateway failure after create", func(t *testing.T) {
		f := newCheckoutFixture(t, nil, nil)
		require.NoError(t, f.reports.Set(ctx, "status", map[string]int{"pending": 0}))
		f.expectCatalog()
		f.expectCreate(nil)
		f.gateway.CreateCheckoutSessionFunc = func(context.Context, billing.CheckoutSessionParams) (*billing.CheckoutSession, error) {
			return nil, errors.New("gateway down")
		}

		_, err := f.svc.CreateCheckout(ctx, req)
		require.Error(t, err)
		assert.Zero(t, f.reports.Len(), "the pending order still counts toward reports")
	})

	t.Run("nothing persisted", func(t *testing.T) {
		f := newCheckoutFixture(t, nil, nil)
		require.NoError(t, f.reports.Set(ctx, "status", map[string]int{"pending": 0}))
		f.catalog.EXPECT().ResolveDesigns(gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := f.svc.CreateCheckout(ctx, req)
		require.Error(t, err)
		assert.Equal(t, 1, f.reports.Len())
	})
}

func TestCheckout_AttachFailureIsNotFatal(t *testing.T) {
	f := newCheckoutFixture(t, nil, nil)
	f.expectCatalog()
	f.expectCreate(nil)
	f.store.EXPECT().
		AttachCheckoutSession(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.Internal(errors.New("conn reset"), "order.attach_session", "failed"))

	result, err := f.svc.CreateCheckout(context.Background(), domain.CheckoutRequest{
		UserID:          "user-1",
		Items:           []domain.CheckoutItem{{DesignID: "D1", Quantity: 1, Size: domain.SizeM}},
		ShippingDetails: testShipping(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RedirectURL)
}

func TestNewCheckoutService_RequiresBaseURL(t *testing.T) {
	_, err := NewCheckoutService(nil, nil, nil, nil, nil, nil, CheckoutConfig{}, nil, discardLogger())
	assert.Error(t, err)
}
