package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dukerupert/stitchwork/internal/billing"
	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/shipping"
	"github.com/dukerupert/stitchwork/internal/tax"
	"github.com/dukerupert/stitchwork/internal/telemetry"
	"github.com/go-playground/validator/v10"
)

// DefaultGatewayTimeout bounds a single session-creation call.
const DefaultGatewayTimeout = 10 * time.Second

// CheckoutConfig holds redirect and gateway settings for checkout.
type CheckoutConfig struct {
	BaseURL     string
	SuccessPath string
	CancelPath  string
	Currency    string
	// GatewayTimeout defaults to DefaultGatewayTimeout.
	GatewayTimeout time.Duration
}

func (c CheckoutConfig) gatewayTimeout() time.Duration {
	if c.GatewayTimeout <= 0 {
		return DefaultGatewayTimeout
	}
	return c.GatewayTimeout
}

// checkoutService implements domain.CheckoutService.
type checkoutService struct {
	store    domain.OrderStore
	catalog  domain.Catalog
	gateway  billing.Gateway
	taxCalc  tax.Calculator
	shipper  shipping.Provider
	notifier *Notifier
	validate *validator.Validate
	config   CheckoutConfig
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
}

// NewCheckoutService creates a new CheckoutService instance.
func NewCheckoutService(
	store domain.OrderStore,
	catalog domain.Catalog,
	gateway billing.Gateway,
	taxCalc tax.Calculator,
	shipper shipping.Provider,
	notifier *Notifier,
	config CheckoutConfig,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
) (domain.CheckoutService, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("checkout: base URL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("checkout: invalid base URL: %w", err)
	}
	if taxCalc == nil {
		taxCalc = tax.NewNoTaxCalculator()
	}
	if metrics == nil {
		metrics = telemetry.NewNopBusinessMetrics()
	}
	if notifier == nil {
		notifier = NewNotifier(nil, nil, metrics, logger)
	}

	return &checkoutService{
		store:    store,
		catalog:  catalog,
		gateway:  gateway,
		taxCalc:  taxCalc,
		shipper:  shipper,
		notifier: notifier,
		validate: newValidator(),
		config:   config,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// CreateCheckout prices the cart against the catalog, persists a pending order and
// opens a hosted payment session for it.
//
// Everything that can fail without external side effects runs before the order is
// persisted. A gateway failure after that leaves the order pending for the sweep.
func (s *checkoutService) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	const op = "checkout.create"

	if req.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if err := s.validate.StructCtx(ctx, req); err != nil {
		s.metrics.CheckoutFailed.WithLabelValues("validation").Inc()
		return nil, validationError(op, err)
	}
	s.metrics.CheckoutStarted.Inc()

	designs, err := s.resolveActive(ctx, req.Items)
	if err != nil {
		s.metrics.CheckoutFailed.WithLabelValues("catalog").Inc()
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	var subtotal int64
	for _, ci := range req.Items {
		item := domain.OrderItem{
			DesignID:       ci.DesignID,
			Quantity:       ci.Quantity,
			Size:           ci.Size,
			PriceCents:     designs[ci.DesignID].PriceCents,
			Customizations: ci.Customizations,
		}
		subtotal += item.LineTotalCents()
		items = append(items, item)
	}

	extras, err := s.extraLineItems(ctx, subtotal, len(items), req.ShippingDetails.Country)
	if err != nil {
		s.metrics.CheckoutFailed.WithLabelValues("pricing").Inc()
		return nil, err
	}

	order, err := s.store.Create(ctx, domain.NewOrderParams{
		UserID:           req.UserID,
		Items:            items,
		ShippingDetails:  req.ShippingDetails,
		TotalAmountCents: subtotal,
	})
	if err != nil {
		s.metrics.CheckoutFailed.WithLabelValues("store").Inc()
		return nil, err
	}
	s.metrics.OrdersCreated.Inc()
	s.metrics.OrderValue.Observe(float64(subtotal))
	s.metrics.OrderItemCount.Observe(float64(len(items)))

	logger := s.logger.With("order_id", order.ID, "user_id", order.UserID)
	logger.Info("Order created", "status", order.Status, "total_amount_cents", order.TotalAmountCents)
	s.notifier.Created(ctx, order)

	params := billing.CheckoutSessionParams{
		LineItems:      append(gatewayLineItems(order.Items, designs), extras...),
		Currency:       s.config.Currency,
		SuccessURL:     s.redirectURL(s.config.SuccessPath, order.ID, true),
		CancelURL:      s.redirectURL(s.config.CancelPath, order.ID, false),
		CustomerEmail:  req.ShippingDetails.Email,
		Metadata:       map[string]string{billing.MetadataOrderID: order.ID},
		IdempotencyKey: "checkout-" + order.ID,
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.config.gatewayTimeout())
	defer cancel()

	start := time.Now()
	session, err := s.gateway.CreateCheckoutSession(gwCtx, params)
	if err != nil {
		s.metrics.GatewayLatency.WithLabelValues("create_session", "error").Observe(time.Since(start).Seconds())
		s.metrics.CheckoutFailed.WithLabelValues("gateway").Inc()
		logger.Error("Failed to create checkout session; order left pending", "error", err)
		telemetry.CaptureError(ctx, err, map[string]any{"order_id": order.ID, "op": op})
		return nil, domain.Unavailable(err, op, "payment gateway unavailable")
	}
	s.metrics.GatewayLatency.WithLabelValues("create_session", "ok").Observe(time.Since(start).Seconds())

	if err := s.store.AttachCheckoutSession(ctx, order.ID, session.ID, session.PaymentIntentID); err != nil {
		logger.Warn("Failed to record checkout session on order",
			"session_id", session.ID,
			"payment_intent_id", session.PaymentIntentID,
			"error", err,
		)
	}

	s.metrics.CheckoutSucceeded.Inc()
	logger.Info("Checkout session created", "session_id", session.ID)

	return &domain.CheckoutResult{
		OrderID:     order.ID,
		SessionID:   session.ID,
		RedirectURL: session.URL,
	}, nil
}

// resolveActive resolves every distinct design id in one batch. Soft-deleted
// designs count as missing, as does any id the catalog omits.
func (s *checkoutService) resolveActive(ctx context.Context, items []domain.CheckoutItem) (map[string]domain.Design, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.DesignID]; ok {
			continue
		}
		seen[item.DesignID] = struct{}{}
		ids = append(ids, item.DesignID)
	}

	resolved, err := s.catalog.ResolveDesigns(ctx, ids)
	if err != nil {
		return nil, domain.Unavailable(err, "checkout.resolve", "catalog lookup failed")
	}

	active := make(map[string]domain.Design, len(resolved))
	for _, d := range resolved {
		if _, requested := seen[d.ID]; requested && d.Active {
			active[d.ID] = d
		}
	}
	if len(active) != len(ids) {
		return nil, domain.ErrDesignsNotFound
	}
	return active, nil
}

// extraLineItems quotes shipping and tax. Zero-cost lines are omitted.
func (s *checkoutService) extraLineItems(ctx context.Context, subtotal int64, itemCount int, country string) ([]billing.LineItem, error) {
	var lines []billing.LineItem

	var shippingCents int64
	if s.shipper != nil {
		rate, err := s.shipper.Quote(ctx, shipping.QuoteParams{
			SubtotalCents: subtotal,
			ItemCount:     itemCount,
			Country:       country,
		})
		if err != nil {
			return nil, domain.Internal(err, "checkout.shipping", "failed to quote shipping")
		}
		shippingCents = rate.CostCents
		if rate.CostCents > 0 {
			lines = append(lines, billing.LineItem{Name: rate.ServiceName, UnitAmountCents: rate.CostCents, Quantity: 1})
		}
	}

	result, err := s.taxCalc.CalculateTax(ctx, tax.TaxParams{
		SubtotalCents: subtotal,
		ShippingCents: shippingCents,
		Country:       country,
	})
	if err != nil {
		return nil, domain.Internal(err, "checkout.tax", "failed to calculate tax")
	}
	if result.TotalTaxCents > 0 {
		lines = append(lines, billing.LineItem{Name: result.Label, UnitAmountCents: result.TotalTaxCents, Quantity: 1})
	}

	return lines, nil
}

// gatewayLineItems renders order items for the hosted payment page.
func gatewayLineItems(items []domain.OrderItem, designs map[string]domain.Design) []billing.LineItem {
	lines := make([]billing.LineItem, 0, len(items)+2)
	for _, item := range items {
		d := designs[item.DesignID]
		lines = append(lines, billing.LineItem{
			Name:            fmt.Sprintf("%s (%s)", d.Title, item.Size),
			Description:     lineDescription(d, item.Customizations),
			ImageURL:        d.ImageURL,
			UnitAmountCents: item.PriceCents,
			Quantity:        int64(item.Quantity),
		})
	}
	return lines
}

func lineDescription(d domain.Design, c *domain.Customization) string {
	var parts []string
	if d.DesignerName != "" {
		parts = append(parts, "by "+d.DesignerName)
	}
	if c != nil {
		if c.Color != "" {
			parts = append(parts, "color: "+c.Color)
		}
		if c.Text != "" {
			parts = append(parts, fmt.Sprintf("text: %q", c.Text))
		}
		if c.Placement != "" {
			parts = append(parts, "placement: "+c.Placement)
		}
	}
	if len(parts) == 0 {
		return d.Description
	}
	return strings.Join(parts, ", ")
}

// redirectURL builds an absolute redirect. The success URL carries the provider's
// session placeholder, which must stay unescaped.
func (s *checkoutService) redirectURL(path, orderID string, withSession bool) string {
	base := strings.TrimRight(s.config.BaseURL, "/")
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := base + path + "?order_id=" + url.QueryEscape(orderID)
	if withSession {
		u += "&session_id={CHECKOUT_SESSION_ID}"
	}
	return u
}
