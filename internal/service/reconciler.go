package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/telemetry"
	"github.com/getsentry/sentry-go"
)

// maxCASAttempts bounds re-evaluation after a lost compare-and-swap.
const maxCASAttempts = 3

// webhookReconciler implements domain.WebhookReconciler.
type webhookReconciler struct {
	store    domain.OrderStore
	notifier *Notifier
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
}

// NewWebhookReconciler creates a reconciler for verified gateway events.
func NewWebhookReconciler(store domain.OrderStore, notifier *Notifier, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.WebhookReconciler {
	if metrics == nil {
		metrics = telemetry.NewNopBusinessMetrics()
	}
	return &webhookReconciler{store: store, notifier: notifier, metrics: metrics, logger: logger}
}

// Reconcile applies one verified event. It returns an error only when the event
// could not be evaluated: EINVALID for a malformed event that redelivery cannot fix,
// anything else for a store failure the provider should redeliver.
// Business no-ops (already applied, no matching order, conflicting status) return nil.
func (r *webhookReconciler) Reconcile(ctx context.Context, event domain.GatewayEvent) (domain.ReconcileOutcome, error) {
	var (
		outcome domain.ReconcileOutcome
		detail  string
		err     error
	)

	switch event.Type {
	case domain.EventCheckoutSessionCompleted:
		outcome, detail, err = r.confirm(ctx, event)
	case domain.EventPaymentIntentFailed:
		outcome, detail, err = r.fail(ctx, event)
	default:
		outcome = domain.ReconcileOutcome{Decision: domain.DecisionIgnored}
	}

	logger := r.logger.With("event_id", event.ID, "event_type", event.Type, "order_id", outcome.OrderID)

	if err != nil && !domain.IsCode(err, domain.EINVALID) {
		// Nothing is recorded, so the redelivery is evaluated afresh.
		logger.Error("Webhook reconciliation failed", "error", err)
		telemetry.CaptureError(ctx, err, map[string]any{"event_id": event.ID, "order_id": outcome.OrderID})
		return outcome, err
	}

	if recErr := r.store.RecordWebhookEvent(ctx, domain.WebhookRecord{
		EventID:   event.ID,
		EventType: event.Type,
		OrderID:   outcome.OrderID,
		Decision:  outcome.Decision,
		Detail:    detail,
	}); recErr != nil {
		logger.Warn("Failed to record webhook event", "error", recErr)
	}

	r.metrics.WebhookDecisions.WithLabelValues(event.Type, string(outcome.Decision)).Inc()
	logger.Info("Webhook event reconciled", "decision", outcome.Decision, "detail", detail)

	return outcome, err
}

// confirm handles checkout.session.completed.
func (r *webhookReconciler) confirm(ctx context.Context, event domain.GatewayEvent) (domain.ReconcileOutcome, string, error) {
	const op = "webhook.confirm"

	if event.OrderID == "" {
		return domain.ReconcileOutcome{Decision: domain.DecisionRejected}, "session metadata has no order_id",
			domain.Invalid(op, "checkout session metadata is missing order_id")
	}
	outcome := domain.ReconcileOutcome{OrderID: event.OrderID}

	order, err := r.store.Get(ctx, event.OrderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		outcome.Decision = domain.DecisionNoMatchingOrder
		return outcome, "order id from metadata not found", nil
	}
	if err != nil {
		return outcome, "", err
	}

	params := domain.ConfirmParams{
		PaymentID:     event.PaymentIntentID,
		CapturedCents: event.AmountTotalCents,
	}
	if params.PaymentID == "" {
		params.PaymentID = event.SessionID
	}
	if c := params.CapturedCents; c != nil && *c < order.ItemsSubtotalCents() {
		r.logger.Warn("Captured amount below item subtotal; recording gateway amount",
			"order_id", order.ID,
			"captured_cents", *c,
			"subtotal_cents", order.ItemsSubtotalCents(),
		)
	}

	current := order.Status
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		if _, err := domain.Transition(current, domain.StatusConfirmed, domain.ActorGateway); err != nil {
			return r.confirmRejected(ctx, outcome, current, err)
		}

		updated, err := r.store.Confirm(ctx, order.ID, domain.AllowedFrom(domain.ActorGateway, domain.StatusConfirmed), params)
		var stale *domain.StaleStatusError
		switch {
		case errors.As(err, &stale):
			current = stale.Current
			continue
		case domain.IsCode(err, domain.ECONFLICT):
			// The payment id is already on another order. Redelivery cannot fix this.
			r.metrics.WebhookConflicts.Inc()
			telemetry.CaptureMessage(ctx, "payment id already recorded on another order", sentry.LevelError,
				map[string]any{"order_id": order.ID, "payment_id": params.PaymentID, "event_id": event.ID})
			outcome.Decision = domain.DecisionRejected
			return outcome, domain.ErrorMessage(err), nil
		case err != nil:
			return outcome, "", err
		}

		r.notifier.Transitioned(ctx, updated, current, domain.ActorGateway)
		outcome.Decision = domain.DecisionConfirmed
		return outcome, fmt.Sprintf("confirmed from %s", current), nil
	}

	return outcome, "", domain.Internal(nil, op, "order status kept changing during confirmation")
}

func (r *webhookReconciler) confirmRejected(ctx context.Context, outcome domain.ReconcileOutcome, current domain.OrderStatus, err error) (domain.ReconcileOutcome, string, error) {
	if errors.Is(err, domain.ErrAlreadyApplied) {
		outcome.Decision = domain.DecisionAlreadyApplied
		return outcome, fmt.Sprintf("order already %s", current), nil
	}

	// Payment captured for an order that can no longer be confirmed, e.g. cancelled
	// by its owner while the customer was on the payment page. Needs a human.
	r.metrics.WebhookConflicts.Inc()
	r.logger.Warn("Payment completed for order in conflicting status",
		"order_id", outcome.OrderID,
		"status", current,
	)
	telemetry.CaptureMessage(ctx, "payment completed for order in conflicting status", sentry.LevelWarning,
		map[string]any{"order_id": outcome.OrderID, "status": string(current)})

	outcome.Decision = domain.DecisionRejected
	return outcome, domain.ErrorMessage(err), nil
}

// fail handles payment_intent.payment_failed. The event carries no order metadata,
// so the order is found by payment id.
func (r *webhookReconciler) fail(ctx context.Context, event domain.GatewayEvent) (domain.ReconcileOutcome, string, error) {
	if event.PaymentIntentID == "" {
		return domain.ReconcileOutcome{Decision: domain.DecisionIgnored}, "event has no payment intent id", nil
	}

	order, err := r.store.GetByPaymentID(ctx, event.PaymentIntentID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return domain.ReconcileOutcome{Decision: domain.DecisionNoMatchingOrder}, "no order with payment id " + event.PaymentIntentID, nil
	}
	if err != nil {
		return domain.ReconcileOutcome{}, "", err
	}

	outcome := domain.ReconcileOutcome{OrderID: order.ID}
	current := order.Status
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		if _, err := domain.Transition(current, domain.StatusPaymentFailed, domain.ActorGateway); err != nil {
			if errors.Is(err, domain.ErrAlreadyApplied) {
				outcome.Decision = domain.DecisionAlreadyApplied
			} else {
				outcome.Decision = domain.DecisionRejected
			}
			return outcome, fmt.Sprintf("order is %s", current), nil
		}

		updated, err := r.store.TransitionStatus(ctx, order.ID, domain.AllowedFrom(domain.ActorGateway, domain.StatusPaymentFailed), domain.StatusPaymentFailed)
		var stale *domain.StaleStatusError
		if errors.As(err, &stale) {
			current = stale.Current
			continue
		}
		if err != nil {
			return outcome, "", err
		}

		r.notifier.Transitioned(ctx, updated, current, domain.ActorGateway)
		outcome.Decision = domain.DecisionPaymentFailed
		return outcome, "", nil
	}

	return outcome, "", domain.Internal(nil, "webhook.fail", "order status kept changing during payment failure")
}
