package webhook

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dukerupert/stitchwork/internal/billing"
	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/handler"
	"github.com/dukerupert/stitchwork/internal/middleware"
	"github.com/dukerupert/stitchwork/internal/telemetry"
)

// StripeHandler receives Stripe webhook deliveries.
type StripeHandler struct {
	gateway    billing.Gateway
	reconciler domain.WebhookReconciler
	metrics    *telemetry.BusinessMetrics
}

// NewStripeHandler creates a new Stripe webhook handler
func NewStripeHandler(gateway billing.Gateway, reconciler domain.WebhookReconciler, metrics *telemetry.BusinessMetrics) *StripeHandler {
	return &StripeHandler{
		gateway:    gateway,
		reconciler: reconciler,
		metrics:    metrics,
	}
}

// HandleWebhook handles POST /webhooks/stripe
//
// The signature is verified over the body bytes exactly as received. Once it
// verifies, the response is 200 whatever the business outcome, except:
//   - 400 when the event cannot be evaluated (checkout session without an order id)
//   - 500 when the order store failed, so Stripe redelivers
//
// Stripe CLI testing:
//
//	stripe listen --forward-to localhost:3000/webhooks/stripe
//	stripe trigger checkout.session.completed
func (h *StripeHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := middleware.GetLogger(r.Context())

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handler.ErrorResponse(w, r, domain.Errorf(domain.ETOOLARGE, "webhook.read", "payload too large"))
			return
		}
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "webhook.read", "error reading request body"))
		return
	}

	event, err := h.gateway.VerifyAndParseEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, billing.ErrInvalidWebhookSignature) {
			h.metrics.WebhookReceived.WithLabelValues("invalid_signature").Inc()
			logger.Warn("Webhook signature verification failed",
				"error", err,
				"payload_bytes", len(payload),
				"client_ip", middleware.ClientIP(r),
			)
			handler.ErrorResponse(w, r, domain.WrapError(err, domain.EAUTHENTICITY, "webhook.verify", "invalid signature"))
			return
		}
		// Signed by Stripe but with a body we cannot decode; a redelivery will not fix it.
		h.metrics.WebhookReceived.WithLabelValues("malformed").Inc()
		handler.ErrorResponse(w, r, domain.WrapError(err, domain.EINVALID, "webhook.parse", "malformed event"))
		return
	}
	h.metrics.WebhookReceived.WithLabelValues("verified").Inc()

	outcome, err := h.reconciler.Reconcile(r.Context(), *event)
	h.metrics.WebhookLatency.WithLabelValues(event.Type).Observe(time.Since(start).Seconds())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	logger.Debug("Webhook acknowledged",
		"event_id", event.ID,
		"event_type", event.Type,
		"decision", outcome.Decision,
	)
	handler.JSON(w, http.StatusOK, map[string]any{"received": true})
}
