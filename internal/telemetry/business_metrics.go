package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for order lifecycle observability.
type BusinessMetrics struct {
	// Checkout
	CheckoutStarted   prometheus.Counter
	CheckoutSucceeded prometheus.Counter
	CheckoutFailed    *prometheus.CounterVec
	GatewayLatency    *prometheus.HistogramVec

	// Orders
	OrdersCreated    prometheus.Counter
	OrderValue       prometheus.Histogram
	OrderItemCount   prometheus.Histogram
	OrderTransitions *prometheus.CounterVec

	// Webhooks
	WebhookReceived  *prometheus.CounterVec
	WebhookDecisions *prometheus.CounterVec
	WebhookConflicts prometheus.Counter
	WebhookLatency   *prometheus.HistogramVec

	// Reports
	ReportsBuilt   *prometheus.CounterVec
	ReportDuration *prometheus.HistogramVec
	ReportCache    *prometheus.CounterVec

	// Sweep
	OrdersExpired prometheus.Counter
}

// NewBusinessMetrics creates business metrics registered on reg.
// A nil reg uses the default registerer.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "stitchwork"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	subsystem := "business"

	return &BusinessMetrics{
		// =======================================================================
		// Checkout
		// =======================================================================
		CheckoutStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkout_started_total",
			Help:      "Total checkout requests that passed validation",
		}),
		CheckoutSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkout_succeeded_total",
			Help:      "Total checkouts that produced a hosted payment session",
		}),
		CheckoutFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_failed_total",
				Help:      "Total failed checkouts",
			},
			[]string{"reason"}, // reason: validation, catalog, store, gateway
		),
		GatewayLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gateway_request_duration_seconds",
				Help:      "Payment gateway request latency",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation", "result"},
		),

		// =======================================================================
		// Orders
		// =======================================================================
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orders_created_total",
			Help:      "Total pending orders created",
		}),
		OrderValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_value_cents",
			Help:      "Distribution of order item totals in cents",
			Buckets:   []float64{1000, 2500, 5000, 10000, 25000, 50000, 100000},
		}),
		OrderItemCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_item_count",
			Help:      "Distribution of line items per order",
			Buckets:   []float64{1, 2, 3, 5, 10, 20},
		}),
		OrderTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_transitions_total",
				Help:      "Total applied order status transitions",
			},
			[]string{"actor", "to"},
		),

		// =======================================================================
		// Webhooks
		// =======================================================================
		WebhookReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhook_received_total",
				Help:      "Total webhook deliveries by verification result",
			},
			[]string{"result"}, // result: verified, invalid_signature, malformed
		),
		WebhookDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhook_decisions_total",
				Help:      "Total reconciliation decisions by event type",
			},
			[]string{"event_type", "decision"},
		),
		WebhookConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "webhook_conflicts_total",
			Help:      "Payment confirmations that arrived for orders in a conflicting status",
		}),
		WebhookLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhook_duration_seconds",
				Help:      "Time from receipt to acknowledgement of a verified webhook",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"event_type"},
		),

		// =======================================================================
		// Reports
		// =======================================================================
		ReportsBuilt: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reports_built_total",
				Help:      "Total sales reports built",
			},
			[]string{"kind"}, // kind: sales, design, designer
		),
		ReportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "report_duration_seconds",
				Help:      "Time to fetch and aggregate a report",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		ReportCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "report_cache_total",
				Help:      "Report cache lookups by result",
			},
			[]string{"result"}, // result: hit, miss, error
		),

		// =======================================================================
		// Sweep
		// =======================================================================
		OrdersExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orders_expired_total",
			Help:      "Pending orders cancelled by the stale-order sweep",
		}),
	}
}

// NewNopBusinessMetrics returns metrics on a private registry, for tests and tools.
func NewNopBusinessMetrics() *BusinessMetrics {
	return NewBusinessMetrics("stitchwork", prometheus.NewRegistry())
}
