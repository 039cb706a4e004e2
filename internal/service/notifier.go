package service

import (
	"context"
	"log/slog"

	"github.com/dukerupert/stitchwork/internal/cache"
	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/events"
	"github.com/dukerupert/stitchwork/internal/telemetry"
)

// Notifier runs the side effects of a committed status change: logging, metrics,
// the order event, and report cache invalidation. None of them can fail the change.
type Notifier struct {
	publisher events.Publisher
	reports   cache.ReportCache
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger
}

// NewNotifier creates a Notifier. Nil publisher or cache fall back to no-ops.
func NewNotifier(publisher events.Publisher, reports cache.ReportCache, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *Notifier {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if reports == nil {
		reports = cache.NopReportCache{}
	}
	if metrics == nil {
		metrics = telemetry.NewNopBusinessMetrics()
	}
	return &Notifier{publisher: publisher, reports: reports, metrics: metrics, logger: logger}
}

// Transitioned reports that order moved from from to its current status.
func (n *Notifier) Transitioned(ctx context.Context, order *domain.Order, from domain.OrderStatus, actor domain.Actor) {
	n.logger.Info("Order status changed",
		"order_id", order.ID,
		"from", from,
		"to", order.Status,
		"actor", actor,
	)
	n.metrics.OrderTransitions.WithLabelValues(string(actor), string(order.Status)).Inc()

	subject := events.SubjectFor(actor, order.Status)
	if err := n.publisher.Publish(ctx, subject, events.NewOrderEvent(order, actor)); err != nil {
		n.logger.Warn("Failed to publish order event", "order_id", order.ID, "subject", subject, "error", err)
	}

	if err := n.reports.Invalidate(ctx); err != nil {
		n.logger.Warn("Failed to invalidate report cache", "error", err)
	}
}

// Created reports a newly persisted order. Pending orders count toward reports,
// so cached reports are dropped.
func (n *Notifier) Created(ctx context.Context, order *domain.Order) {
	if err := n.reports.Invalidate(ctx); err != nil {
		n.logger.Warn("Failed to invalidate report cache", "order_id", order.ID, "error", err)
	}
}
