package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/telemetry"
)

// Sweep defaults.
const (
	DefaultPendingTTL = 24 * time.Hour
	DefaultSweepBatch = 100
)

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Scanned   int
	Cancelled int
	// Skipped orders changed status concurrently, usually a confirmation that won.
	Skipped int
	Failed  int
}

// Sweeper cancels orders left pending after an abandoned or failed checkout.
type Sweeper struct {
	store      domain.OrderStore
	notifier   *Notifier
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger
	pendingTTL time.Duration
	batchSize  int
	now        func() time.Time
}

// NewSweeper creates a sweeper. Non-positive ttl or batch use the defaults.
func NewSweeper(store domain.OrderStore, notifier *Notifier, metrics *telemetry.BusinessMetrics, logger *slog.Logger, pendingTTL time.Duration, batchSize int) *Sweeper {
	if pendingTTL <= 0 {
		pendingTTL = DefaultPendingTTL
	}
	if batchSize <= 0 {
		batchSize = DefaultSweepBatch
	}
	if metrics == nil {
		metrics = telemetry.NewNopBusinessMetrics()
	}
	return &Sweeper{
		store:      store,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger,
		pendingTTL: pendingTTL,
		batchSize:  batchSize,
		now:        time.Now,
	}
}

// Run cancels up to one batch of stale pending orders as the system actor.
// Each cancellation is a compare-and-swap on pending, so a webhook confirmation
// racing the sweep always wins.
func (s *Sweeper) Run(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	cutoff := s.now().Add(-s.pendingTTL)
	ids, err := s.store.ListStalePending(ctx, cutoff, s.batchSize)
	if err != nil {
		return result, err
	}
	result.Scanned = len(ids)

	from := domain.AllowedFrom(domain.ActorSystem, domain.StatusCancelled)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		updated, err := s.store.TransitionStatus(ctx, id, from, domain.StatusCancelled)
		var stale *domain.StaleStatusError
		switch {
		case errors.As(err, &stale), errors.Is(err, domain.ErrOrderNotFound):
			result.Skipped++
			s.logger.Debug("Skipping order that left pending", "order_id", id)
			continue
		case err != nil:
			result.Failed++
			s.logger.Error("Failed to cancel stale order", "order_id", id, "error", err)
			continue
		}

		result.Cancelled++
		s.metrics.OrdersExpired.Inc()
		s.notifier.Transitioned(ctx, updated, domain.StatusPending, domain.ActorSystem)
	}

	s.logger.Info("Stale order sweep finished",
		"cutoff", cutoff,
		"scanned", result.Scanned,
		"cancelled", result.Cancelled,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}
