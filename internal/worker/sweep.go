package worker

import (
	"context"
	"log/slog"

	"github.com/dukerupert/stitchwork/internal/service"
)

// SweepJob runs the stale pending order sweep.
type SweepJob struct {
	sweeper *service.Sweeper
	logger  *slog.Logger
}

func NewSweepJob(sweeper *service.Sweeper, logger *slog.Logger) *SweepJob {
	return &SweepJob{sweeper: sweeper, logger: logger}
}

func (j *SweepJob) Name() string { return "sweep:stale_pending_orders" }

func (j *SweepJob) Run(ctx context.Context) error {
	result, err := j.sweeper.Run(ctx)
	if err != nil {
		return err
	}
	if result.Cancelled > 0 || result.Failed > 0 {
		j.logger.Info("stale pending orders swept",
			"scanned", result.Scanned,
			"cancelled", result.Cancelled,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}
	return nil
}
