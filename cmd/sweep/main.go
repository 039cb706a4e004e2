// Command sweep cancels stale pending orders once and exits. It is meant for a
// cron schedule when the server runs with SWEEP_INTERVAL=0.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukerupert/stitchwork/internal"
	"github.com/dukerupert/stitchwork/internal/cache"
	"github.com/dukerupert/stitchwork/internal/events"
	"github.com/dukerupert/stitchwork/internal/postgres"
	"github.com/dukerupert/stitchwork/internal/service"
	"github.com/dukerupert/stitchwork/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publisher = natsPublisher
	}
	defer publisher.Close()

	// Cancellations change report totals, so a shared cache must be invalidated.
	var reportCache cache.ReportCache = cache.NopReportCache{}
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisReportCache(cfg.Redis.URL, "stitchwork", cfg.Redis.ReportCacheTTL)
		if err != nil {
			return fmt.Errorf("failed to initialize report cache: %w", err)
		}
		defer redisCache.Close()
		reportCache = redisCache
	}

	metrics := telemetry.NewNopBusinessMetrics()
	notifier := service.NewNotifier(publisher, reportCache, metrics, logger)
	sweeper := service.NewSweeper(postgres.NewOrderStore(pool), notifier, metrics, logger, cfg.Sweep.PendingOrderTTL, cfg.Sweep.BatchSize)

	result, err := sweeper.Run(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	logger.Info("Sweep finished",
		"scanned", result.Scanned,
		"cancelled", result.Cancelled,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
