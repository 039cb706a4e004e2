package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/stitchwork/internal"
	"github.com/dukerupert/stitchwork/internal/billing"
	"github.com/dukerupert/stitchwork/internal/cache"
	"github.com/dukerupert/stitchwork/internal/events"
	"github.com/dukerupert/stitchwork/internal/handler"
	"github.com/dukerupert/stitchwork/internal/handler/admin"
	"github.com/dukerupert/stitchwork/internal/handler/storefront"
	"github.com/dukerupert/stitchwork/internal/handler/webhook"
	"github.com/dukerupert/stitchwork/internal/middleware"
	"github.com/dukerupert/stitchwork/internal/postgres"
	"github.com/dukerupert/stitchwork/internal/router"
	"github.com/dukerupert/stitchwork/internal/routes"
	"github.com/dukerupert/stitchwork/internal/service"
	"github.com/dukerupert/stitchwork/internal/shipping"
	"github.com/dukerupert/stitchwork/internal/tax"
	"github.com/dukerupert/stitchwork/internal/telemetry"
	"github.com/dukerupert/stitchwork/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "stitchwork"

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize Sentry (no-op when disabled)
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
		Debug:       cfg.Env == "dev",
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if version, err := internal.MigrationStatus(sqlDB); err == nil {
		logger.Info("Database migrations completed successfully", "version", version)
	}

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := postgres.NewOrderStore(pool)
	catalog := postgres.NewCatalog(pool)

	// Metrics
	metrics := middleware.NewMetrics(metricsNamespace, prometheus.DefaultRegisterer)
	businessMetrics := telemetry.NewBusinessMetrics(metricsNamespace, prometheus.DefaultRegisterer)

	// Report cache
	var reportCache cache.ReportCache
	if cfg.Redis.URL != "" {
		logger.Info("Initializing Redis report cache...")
		redisCache, err := cache.NewRedisReportCache(cfg.Redis.URL, metricsNamespace, cfg.Redis.ReportCacheTTL)
		if err != nil {
			return fmt.Errorf("failed to initialize report cache: %w", err)
		}
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		reportCache = redisCache
		logger.Info("Redis report cache initialized", "ttl", cfg.Redis.ReportCacheTTL)
	} else {
		reportCache = cache.NewMemoryReportCache(cfg.Redis.ReportCacheTTL)
		logger.Info("Using in-process report cache", "ttl", cfg.Redis.ReportCacheTTL)
	}

	// Order event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.URL != "" {
		logger.Info("Connecting to NATS...")
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publisher = natsPublisher
		logger.Info("NATS publisher initialized")
	} else {
		logger.Warn("NATS_URL not set, order events will not be published")
	}
	defer publisher.Close()

	// Payment gateway
	logger.Info("Initializing Stripe gateway...")
	gateway, err := billing.NewStripeGateway(cfg.Stripe.Gateway(cfg.Checkout.Currency))
	if err != nil {
		return fmt.Errorf("failed to initialize stripe gateway: %w", err)
	}
	logger.Info("Stripe gateway initialized")

	// Tax and shipping
	taxCalculator := tax.NewNoTaxCalculator()
	if cfg.Checkout.TaxRateBPS > 0 {
		taxCalculator, err = tax.NewFlatRateCalculator(cfg.Checkout.TaxRateBPS)
		if err != nil {
			return fmt.Errorf("failed to initialize tax calculator: %w", err)
		}
	}

	var shipper shipping.Provider
	if cfg.Checkout.ShippingFlatCents > 0 {
		shipper = shipping.NewFlatRateProvider("Standard Shipping", cfg.Checkout.ShippingFlatCents, cfg.Checkout.ShippingFreeOverCents)
	}

	// Initialize services
	notifier := service.NewNotifier(publisher, reportCache, businessMetrics, logger)
	orderService := service.NewOrderService(store, catalog, notifier, logger)

	checkoutService, err := service.NewCheckoutService(store, catalog, gateway, taxCalculator, shipper, notifier, service.CheckoutConfig{
		BaseURL:        cfg.BaseURL,
		SuccessPath:    cfg.Checkout.SuccessPath,
		CancelPath:     cfg.Checkout.CancelPath,
		Currency:       cfg.Checkout.Currency,
		GatewayTimeout: cfg.Stripe.Timeout,
	}, businessMetrics, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize checkout service: %w", err)
	}

	reportService := service.NewReportService(store, catalog, reportCache, businessMetrics, logger)
	reconciler := service.NewWebhookReconciler(store, notifier, businessMetrics, logger)
	sweeper := service.NewSweeper(store, notifier, businessMetrics, logger, cfg.Sweep.PendingOrderTTL, cfg.Sweep.BatchSize)

	handler.Configure(handler.Config{ShowErrorDetails: cfg.Env == "dev"})

	// Rate limiters
	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	checkoutRateLimiter := middleware.NewRateLimiter(middleware.CheckoutRateLimiterConfig())
	defer checkoutRateLimiter.Stop()

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig = middleware.DevSecurityHeadersConfig()
	}

	authenticator := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithClientIP,
		middleware.WithRequestLogger(logger),
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		defaultRateLimiter.Middleware,
		middleware.WithPrincipal(authenticator),
		telemetry.SentryMiddleware(),
		router.Logger(logger),
	)

	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		CheckoutHandler:   storefront.NewCheckoutHandler(checkoutService),
		OrderHandler:      storefront.NewOrderHandler(orderService),
		CheckoutRateLimit: checkoutRateLimiter.Middleware,
	})
	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		OrderHandler:  admin.NewOrderHandler(orderService),
		ReportHandler: admin.NewReportHandler(reportService),
	})
	routes.RegisterWebhookRoutes(r, routes.WebhookDeps{
		StripeHandler: webhook.NewStripeHandler(gateway, reconciler, businessMetrics),
	})
	routes.RegisterOpsRoutes(r, routes.OpsDeps{
		Metrics: metrics.Handler(),
		Health: func(w http.ResponseWriter, req *http.Request) {
			pingCtx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(pingCtx); err != nil {
				handler.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
			handler.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		},
	})

	// Background sweep of abandoned checkouts
	if cfg.Sweep.Interval > 0 {
		w := worker.NewWorker(worker.Config{
			PollInterval: cfg.Sweep.Interval,
			RunOnStart:   true,
		}, logger, worker.NewSweepJob(sweeper, logger))
		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("worker stopped", "error", err)
			}
		}()
	} else {
		logger.Info("In-process sweep disabled, run cmd/sweep on a schedule")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r.Wrap(router.CORS(cfg.CORS.AllowedOrigins)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
