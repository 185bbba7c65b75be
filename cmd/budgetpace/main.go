package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"budgetpace/internal/amqp"
	"budgetpace/internal/auth"
	"budgetpace/internal/cache"
	"budgetpace/internal/cli"
	"budgetpace/internal/core"
	apphttp "budgetpace/internal/http"
	applog "budgetpace/internal/log"
	"budgetpace/internal/services"
	"budgetpace/internal/stats"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)
	cfg.LogStartup(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Publishing is optional; without a broker the ledger is not mirrored.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without mirroring", applog.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	payloads := cache.NewLRUCache[stats.Payload](cfg.CacheSize, cfg.CacheTTL)
	buckets := cache.NewLRUCache[[]core.CategoryBucket](cfg.CacheSize, cfg.CacheTTL)
	caches := cache.NewManager()
	caches.Register(payloads)
	caches.Register(buckets)
	caches.StartCleanup(cfg.CacheTTL)

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Stats:        stats.NewComposer(repo),
		Transactions: services.NewTransactionService(repo, publisher, caches),
		Categories:   services.NewCategoryService(repo, caches),
		Settings:     services.NewSettingsService(repo, caches),
		Usage:        services.NewUsageService(repo, int64(cfg.VoiceMonthlyLimit), int64(cfg.ScanMonthlyLimit)),
		Vendors:      services.NewVendorSuggester(repo),
		Account:      services.NewAccountService(repo, publisher, caches),
		Auth:         auth.NewResolver(cfg.JWTSecret, cfg.AllowDeviceHeader),
		Ready:        repo,
		Logger:       logger.WithComponent(applog.ComponentHTTP),
		Payloads:     payloads,
		Buckets:      buckets,
		Caches:       caches,
	}, apphttp.Options{
		TrustedProxies: cfg.TrustedProxies,
		RateLimitRPM:   cfg.RateLimitRPM,
	})
	if err != nil {
		logger.Error("Failed to configure server", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting budgetpace server", "port", cfg.Port, "mirroring", publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
