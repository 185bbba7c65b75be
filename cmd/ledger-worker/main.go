package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budgetpace/internal/amqp"
	"budgetpace/internal/backend"
	"budgetpace/internal/cli"
	applog "budgetpace/internal/log"
	"budgetpace/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)

	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Mirror configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	cfg.LogStartup(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	mirror, err := backend.NewMirror(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger mirror", applog.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mw := worker.NewMirrorWorker(repo, mirror)

	// Events published while the worker was down are still queued; backfill
	// covers rows written before mirroring was enabled.
	for _, owner := range cfg.BackfillOwners {
		synced, failed, err := mw.Backfill(ctx, owner)
		if err != nil {
			logger.Error("Backfill failed", applog.FieldOwner, owner, applog.FieldError, err)
			continue
		}
		logger.Info("Backfill complete", applog.FieldOwner, owner, "synced", synced, "failed", failed)
	}

	logger.Info("Starting ledger worker", "mirror", cfg.MirrorBackend, "queue", cfg.AMQPQueue)
	if err := amqpClient.ConsumeTransactionEvents(ctx, mw.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
