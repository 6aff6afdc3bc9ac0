package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fleetstats/internal/amqp"
	"fleetstats/internal/cache"
	"fleetstats/internal/cli"
	"fleetstats/internal/config"
	logx "fleetstats/internal/log"
	"fleetstats/internal/services"
	"fleetstats/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(logx.ComponentWorker)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Starting fleetstats-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	opts, err := cfg.StatsOptions()
	if err != nil {
		logger.Error("Invalid engine options", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.RequestQueue, cfg.ResultQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultTTL
	}
	service := services.NewStatsService(repo, opts, cfg.CacheSize, cacheTTL, logger)
	statsWorker := worker.NewStatsWorker(service, amqpClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		handler := func(msg *amqp.StatsRequestMessage) error {
			return statsWorker.HandleStatsRequest(ctx, msg)
		}
		if err := amqpClient.ConsumeStatsRequests(ctx, handler); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		cancel()
	})

	select {
	case <-ctx.Done():
		logger.Info("Worker context cancelled")
	case <-shutdownCtx.Done():
		<-done
	}
}
