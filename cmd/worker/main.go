package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/shht-tools/tradedesk/internal/admin/dashboard"
	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/app"
	"github.com/shht-tools/tradedesk/internal/lookup"
	"github.com/shht-tools/tradedesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	// The worker calls upstream with no operator session, so requests go
	// out unauthenticated; warmup endpoints must be readable that way or
	// the jobs simply log and retry.
	api := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout, nil, logger)

	lookupCache := lookup.NewCache(redisClient, cfg.LookupCacheTTL)
	if err := lookupCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("lookup invalidation listener", slog.Any("error", err))
	}
	lookups := lookup.NewProvider(api, lookupCache, logger)
	lookupJob := jobs.NewLookupWarmupJob(lookups, logger, nil)

	dashboardService := dashboard.NewService(api, redisClient, logger)
	dashboardJob := jobs.NewDashboardWarmupJob(dashboardService, logger, nil)

	lookupTask, err := jobs.NewLookupWarmupTask(jobs.LookupWarmupPayload{WithSubCategories: true})
	if err != nil {
		logger.Error("build lookup warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLookupWarmup, Handler: lookupJob.Handle},
			{Type: jobs.TaskDashboardWarmup, Handler: dashboardJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: lookupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "*/10 * * * *", Task: jobs.NewDashboardWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
