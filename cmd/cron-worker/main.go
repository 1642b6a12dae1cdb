package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/flashnacks/flashnacks-backend/internal/cron"
	"github.com/flashnacks/flashnacks-backend/pkg/config"
	"github.com/flashnacks/flashnacks-backend/pkg/db"
	"github.com/flashnacks/flashnacks-backend/pkg/instance"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
	"github.com/flashnacks/flashnacks-backend/pkg/metrics"
	"github.com/flashnacks/flashnacks-backend/pkg/migrate"
	"github.com/flashnacks/flashnacks-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	maintenanceRepo := cron.NewMaintenanceRepository()

	duplicateJob, err := cron.NewDuplicateCartCleanupJob(cron.DuplicateCartCleanupJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: maintenanceRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create duplicate cart job", err)
		os.Exit(1)
	}

	staleJob, err := cron.NewStaleCartExpiryJob(cron.StaleCartExpiryJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: maintenanceRepo,
		StaleAfter: cfg.Cart.StaleAfter,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stale cart job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker:"+cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(duplicateJob, staleJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
}
