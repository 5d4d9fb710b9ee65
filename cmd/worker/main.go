package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicnexus/clinic-api/internal/config"
	"github.com/clinicnexus/clinic-api/internal/email"
	"github.com/clinicnexus/clinic-api/internal/repository/postgres"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
	"github.com/clinicnexus/clinic-api/internal/service/notify"
	stockService "github.com/clinicnexus/clinic-api/internal/service/stock"
	"github.com/clinicnexus/clinic-api/pkg/logger"
	"github.com/clinicnexus/clinic-api/pkg/messaging/redis"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
	"github.com/clinicnexus/clinic-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := logger.ParseLevel(cfg.Logger.Level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	appLogger := logger.New(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Logger.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &appLogger.ZL)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	var mailer email.Sender = email.NopSender{}
	if cfg.Email.Enabled {
		mailer = email.NewSender(cfg.Email)
	}

	base := postgres.NewBaseRepository(db)
	outboxRepo := postgres.NewOutboxRepository(base)
	inventoryRepo := postgres.NewInventoryRepository(base)
	usageRepo := postgres.NewAppointmentInventoryRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)

	m := metrics.New(cfg.Metrics.Namespace)
	auditor := audit.NewService(appLogger.ZL)
	notifier := notify.NewService(outboxRepo)
	stockSvc := stockService.NewService(&base, inventoryRepo, usageRepo, appointmentRepo, notifier, auditor, m, appLogger.ZL)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, mailer, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetentionDays: cfg.Outbox.RetentionDays,
	}, appLogger, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()

	if cfg.Sweep.Enabled {
		sweeper := worker.NewSweeper(stockSvc, cfg.Sweep.Interval, appLogger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			sweeper.Start(ctx)
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down worker")
	cancel()
	wg.Wait()
}
