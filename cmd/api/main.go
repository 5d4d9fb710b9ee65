package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/clinicnexus/clinic-api/internal/config"
	"github.com/clinicnexus/clinic-api/internal/handler"
	appointmentHandler "github.com/clinicnexus/clinic-api/internal/handler/appointment"
	authHandler "github.com/clinicnexus/clinic-api/internal/handler/auth"
	billingHandler "github.com/clinicnexus/clinic-api/internal/handler/billing"
	feedbackHandler "github.com/clinicnexus/clinic-api/internal/handler/feedback"
	inventoryHandler "github.com/clinicnexus/clinic-api/internal/handler/inventory"
	patientHandler "github.com/clinicnexus/clinic-api/internal/handler/patient"
	reportHandler "github.com/clinicnexus/clinic-api/internal/handler/report"
	staffHandler "github.com/clinicnexus/clinic-api/internal/handler/staff"
	visitHandler "github.com/clinicnexus/clinic-api/internal/handler/visit"
	"github.com/clinicnexus/clinic-api/internal/middleware"
	"github.com/clinicnexus/clinic-api/internal/repository/postgres"
	"github.com/clinicnexus/clinic-api/internal/router"
	appointmentService "github.com/clinicnexus/clinic-api/internal/service/appointment"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
	authService "github.com/clinicnexus/clinic-api/internal/service/auth"
	billingService "github.com/clinicnexus/clinic-api/internal/service/billing"
	feedbackService "github.com/clinicnexus/clinic-api/internal/service/feedback"
	inventoryService "github.com/clinicnexus/clinic-api/internal/service/inventory"
	"github.com/clinicnexus/clinic-api/internal/service/notify"
	patientService "github.com/clinicnexus/clinic-api/internal/service/patient"
	reportService "github.com/clinicnexus/clinic-api/internal/service/report"
	rosterService "github.com/clinicnexus/clinic-api/internal/service/roster"
	schedulingService "github.com/clinicnexus/clinic-api/internal/service/scheduling"
	staffService "github.com/clinicnexus/clinic-api/internal/service/staff"
	stockService "github.com/clinicnexus/clinic-api/internal/service/stock"
	visitService "github.com/clinicnexus/clinic-api/internal/service/visit"
	"github.com/clinicnexus/clinic-api/pkg/logger"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
	"github.com/clinicnexus/clinic-api/pkg/security"
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

	base := postgres.NewBaseRepository(db)
	patientRepo := postgres.NewPatientRepository(base)
	staffRepo := postgres.NewStaffRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	billingRepo := postgres.NewBillingRepository(base)
	inventoryRepo := postgres.NewInventoryRepository(base)
	usageRepo := postgres.NewAppointmentInventoryRepository(base)
	feedbackRepo := postgres.NewFeedbackRepository(base)
	rosterRepo := postgres.NewRosterRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)
	reportRepo := postgres.NewReportRepository(base)

	m := metrics.New(cfg.Metrics.Namespace)
	auditor := audit.NewService(appLogger.ZL)
	notifier := notify.NewService(outboxRepo)

	schedulingSvc := schedulingService.NewService(&base, patientRepo, staffRepo, appointmentRepo, billingRepo, notifier, auditor, m, appLogger.ZL)
	visitSvc := visitService.NewService(&base, appointmentRepo, billingRepo, inventoryRepo, usageRepo, schedulingSvc, notifier, auditor, m, appLogger.ZL)
	stockSvc := stockService.NewService(&base, inventoryRepo, usageRepo, appointmentRepo, notifier, auditor, m, appLogger.ZL)
	rosterSvc := rosterService.NewService(&base, staffRepo, rosterRepo, appointmentRepo, notifier, auditor, m, appLogger.ZL)
	patientSvc := patientService.NewService(patientRepo, staffRepo, auditor)
	staffSvc := staffService.NewService(staffRepo, auditor)
	appointmentSvc := appointmentService.NewService(appointmentRepo, auditor)
	billingSvc := billingService.NewService(billingRepo, auditor)
	inventorySvc := inventoryService.NewService(inventoryRepo, auditor)
	feedbackSvc := feedbackService.NewService(feedbackRepo, appointmentRepo)
	reportSvc := reportService.NewService(reportRepo)
	authSvc := authService.NewService(cfg.JWT, security.NewBcryptHasher(0))

	h := handler.NewHandler(db)

	r := router.NewRouter(
		h,
		authSvc,
		authHandler.NewHandler(authSvc),
		appLogger.ZL,
		router.Config{
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			CORSConfig:       middleware.DefaultCORSConfig(),
			MetricsNamespace: cfg.Metrics.Namespace,
			MetricsPath:      cfg.Metrics.Path,
			AuthEnabled:      len(cfg.JWT.Clients) > 0,
		},
		patientHandler.NewHandler(patientSvc),
		staffHandler.NewHandler(staffSvc, rosterSvc),
		appointmentHandler.NewHandler(appointmentSvc, schedulingSvc, stockSvc),
		visitHandler.NewHandler(visitSvc),
		billingHandler.NewHandler(billingSvc),
		inventoryHandler.NewHandler(inventorySvc, stockSvc),
		feedbackHandler.NewHandler(feedbackSvc),
		reportHandler.NewHandler(reportSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("starting API server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error(err, "forced shutdown")
	}
}
