package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caredesk/hospital-api/internal/config"
	v1 "github.com/caredesk/hospital-api/internal/handler/v1"
	"github.com/caredesk/hospital-api/internal/repository/postgres"
	"github.com/caredesk/hospital-api/internal/service"
	"github.com/caredesk/hospital-api/pkg/auth"
	"github.com/caredesk/hospital-api/pkg/database"
	"github.com/caredesk/hospital-api/pkg/logger"
	"github.com/caredesk/hospital-api/pkg/metrics"
	"github.com/caredesk/hospital-api/pkg/tracer"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("initializing tracer", zap.Error(err))
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("connecting to database", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("migrating database", zap.Error(err))
	}

	collector := metrics.NewCollector("hospital_api")
	if sqlDB, err := db.DB(); err == nil {
		collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
	}

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db, collector)

	// Services
	auditSvc := service.NewAuditService(auditRepo, zlog)
	hospitalSvc := service.NewHospitalService(appointmentRepo, patientRepo, auditSvc, collector, zlog)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, collector, zlog)

	jwtManager := auth.NewJWTManager(cfg.JWT)
	authSvc := service.NewAuthService(userRepo, jwtManager, zlog)

	// Transport
	router := v1.NewRouter(v1.RouterDeps{
		Config:       cfg,
		Log:          zlog,
		Metrics:      collector,
		JWTManager:   jwtManager,
		Appointments: v1.NewAppointmentHandler(hospitalSvc, collector, zlog),
		Patients:     v1.NewPatientHandler(patientSvc, collector, zlog),
		Auth:         v1.NewAuthHandler(authSvc, zlog),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("server starting",
			zap.String("addr", cfg.Server.Address()),
			zap.String("env", cfg.App.Environment),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down, waiting for in-flight requests")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Error("forced shutdown", zap.Error(err))
	}

	// Drain the audit buffer before the process exits.
	auditSvc.Shutdown()

	if err := tp.Shutdown(context.Background()); err != nil {
		zlog.Warn("tracer shutdown", zap.Error(err))
	}

	zlog.Info("server stopped")
}
