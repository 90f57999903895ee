package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vize-dostu/internal/adapters/eventbroker/nats"
	"vize-dostu/internal/adapters/metrics"
	"vize-dostu/internal/adapters/repository/postgres"
	"vize-dostu/internal/adapters/storage"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/service/notification"
	"vize-dostu/internal/core/service/processing"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.Log)

	// Initialize database
	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	objectStore, err := storage.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init object store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	logger.Info("object store initialized", "driver", cfg.Storage.Driver)

	// Follow-up jobs are published back on the same stream
	publisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close NATS publisher", "error", err)
		}
	}()

	// Initialize repositories
	unitOfWork := postgres.NewUnitOfWork(db)

	// Initialize services
	dispatcher := processing.NewDispatcher(publisher)
	notifier := notification.NewNotifier(unitOfWork, logger)
	expiryService := processing.NewExpiryService(unitOfWork, notifier, cfg.Expiry, logger)
	jobHandler := metrics.InstrumentMessages(processing.NewJobHandler(unitOfWork, objectStore, dispatcher, expiryService, logger))

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	// Subscribe to NATS
	if err := natsConsumer.Subscribe(ctx, jobHandler); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS subscription active", "stream", cfg.NATS.StreamName, "consumer", cfg.NATS.ConsumerName)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              cfg.Worker.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start metrics server", "error", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down document worker")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Close NATS consumer
	if err := natsConsumer.Close(); err != nil {
		logger.Error("failed to close NATS consumer during shutdown", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown metrics server", "error", err)
	}

	logger.Info("document worker shutdown complete")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
