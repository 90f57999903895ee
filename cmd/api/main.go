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
	"sync"
	"syscall"
	"time"
	"vize-dostu/internal/adapters/eventbroker/nats"
	"vize-dostu/internal/adapters/handlers/http/chi"
	"vize-dostu/internal/adapters/handlers/http/chi/v1/document"
	"vize-dostu/internal/adapters/handlers/http/chi/v1/passport"
	"vize-dostu/internal/adapters/metrics"
	"vize-dostu/internal/adapters/repository/postgres"
	"vize-dostu/internal/adapters/scheduler"
	"vize-dostu/internal/adapters/storage"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/port"
	"vize-dostu/internal/core/service/cleanup"
	documentservice "vize-dostu/internal/core/service/document"
	"vize-dostu/internal/core/service/notification"
	passportservice "vize-dostu/internal/core/service/passport"
	"vize-dostu/internal/core/service/processing"
	"vize-dostu/internal/core/service/upload"

	_ "github.com/joho/godotenv/autoload"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.Log)

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	objectStore, err := storage.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init object store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	logger.Info("object store initialized", "driver", cfg.Storage.Driver)

	//task queue
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

	//repositories
	unitOfWork := postgres.NewUnitOfWork(db)

	//services
	dispatcher := processing.NewDispatcher(publisher)
	notifier := notification.NewNotifier(unitOfWork, logger)
	uploadService := upload.NewUploadService(unitOfWork, objectStore, dispatcher, notifier, cfg.Upload, logger)
	documentService := documentservice.NewDocumentService(unitOfWork, objectStore, dispatcher, cfg.Upload, logger)
	passportService := passportservice.NewPassportService(unitOfWork, logger)
	cleanupService := cleanup.NewCleanupService(unitOfWork, objectStore, logger)
	expiryService := processing.NewExpiryService(unitOfWork, notifier, cfg.Expiry, logger)

	//http
	documentHandler := document.NewDocumentHandlerV1(uploadService, documentService, cfg.Upload.MaxFileSize, logger)
	passportHandler := passport.NewPassportHandlerV1(passportService, logger)

	router := chi.NewRouter(logger, documentHandler, passportHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	//scheduled maintenance
	jobs := scheduler.New(logger)
	if err := registerJobs(jobs, cfg, cleanupService, expiryService, logger); err != nil {
		logger.Error("failed to register scheduled jobs", "error", err)
		os.Exit(1)
	}
	jobs.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		logger.Error("scheduled jobs did not stop in time", "error", err)
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func registerJobs(jobs *scheduler.Scheduler, cfg *config.Config, cleanupService port.CleanupService, expiryService port.ExpiryService, logger *slog.Logger) error {
	if err := jobs.Register("reap-expired-sessions", cfg.Upload.ReapSchedule, func(ctx context.Context, now time.Time) error {
		return cleanupService.CleanupExpiredSessions(ctx, now)
	}); err != nil {
		return err
	}

	if err := jobs.Register("purge-finished-sessions", cfg.Upload.ReapSchedule, func(ctx context.Context, now time.Time) error {
		return cleanupService.PurgeFinishedSessions(ctx, now.Add(-cfg.Upload.PurgeAfter))
	}); err != nil {
		return err
	}

	return jobs.Register("expiry-sweep", cfg.Expiry.SweepSchedule, func(ctx context.Context, now time.Time) error {
		result, err := expiryService.SweepExpiring(ctx, now)
		if err != nil {
			return err
		}
		metrics.ExpiryReminders(result.Notified)
		logger.Info("expiry sweep completed", "checked", result.Checked, "notified", result.Notified)
		return nil
	})
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
