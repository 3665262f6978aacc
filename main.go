package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoice-ocr/pkg/config"
	"invoice-ocr/pkg/database"
	"invoice-ocr/pkg/handlers"
	"invoice-ocr/pkg/logger"
	"invoice-ocr/pkg/metrics"
	"invoice-ocr/pkg/repository"
	"invoice-ocr/pkg/services/ocr"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load environment variables
	envErr := config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewForEnvironment(cfg.App.Env, &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Warn("could not read .env file", zap.Error(envErr))
	}
	if cfg.Database.UsesDefaultPassword() {
		log.Warn("database password is the built-in development default; set DB_PASSWORD")
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.CreateIfMissing {
		if _, err := database.EnsureDatabase(ctx, cfg.Database, log); err != nil {
			if cfg.Database.BootstrapStrict {
				return err
			}
			log.Error("could not ensure database exists, continuing", zap.Error(err))
		}
	}

	// Set up database connection
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	if cfg.Database.MigrateOnStart {
		if err := migrate(cfg.Database, log); err != nil {
			return err
		}
	}

	var m *metrics.Metrics
	var recorder ocr.Recorder
	if cfg.Metrics.Enabled {
		m = metrics.New()
		recorder = m
	}

	relay := ocr.NewService(
		ocr.Config{URL: cfg.Relay.URL, Token: cfg.Relay.Token},
		&http.Client{Timeout: cfg.Relay.Timeout},
		log,
		recorder,
	)
	if !relay.Configured() {
		log.Warn("RELAY_URL is not set; POST /upload will answer 503")
	}

	h := handlers.New(
		repository.NewOCRResultRepository(db.DB, log),
		repository.NewInvoiceItemRepository(db.DB, log),
		relay,
		db,
	)

	// Set up Gin router
	router := handlers.NewRouter(handlers.RouterConfig{
		Handler:         h,
		Logger:          log,
		Metrics:         m,
		MaxUploadMemory: cfg.Relay.MaxUploadSize,
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func migrate(cfg config.DatabaseConfig, log *zap.Logger) error {
	migrator, err := database.NewMigrator(cfg.DSN(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Warn("failed to close migrator", zap.Error(err))
		}
	}()
	return migrator.Up()
}
