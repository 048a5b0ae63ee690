package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medeiros-dev/notification-decision/configs"
	"github.com/medeiros-dev/notification-decision/internal/app/registry"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/audit"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
	"github.com/medeiros-dev/notification-decision/internal/infrastructure/store/retry"
	"github.com/medeiros-dev/notification-decision/internal/observability/tracing"
	"github.com/medeiros-dev/notification-decision/pkg/logger"
	"go.uber.org/zap"

	// Store and audit drivers register themselves from init().
	_ "github.com/medeiros-dev/notification-decision/internal/infrastructure/auditlog"
	_ "github.com/medeiros-dev/notification-decision/internal/infrastructure/broker"
	_ "github.com/medeiros-dev/notification-decision/internal/infrastructure/store/memory"
	_ "github.com/medeiros-dev/notification-decision/internal/infrastructure/store/sqlite"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := configs.NewConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.InitializeLogger(cfg.LogDevelopment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Error syncing logger: %v", err)
		}
	}()

	logger.L().Info("Starting notification decision service...",
		zap.String("httpAddress", cfg.HTTPAddress),
		zap.String("storeDriver", cfg.StoreDriver),
		zap.String("auditDriver", cfg.AuditDriver),
		zap.Bool("tracingEnabled", cfg.TracingEnabled),
	)

	if cfg.TracingEnabled {
		if _, err := tracing.InitTracer(cfg); err != nil {
			logger.L().Fatal("Failed to initialize tracer", zap.Error(err))
		}
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		tracing.ShutdownTracer(ctx)
	}()

	prefsStore, err := newStore(cfg)
	if err != nil {
		logger.L().Fatal("Failed to initialize preferences store", zap.Error(err))
	}
	defer closeStore(prefsStore)

	recorder, err := newRecorder(cfg)
	if err != nil {
		logger.L().Fatal("Failed to initialize audit recorder", zap.Error(err))
	}
	defer closeRecorder(recorder)

	if !cfg.LogDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:    cfg.HTTPAddress,
		Handler: newRouter(prefsStore, recorder, cfg.OtelServiceName),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.L().Info("Server starting", zap.String("address", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.L().Info("Received signal, shutting down gracefully...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.L().Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("HTTP server shutdown error", zap.Error(err))
	} else {
		logger.L().Info("HTTP server shut down successfully.")
	}
}

func newStore(cfg *configs.Config) (store.PreferencesStore, error) {
	factory, err := registry.GetStoreFactory(cfg.StoreDriver)
	if err != nil {
		return nil, err
	}
	s, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	retryCfg := configs.GetRetryConfig()
	return retry.Wrap(s, retryCfg.MaxRetries, retryCfg.BaseDelay), nil
}

func newRecorder(cfg *configs.Config) (audit.Recorder, error) {
	factory, err := registry.GetRecorderFactory(cfg.AuditDriver)
	if err != nil {
		return nil, err
	}
	return factory(cfg)
}

func closeStore(s store.PreferencesStore) {
	if wrapped, ok := s.(*retry.Store); ok {
		s = wrapped.Unwrap()
	}
	closer, ok := s.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logger.L().Error("Error closing preferences store", zap.Error(err))
	}
}

func closeRecorder(r audit.Recorder) {
	closer, ok := r.(io.Closer)
	if !ok {
		return
	}
	logger.L().Info("Closing audit recorder...")
	if err := closer.Close(); err != nil {
		logger.L().Error("Error closing audit recorder", zap.Error(err))
	}
}
