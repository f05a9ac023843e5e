package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mihad360/finance-equalizer-server/internal/config"
	"github.com/Mihad360/finance-equalizer-server/internal/handler"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/memstore"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/observability"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/postgrest"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/resilience"
	"github.com/Mihad360/finance-equalizer-server/internal/port"
	"github.com/Mihad360/finance-equalizer-server/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = godotenv.Load()

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "finance-equalizer-server")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}
	cb := resilience.NewCircuitBreaker("record-store")

	// --- Store ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var store port.FinanceStore
	if cfg.StoreURL != "" {
		logger.Info("using PostgREST as record store",
			zap.String("store_url", cfg.StoreURL),
		)
		store = postgrest.NewClient(httpClient, cfg.StoreURL, cfg.StoreServiceKey, cb, resilienceCfg, logger)
	} else {
		logger.Warn("STORE_URL not configured, falling back to in-memory record store")
		store = memstore.New()
	}

	// --- Services ---
	financeSvc := service.NewFinanceService(store, metrics, logger)
	statsSvc := service.NewStatsService(store, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(financeSvc, statsSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
