package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vmarins/oohplanner/internal/analytics"
	"github.com/vmarins/oohplanner/internal/api"
	"github.com/vmarins/oohplanner/internal/config"
	"github.com/vmarins/oohplanner/internal/db"
	"github.com/vmarins/oohplanner/internal/middleware"
	"github.com/vmarins/oohplanner/internal/observability"
	"github.com/vmarins/oohplanner/internal/ratelimit"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLoggerWithService(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.TempoEndpoint, cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdown()
	}

	pg, err := db.InitPostgres(cfg.PostgresDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime, cfg.DBConnMaxIdleTime)
	if err != nil {
		return fmt.Errorf("failed to connect postgres: %w", err)
	}
	defer pg.Close()

	store, err := db.InitRedis(cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	defer store.Close()

	// Initialize metrics registry
	metricsRegistry := observability.NewPrometheusRegistry()

	analyticsSvc, err := analytics.InitClickHouse(cfg.ClickHouseDSN, cfg.CHMaxOpenConns, cfg.CHMaxIdleConns, cfg.CHConnMaxLifetime, cfg.CHConnMaxIdleTime, metricsRegistry)
	if err != nil {
		return fmt.Errorf("failed to connect clickhouse: %w", err)
	}
	defer analyticsSvc.Close()

	limiter := ratelimit.NewBlockLimiter(ratelimit.Config{
		Capacity:   cfg.RateLimitCapacity,
		RefillRate: cfg.RateLimitRefillRate,
		Enabled:    cfg.RateLimitEnabled,
	}, metricsRegistry)

	srvDeps := api.NewServer(logger, store, pg, analyticsSvc, pg, limiter, metricsRegistry, cfg)

	r := mux.NewRouter()
	r.Use(middleware.WithTraceLogger(logger))
	r.HandleFunc("/optimize", srvDeps.OptimizeHandler).Methods("POST")
	r.HandleFunc("/plan/ideal", srvDeps.IdealPlanHandler).Methods("POST")
	r.HandleFunc("/plan/efficiency", srvDeps.EfficiencyHandler).Methods("POST")
	r.HandleFunc("/plan/players", srvDeps.PlayersHandler).Methods("POST")
	r.HandleFunc("/grid/allocate", srvDeps.GridAllocateHandler).Methods("POST")
	r.HandleFunc("/grid/recalculate", srvDeps.GridRecalculateHandler).Methods("POST")
	r.HandleFunc("/health", srvDeps.HealthHandler).Methods("GET")

	// CRUD routes for the planning UI
	crud := r.PathPrefix("/api").Subrouter()
	crud.HandleFunc("/inventory", srvDeps.InventoryHandler)

	// metrics endpoint (includes rate limiting metrics)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port

	var handler http.Handler = r
	if cfg.TracingEnabled {
		handler = otelhttp.NewHandler(r, "oohplanner")
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("Planning server running", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
