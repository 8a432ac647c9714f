package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/analytics"
	"github.com/vmarins/oohplanner/internal/config"
	"github.com/vmarins/oohplanner/internal/db"
	"github.com/vmarins/oohplanner/internal/models"
	"github.com/vmarins/oohplanner/internal/observability"
	"github.com/vmarins/oohplanner/internal/planning"
	"github.com/vmarins/oohplanner/internal/ratelimit"
)

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger    *zap.Logger
	Store     *db.RedisStore
	PG        *db.Postgres
	Analytics analytics.AnalyticsService
	Inventory models.InventorySource
	Engine    *planning.Engine
	Limiter   *ratelimit.BlockLimiter
	Metrics   observability.MetricsRegistry
	Config    config.Config
}

// NewServer constructs a Server. The planning engine is built from the
// configured thresholds; inventory falls back to an empty in-memory source
// when none is provided.
func NewServer(logger *zap.Logger, store *db.RedisStore, pg *db.Postgres, analyticsSvc analytics.AnalyticsService, inventory models.InventorySource, limiter *ratelimit.BlockLimiter, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	engine := planning.NewEngine(logger)
	if cfg.StopThreshold > 0 {
		engine.StopThreshold = cfg.StopThreshold
	}
	if cfg.IdealBudgetShare > 0 {
		engine.IdealShare = cfg.IdealBudgetShare
	}
	if cfg.EfficientThreshold > 0 {
		engine.EfficientThreshold = cfg.EfficientThreshold
	}
	if cfg.AcceptableThreshold > 0 {
		engine.AcceptableThreshold = cfg.AcceptableThreshold
	}

	if inventory == nil {
		inventory = models.NewInMemoryInventory(nil)
	}
	if limiter == nil {
		limiter = ratelimit.NewBlockLimiter(ratelimit.Config{
			Capacity:   cfg.RateLimitCapacity,
			RefillRate: cfg.RateLimitRefillRate,
			Enabled:    cfg.RateLimitEnabled,
		}, metrics)
	}

	return &Server{
		Logger:    logger,
		Store:     store,
		PG:        pg,
		Analytics: analyticsSvc,
		Inventory: inventory,
		Engine:    engine,
		Limiter:   limiter,
		Metrics:   metrics,
		Config:    cfg,
	}
}

// loadInventory fetches inventory matching the filter from the configured source.
func (s *Server) loadInventory(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryItem, error) {
	return s.Inventory.LoadInventory(ctx, filter)
}

// writeJSON serializes v as the response body. Encoding failures are logged
// but not surfaced: the status line is already on the wire.
func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", zap.Error(err))
		return err
	}
	return nil
}

// recordPlanEvent ships a planning event to analytics when configured.
// Analytics being down never fails the request.
func (s *Server) recordPlanEvent(ctx context.Context, eventType, requestID, planID, taxonomy, market string, budget, allocated float64, faces int) {
	if s.Analytics == nil {
		return
	}
	if err := s.Analytics.RecordPlanEvent(ctx, eventType, requestID, planID, taxonomy, market, budget, allocated, faces); err != nil {
		s.Logger.Warn("record plan event", zap.Error(err), zap.String("event_type", eventType))
	}
}
