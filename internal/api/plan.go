package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/db"
	"github.com/vmarins/oohplanner/internal/models"
	"github.com/vmarins/oohplanner/internal/observability"
	"github.com/vmarins/oohplanner/internal/planning"
)

// IdealPlanRequest is the payload for building an ideal plan. BlockID ties
// the plan to a planning block so follow-up comparisons can find it.
type IdealPlanRequest struct {
	BlockID       string  `json:"block_id"`
	Budget        float64 `json:"budget"`
	CampaignCycle int     `json:"campaign_cycle"`
	Taxonomy      string  `json:"taxonomy"`
	Market        string  `json:"market"`
}

// IdealPlanHandler builds an ideal plan grouped by format, caches it under
// the planning block and returns it.
func (s *Server) IdealPlanHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	endpoint := "/plan/ideal"
	method := r.Method

	if r.Method != http.MethodPost {
		s.Metrics.IncrementRequests(endpoint, method, "405")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req IdealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("invalid plan request", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.BlockID == "" {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "block_id is required", http.StatusBadRequest)
		return
	}
	if req.Budget <= 0 {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "budget must be positive", http.StatusBadRequest)
		return
	}
	if req.CampaignCycle <= 0 {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "campaign_cycle must be positive", http.StatusBadRequest)
		return
	}

	if !s.Limiter.Allow(req.BlockID) {
		s.Metrics.IncrementRequests(endpoint, method, "429")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Too many recomputations for this block", http.StatusTooManyRequests)
		return
	}

	items, err := s.loadInventory(r.Context(), models.InventoryFilter{
		Taxonomy: req.Taxonomy,
		Market:   req.Market,
	})
	if err != nil {
		s.Logger.Error("load inventory", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Inventory unavailable", http.StatusInternalServerError)
		return
	}

	plan, err := s.Engine.BuildIdealPlan(req.Budget, req.CampaignCycle, req.Taxonomy, req.Market, items)
	if err != nil {
		status := "500"
		code := http.StatusInternalServerError
		if errors.Is(err, planning.ErrNoInventory) {
			status, code = "404", http.StatusNotFound
		} else if errors.Is(err, planning.ErrInvalidBudget) || errors.Is(err, planning.ErrInvalidCycle) {
			status, code = "400", http.StatusBadRequest
		}
		s.Logger.Error("build ideal plan failed", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, status)
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, err.Error(), code)
		return
	}
	s.Metrics.IncrementPlans(req.Taxonomy)

	if s.Store != nil {
		if err := s.Store.SavePlan(req.BlockID, plan, s.Config.PlanCacheTTL); err != nil {
			// A cache failure degrades follow-up comparisons but the plan
			// itself is still good.
			s.Logger.Warn("cache plan", zap.Error(err), zap.String("block_id", req.BlockID))
		}
	}

	requestID := uuid.NewString()
	s.recordPlanEvent(r.Context(), "plan_build", requestID, plan.ID, req.Taxonomy, req.Market,
		req.Budget, plan.AllocatedBudget, plan.FacesCount)

	if err := s.writeJSON(w, plan); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))

	if observability.ShouldSample(observability.GetSamplingRate()) {
		s.Logger.Info("ideal plan built",
			zap.String("request_id", requestID),
			zap.String("plan_id", plan.ID),
			zap.String("block_id", req.BlockID),
			zap.Int("groups", len(plan.Groups)),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// cachedPlan fetches the ideal plan for a planning block from the cache.
func (s *Server) cachedPlan(blockID string) (*models.IdealPlan, error) {
	if s.Store == nil {
		return nil, db.ErrPlanNotFound
	}
	plan, err := s.Store.GetPlan(blockID)
	if err != nil {
		if errors.Is(err, db.ErrPlanNotFound) {
			s.Metrics.IncrementPlanCacheLookups("miss")
		} else {
			s.Metrics.IncrementPlanCacheLookups("error")
		}
		return nil, err
	}
	s.Metrics.IncrementPlanCacheLookups("hit")
	return plan, nil
}
