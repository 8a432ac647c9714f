package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/db"
	"github.com/vmarins/oohplanner/internal/models"
	"github.com/vmarins/oohplanner/internal/planning"
)

// EfficiencyRequest carries the user's per-format quantity adjustments for
// a previously built plan.
type EfficiencyRequest struct {
	BlockID string            `json:"block_id"`
	Manual  models.ManualPlan `json:"manual"`
}

// EfficiencyHandler scores a manually adjusted plan against the cached
// ideal plan for the planning block.
func (s *Server) EfficiencyHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	endpoint := "/plan/efficiency"
	method := r.Method

	if r.Method != http.MethodPost {
		s.Metrics.IncrementRequests(endpoint, method, "405")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EfficiencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("invalid efficiency request", zap.Error(err))
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

	plan, err := s.cachedPlan(req.BlockID)
	if err != nil {
		if errors.Is(err, db.ErrPlanNotFound) {
			s.Metrics.IncrementRequests(endpoint, method, "404")
			s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
			http.Error(w, "No plan cached for this block; build one first", http.StatusNotFound)
			return
		}
		s.Logger.Error("fetch cached plan", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Plan cache unavailable", http.StatusInternalServerError)
		return
	}

	metrics, err := s.Engine.CalculateEfficiency(req.Manual, plan)
	if err != nil {
		status := "500"
		code := http.StatusInternalServerError
		if errors.Is(err, planning.ErrNilPlan) {
			status, code = "400", http.StatusBadRequest
		}
		s.Logger.Error("calculate efficiency", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, status)
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, err.Error(), code)
		return
	}
	s.Metrics.IncrementEfficiencyChecks(metrics.Status)

	s.recordPlanEvent(r.Context(), "efficiency_check", req.BlockID, plan.ID, plan.Taxonomy, plan.Market,
		plan.Budget, metrics.ManualTotalCost, 0)

	if err := s.writeJSON(w, metrics); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}
