package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/models"
	"github.com/vmarins/oohplanner/internal/observability"
	"github.com/vmarins/oohplanner/internal/planning"
)

// OptimizeRequest is the payload for a raw budget allocation.
type OptimizeRequest struct {
	Budget        float64 `json:"budget"`
	CampaignCycle int     `json:"campaign_cycle"`
	Taxonomy      string  `json:"taxonomy"`
	Market        string  `json:"market"`
}

// OptimizeHandler runs the allocation engine over the filtered inventory
// and returns the full allocation result.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	endpoint := "/optimize"
	method := r.Method

	if r.Method != http.MethodPost {
		s.Metrics.IncrementRequests(endpoint, method, "405")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("invalid optimize request", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
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

	allocStart := time.Now()
	result, err := s.Engine.Allocate(req.Budget, req.CampaignCycle, items)
	if err != nil {
		status := "500"
		code := http.StatusInternalServerError
		if errors.Is(err, planning.ErrNoInventory) {
			status, code = "404", http.StatusNotFound
		} else if errors.Is(err, planning.ErrInvalidBudget) || errors.Is(err, planning.ErrInvalidCycle) {
			status, code = "400", http.StatusBadRequest
		}
		s.Logger.Error("allocation failed", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, status)
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, err.Error(), code)
		return
	}
	s.Metrics.RecordAllocationLatency(time.Since(allocStart))
	s.Metrics.IncrementAllocations(result.BudgetStatus)
	s.Metrics.RecordAllocatedFaces(result.FacesCount)

	requestID := uuid.NewString()
	s.recordPlanEvent(r.Context(), "allocation", requestID, "", req.Taxonomy, req.Market,
		req.Budget, result.AllocatedBudget, result.FacesCount)

	if err := s.writeJSON(w, result); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))

	if observability.ShouldSample(observability.GetSamplingRate()) {
		s.Logger.Info("optimize completed",
			zap.String("request_id", requestID),
			zap.Float64("budget", req.Budget),
			zap.Float64("allocated", result.AllocatedBudget),
			zap.Int("faces", result.FacesCount),
			zap.String("budget_status", result.BudgetStatus),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
