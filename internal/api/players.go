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

// PlayersRequest carries the manual targets to redistribute across the
// concrete faces of the cached plan.
type PlayersRequest struct {
	BlockID string            `json:"block_id"`
	Manual  models.ManualPlan `json:"manual"`
}

// PlayersHandler expands the manual per-format targets into an exportable
// exhibitor-level player list.
func (s *Server) PlayersHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	endpoint := "/plan/players"
	method := r.Method

	if r.Method != http.MethodPost {
		s.Metrics.IncrementRequests(endpoint, method, "405")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlayersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("invalid players request", zap.Error(err))
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

	players, err := s.Engine.GeneratePlayerList(req.Manual, plan)
	if err != nil {
		status := "500"
		code := http.StatusInternalServerError
		if errors.Is(err, planning.ErrNilPlan) {
			status, code = "400", http.StatusBadRequest
		}
		s.Logger.Error("generate player list", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, status)
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, err.Error(), code)
		return
	}

	var totalCost float64
	var totalFaces int
	for _, p := range players {
		totalCost += p.TotalCost
		totalFaces += p.AllocatedQuantity
	}
	s.recordPlanEvent(r.Context(), "players_generated", req.BlockID, plan.ID, plan.Taxonomy, plan.Market,
		plan.Budget, totalCost, totalFaces)

	if err := s.writeJSON(w, players); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}
