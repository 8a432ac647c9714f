package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/models"
	"github.com/vmarins/oohplanner/internal/planning"
)

// GridAllocateRequest asks the engine to distribute a budget over the
// weekly grid of a planning block.
type GridAllocateRequest struct {
	BlockID string           `json:"block_id"`
	Budget  float64          `json:"budget"`
	Rows    []models.GridRow `json:"rows"`
}

// GridRecalculateRequest carries edited grid rows for recomputation of
// their derived fields. Budget is optional; when positive the ideal budget
// split is also recomputed.
type GridRecalculateRequest struct {
	BlockID string           `json:"block_id"`
	Budget  float64          `json:"budget"`
	Rows    []models.GridRow `json:"rows"`
}

// GridAllocateHandler distributes face counts across the grid rows to fit
// the budget.
func (s *Server) GridAllocateHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	endpoint := "/grid/allocate"
	method := r.Method

	if r.Method != http.MethodPost {
		s.Metrics.IncrementRequests(endpoint, method, "405")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GridAllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("invalid grid allocate request", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.BlockID != "" && !s.Limiter.Allow(req.BlockID) {
		s.Metrics.IncrementRequests(endpoint, method, "429")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Too many recomputations for this block", http.StatusTooManyRequests)
		return
	}

	rows, err := s.Engine.AutoAllocateGrid(req.Budget, req.Rows)
	if err != nil {
		status := "500"
		code := http.StatusInternalServerError
		if errors.Is(err, planning.ErrInvalidBudget) || errors.Is(err, planning.ErrNoInventory) {
			status, code = "400", http.StatusBadRequest
		}
		s.Logger.Error("grid allocate failed", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, status)
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, err.Error(), code)
		return
	}

	// Derived fields and the ideal budget split always accompany a fresh
	// allocation so the client can render the grid in one round trip.
	rows = planning.SplitBudgetIdeal(req.Budget, rows)

	var allocated float64
	var faces int
	for _, row := range rows {
		allocated += row.NegotiatedLineTotal
		faces += row.FacesUsed
	}
	s.recordPlanEvent(r.Context(), "grid_allocated", req.BlockID, "", "", "",
		req.Budget, allocated, faces)

	if err := s.writeJSON(w, rows); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}

// GridRecalculateHandler recomputes the derived fields of edited grid rows.
func (s *Server) GridRecalculateHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	endpoint := "/grid/recalculate"
	method := r.Method

	if r.Method != http.MethodPost {
		s.Metrics.IncrementRequests(endpoint, method, "405")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GridRecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("invalid grid recalculate request", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Rows) == 0 {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "rows are required", http.StatusBadRequest)
		return
	}

	if req.BlockID != "" && !s.Limiter.Allow(req.BlockID) {
		s.Metrics.IncrementRequests(endpoint, method, "429")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Too many recomputations for this block", http.StatusTooManyRequests)
		return
	}

	var rows []models.GridRow
	if req.Budget > 0 {
		rows = planning.SplitBudgetIdeal(req.Budget, req.Rows)
	} else {
		rows = make([]models.GridRow, len(req.Rows))
		for i, row := range req.Rows {
			rows[i] = planning.RecalculateRow(row)
		}
	}

	if err := s.writeJSON(w, rows); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}
