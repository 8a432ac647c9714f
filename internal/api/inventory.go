package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/models"
)

// ListInventoryHandler returns inventory items matching the query facets.
// All facets are optional; "Tudo" (or absence) matches everything.
func (s *Server) ListInventoryHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	endpoint := "/api/inventory"
	method := r.Method

	q := r.URL.Query()
	filter := models.InventoryFilter{
		Taxonomy:  q.Get("taxonomy"),
		Market:    q.Get("market"),
		State:     q.Get("state"),
		Exhibitor: q.Get("exhibitor"),
		Format:    q.Get("format"),
		Region:    q.Get("region"),
		Cluster:   q.Get("cluster"),
	}

	items, err := s.loadInventory(r.Context(), filter)
	if err != nil {
		s.Logger.Error("load inventory", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Inventory unavailable", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}

	if err := s.writeJSON(w, items); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}

// CreateInventoryHandler persists a new inventory item. When Postgres is
// configured it is the system of record; otherwise the in-memory source
// takes the item.
func (s *Server) CreateInventoryHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	endpoint := "/api/inventory"
	method := r.Method

	var item models.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.Logger.Error("invalid inventory item", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if item.Taxonomy == "" || item.Market == "" || item.Exhibitor == "" || item.Format == "" {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "taxonomy, market, exhibitor and format are required", http.StatusBadRequest)
		return
	}
	if item.NegotiatedUnitPrice < 0 || item.MinQty < 0 || item.MaxQty < item.MinQty {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "invalid price or quantity bounds", http.StatusBadRequest)
		return
	}

	if s.PG != nil {
		if err := s.PG.InsertInventoryItem(r.Context(), &item); err != nil {
			s.Logger.Error("insert inventory item", zap.Error(err))
			s.Metrics.IncrementRequests(endpoint, method, "500")
			s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
			http.Error(w, "Failed to store inventory item", http.StatusInternalServerError)
			return
		}
	} else if mem, ok := s.Inventory.(*models.InMemoryInventory); ok {
		mem.AddItem(item)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(item); err != nil {
		s.Logger.Error("encode response", zap.Error(err))
	}

	s.Metrics.IncrementRequests(endpoint, method, "201")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}

// InventoryHandler dispatches on method for the /api/inventory route.
func (s *Server) InventoryHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.ListInventoryHandler(w, r)
	case http.MethodPost:
		s.CreateInventoryHandler(w, r)
	default:
		s.Metrics.IncrementRequests("/api/inventory", r.Method, "405")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
