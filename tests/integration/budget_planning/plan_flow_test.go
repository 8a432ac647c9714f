package budget_planning_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/db"
	"github.com/vmarins/oohplanner/internal/models"
	"github.com/vmarins/oohplanner/internal/planning"
)

// TestPlanningFlow walks the full planning pipeline: allocate a budget,
// build the ideal plan, cache it per planning block, then score and
// redistribute a manual adjustment against the cached plan.
func TestPlanningFlow(t *testing.T) {
	items := []models.InventoryItem{
		{
			ID: 1, Taxonomy: "Varejo", Market: "São Paulo", State: "SP",
			Exhibitor: "Eletromidia", Format: "Outdoor", Static: true,
			NegotiatedUnitPrice: 1200, MinQty: 2, MaxQty: 8, Rank: 1,
		},
		{
			ID: 2, Taxonomy: "Varejo", Market: "São Paulo", State: "SP",
			Exhibitor: "Otima", Format: "Abrigo de Ônibus", Static: true,
			NegotiatedUnitPrice: 800, MinQty: 3, MaxQty: 10, Rank: 2,
		},
		{
			ID: 3, Taxonomy: "Varejo", Market: "São Paulo", State: "SP",
			Exhibitor: "JCDecaux", Format: "Totem", Digital: true,
			NegotiatedUnitPrice: 500, MinQty: 2, MaxQty: 6, Rank: 3,
		},
	}

	engine := planning.NewEngine(zap.NewNop())

	mr := miniredis.RunT(t)
	store := &db.RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		Ctx:    t.Context(),
	}
	defer store.Close()

	const blockID = "block-integration-1"
	var cached *models.IdealPlan

	t.Run("Allocate_Funds_All_Formats", func(t *testing.T) {
		result, err := engine.Allocate(30000, 4, items)
		if err != nil {
			t.Fatalf("allocate failed: %v", err)
		}
		if len(result.Faces) != 3 {
			t.Fatalf("expected 3 funded faces, got %d", len(result.Faces))
		}
		if result.FacesCount != 7 {
			t.Errorf("expected 7 total faces, got %d", result.FacesCount)
		}
		wantAllocated := 1200*2.0 + 800*3.0 + 500*2.0
		if result.AllocatedBudget != wantAllocated {
			t.Errorf("expected allocated %.2f, got %.2f", wantAllocated, result.AllocatedBudget)
		}
		t.Logf("allocated %.2f of 30000, status %s", result.AllocatedBudget, result.BudgetStatus)
	})

	t.Run("Ideal_Plan_Cache_RoundTrip", func(t *testing.T) {
		plan, err := engine.BuildIdealPlan(30000, 4, "Varejo", "São Paulo", items)
		if err != nil {
			t.Fatalf("build ideal plan failed: %v", err)
		}
		if len(plan.Groups) != 3 {
			t.Fatalf("expected 3 format groups, got %d", len(plan.Groups))
		}

		if err := store.SavePlan(blockID, plan, time.Hour); err != nil {
			t.Fatalf("save plan failed: %v", err)
		}
		cached, err = store.GetPlan(blockID)
		if err != nil {
			t.Fatalf("get plan failed: %v", err)
		}
		if cached.ID != plan.ID {
			t.Errorf("cached plan ID %q does not match built plan %q", cached.ID, plan.ID)
		}
		if cached.AllocatedBudget != plan.AllocatedBudget {
			t.Errorf("cached allocated %.2f, want %.2f", cached.AllocatedBudget, plan.AllocatedBudget)
		}
	})

	t.Run("Efficiency_Of_Recommended_Quantities", func(t *testing.T) {
		if cached == nil {
			t.Fatal("no cached plan from previous subtest")
		}
		var manual models.ManualPlan
		for _, g := range cached.Groups {
			manual = append(manual, models.ManualEntry{Format: g.Format, Quantity: g.RecommendedQty})
		}

		metrics, err := engine.CalculateEfficiency(manual, cached)
		if err != nil {
			t.Fatalf("efficiency calculation failed: %v", err)
		}
		if metrics.Status != models.EfficiencyEfficient {
			t.Errorf("recommended quantities should be efficient, got %s (ratio %.4f)", metrics.Status, metrics.EfficiencyRatio)
		}
		if metrics.PercentageOfIdeal != 100 {
			t.Errorf("expected 100%% of ideal, got %.2f", metrics.PercentageOfIdeal)
		}
	})

	t.Run("Player_List_Partial_Fill", func(t *testing.T) {
		if cached == nil {
			t.Fatal("no cached plan from previous subtest")
		}
		manual := models.ManualPlan{
			{Format: "Abrigo de Ônibus", Quantity: 2}, // below the recommended 3
		}
		players, err := engine.GeneratePlayerList(manual, cached)
		if err != nil {
			t.Fatalf("player list failed: %v", err)
		}
		if len(players) != 1 {
			t.Fatalf("expected 1 player line, got %d", len(players))
		}
		p := players[0]
		if p.AllocatedQuantity != 2 {
			t.Errorf("expected allocated quantity 2, got %d", p.AllocatedQuantity)
		}
		if p.TotalCost != 1600 {
			t.Errorf("expected total cost 1600, got %.2f", p.TotalCost)
		}
		t.Logf("player %s/%s allocated %d at %.2f", p.Exhibitor, p.Format, p.AllocatedQuantity, p.UnitPrice)
	})

	t.Run("Cache_Miss_After_Delete", func(t *testing.T) {
		if err := store.DeletePlan(blockID); err != nil {
			t.Fatalf("delete plan failed: %v", err)
		}
		if _, err := store.GetPlan(blockID); err != db.ErrPlanNotFound {
			t.Errorf("expected ErrPlanNotFound after delete, got %v", err)
		}
	})
}
