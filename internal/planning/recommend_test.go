package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/models"
)

func planInventory() []models.InventoryItem {
	items := []models.InventoryItem{
		testItem(1, "Outdoor", 1200, 3, 6),
		testItem(2, "Outdoor", 1100, 2, 4),
		testItem(3, "Abrigo de Ônibus", 800, 5, 10),
		testItem(4, "Totem", 600, 4, 8),
	}
	other := testItem(5, "Empena", 9000, 1, 1)
	other.Taxonomy = "Automotivo"
	other.Market = "Rio de Janeiro"
	return append(items, other)
}

func TestBuildIdealPlanFiltersAndGroups(t *testing.T) {
	e := NewEngine(zap.NewNop())

	plan, err := e.BuildIdealPlan(30000, 4, "Varejo", "São Paulo", planInventory())
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "Varejo", plan.Taxonomy)
	assert.Equal(t, "São Paulo", plan.Market)

	// The Rio item must not leak into a São Paulo plan.
	for _, g := range plan.Groups {
		for _, f := range g.Faces {
			assert.Equal(t, "São Paulo", f.Item.Market)
		}
	}

	// Groups sorted descending by total cost, totals reconcile with the
	// underlying allocation.
	var total float64
	for i, g := range plan.Groups {
		if i > 0 {
			assert.GreaterOrEqual(t, plan.Groups[i-1].TotalCost, g.TotalCost)
		}
		require.Positive(t, g.RecommendedQty)
		assert.InDelta(t, g.TotalCost/float64(g.RecommendedQty), g.AvgUnitCost, 1e-9)
		total += g.TotalCost
	}
	assert.InDelta(t, plan.AllocatedBudget, total, 1e-6)

	// Both outdoor faces fold into one group.
	outdoor := plan.Group("Outdoor")
	require.NotNil(t, outdoor)
	assert.Len(t, outdoor.Faces, 2)
	assert.Equal(t, 5, outdoor.RecommendedQty)
}

func TestBuildIdealPlanAllSentinel(t *testing.T) {
	e := NewEngine(zap.NewNop())

	plan, err := e.BuildIdealPlan(60000, 4, "Tudo", "Tudo", planInventory())
	require.NoError(t, err)

	markets := map[string]bool{}
	for _, g := range plan.Groups {
		for _, f := range g.Faces {
			markets[f.Item.Market] = true
		}
	}
	assert.True(t, markets["Rio de Janeiro"], "Tudo must bypass the market filter")
}

func TestBuildIdealPlanNoMatchError(t *testing.T) {
	e := NewEngine(zap.NewNop())

	plan, err := e.BuildIdealPlan(30000, 4, "Financeiro", "Curitiba", planInventory())
	require.ErrorIs(t, err, ErrNoInventory)
	assert.Nil(t, plan)
	assert.Contains(t, err.Error(), "Financeiro")
	assert.Contains(t, err.Error(), "Curitiba")
}

func TestCalculateEfficiencyMatchingIdeal(t *testing.T) {
	e := NewEngine(zap.NewNop())

	// Single homogeneous format so the first-face factor approximation is
	// exact and the ratio lands on 1.0.
	items := []models.InventoryItem{testItem(1, "Abrigo de Ônibus", 800, 5, 10)}
	plan, err := e.BuildIdealPlan(30000, 4, "Varejo", "São Paulo", items)
	require.NoError(t, err)

	manual := models.ManualPlan{}
	for _, g := range plan.Groups {
		manual = append(manual, models.ManualEntry{Format: g.Format, Quantity: g.RecommendedQty})
	}

	metrics, err := e.CalculateEfficiency(manual, plan)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, metrics.EfficiencyRatio, 1e-9)
	assert.InDelta(t, 100.0, metrics.PercentageOfIdeal, 1e-9)
	assert.Equal(t, models.EfficiencyEfficient, metrics.Status)
}

func TestCalculateEfficiencyZeroQuantities(t *testing.T) {
	e := NewEngine(zap.NewNop())

	plan, err := e.BuildIdealPlan(30000, 4, "Varejo", "São Paulo", planInventory())
	require.NoError(t, err)

	manual := models.ManualPlan{}
	for _, g := range plan.Groups {
		manual = append(manual, models.ManualEntry{Format: g.Format, Quantity: 0})
	}

	metrics, err := e.CalculateEfficiency(manual, plan)
	require.NoError(t, err)

	assert.Zero(t, metrics.ManualTotalCost)
	assert.Zero(t, metrics.ManualEfficiency)
	assert.Zero(t, metrics.EfficiencyRatio)
	assert.Equal(t, models.EfficiencyInefficient, metrics.Status)
}

func TestCalculateEfficiencyUnknownFormatSkipped(t *testing.T) {
	e := NewEngine(zap.NewNop())

	plan, err := e.BuildIdealPlan(30000, 4, "Varejo", "São Paulo", planInventory())
	require.NoError(t, err)

	manual := models.ManualPlan{{Format: "Blimp", Quantity: 99}}
	metrics, err := e.CalculateEfficiency(manual, plan)
	require.NoError(t, err)

	assert.Zero(t, metrics.ManualTotalCost, "an unmatched format contributes nothing")
	assert.Zero(t, metrics.ManualTotalExposure)
}

func TestCalculateEfficiencyNilPlan(t *testing.T) {
	e := NewEngine(zap.NewNop())
	_, err := e.CalculateEfficiency(models.ManualPlan{}, nil)
	assert.ErrorIs(t, err, ErrNilPlan)
}

func TestGeneratePlayerListPartialFill(t *testing.T) {
	e := NewEngine(zap.NewNop())

	items := []models.InventoryItem{
		testItem(1, "Outdoor", 1200, 3, 6),
		testItem(2, "Outdoor", 1100, 4, 8),
	}
	plan, err := e.BuildIdealPlan(30000, 4, "Varejo", "São Paulo", items)
	require.NoError(t, err)

	group := plan.Group("Outdoor")
	require.NotNil(t, group)
	require.Len(t, group.Faces, 2)
	require.Equal(t, 7, group.RecommendedQty)

	// Target below the recommendation: the first face fills completely,
	// the second takes the partial remainder.
	manual := models.ManualPlan{{Format: "Outdoor", Quantity: 5}}
	players, err := e.GeneratePlayerList(manual, plan)
	require.NoError(t, err)
	require.Len(t, players, 2)

	first, second := players[0], players[1]
	assert.Equal(t, first.IdealQuantity, first.AllocatedQuantity)
	assert.Equal(t, 5-first.AllocatedQuantity, second.AllocatedQuantity)
	assert.Equal(t, 5, first.NegotiatedQuantity)
	assert.InDelta(t, float64(7-5)/7*100, first.DiscountPercent, 1e-9)
	assert.Equal(t, float64(second.AllocatedQuantity)*second.UnitPrice, second.TotalCost)
}

func TestGeneratePlayerListSortedByPriority(t *testing.T) {
	e := NewEngine(zap.NewNop())

	plan, err := e.BuildIdealPlan(30000, 4, "Varejo", "São Paulo", planInventory())
	require.NoError(t, err)
	require.True(t, len(plan.Groups) > 1)

	manual := models.ManualPlan{}
	for _, g := range plan.Groups {
		manual = append(manual, models.ManualEntry{Format: g.Format, Quantity: g.RecommendedQty})
	}

	players, err := e.GeneratePlayerList(manual, plan)
	require.NoError(t, err)
	require.True(t, len(players) > 1)

	for i := 1; i < len(players); i++ {
		assert.LessOrEqual(t, players[i-1].Priority, players[i].Priority,
			"output is ordered by original funding priority across formats")
	}
}

func TestGeneratePlayerListOverAllocationCapped(t *testing.T) {
	e := NewEngine(zap.NewNop())

	items := []models.InventoryItem{testItem(1, "Totem", 600, 4, 8)}
	plan, err := e.BuildIdealPlan(30000, 4, "Varejo", "São Paulo", items)
	require.NoError(t, err)

	// Asking for more than the ideal: faces cannot give more than they
	// hold, and the discount goes negative (a premium).
	manual := models.ManualPlan{{Format: "Totem", Quantity: 10}}
	players, err := e.GeneratePlayerList(manual, plan)
	require.NoError(t, err)
	require.Len(t, players, 1)

	assert.Equal(t, 4, players[0].AllocatedQuantity)
	assert.Negative(t, players[0].DiscountPercent)
}
