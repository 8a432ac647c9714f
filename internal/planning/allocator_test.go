package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/models"
)

func testItem(id int, format string, price float64, minQty, maxQty int) models.InventoryItem {
	return models.InventoryItem{
		ID:                  id,
		Taxonomy:            "Varejo",
		Market:              "São Paulo",
		State:               "SP",
		Exhibitor:           "Exibidor Teste",
		Format:              format,
		NegotiatedUnitPrice: price,
		TableUnitPrice:      price * 1.25,
		MinQty:              minQty,
		MaxQty:              maxQty,
	}
}

func TestAllocateValidation(t *testing.T) {
	e := NewEngine(zap.NewNop())
	items := []models.InventoryItem{testItem(1, "Outdoor", 1000, 1, 2)}

	_, err := e.Allocate(0, 4, items)
	assert.ErrorIs(t, err, ErrInvalidBudget)

	_, err = e.Allocate(-100, 4, items)
	assert.ErrorIs(t, err, ErrInvalidBudget)

	_, err = e.Allocate(10000, 0, items)
	assert.ErrorIs(t, err, ErrInvalidCycle)

	_, err = e.Allocate(10000, 4, nil)
	assert.ErrorIs(t, err, ErrNoInventory)
}

// Single street-clock item: the allocator commits it at its minimum
// quantity, the ideal budget equals that single item's cost, and a 5x
// budget is classified as excessive.
func TestAllocateSingleItem(t *testing.T) {
	e := NewEngine(zap.NewNop())
	item := testItem(1, "Relógio de Rua", 1000, 10, 20)

	res, err := e.Allocate(50000, 4, []models.InventoryItem{item})
	require.NoError(t, err)

	assert.Equal(t, 10000.0, res.AllocatedBudget)
	assert.Equal(t, 40000.0, res.RemainingBudget)
	assert.Equal(t, 10, res.FacesCount)
	assert.Equal(t, 10000.0, res.IdealBudget)
	assert.Equal(t, 1, res.TotalInventorySize)
	assert.Equal(t, models.BudgetExcessive, res.BudgetStatus)
	assert.Contains(t, res.StatusMessage, "10000.00")

	// Street clocks are an unlisted format: default static factor 12000.
	assert.Equal(t, int64(120000), res.EstimatedExposure)
	assert.InDelta(t, 12.0, res.Efficiency, 1e-9)

	require.Len(t, res.Faces, 1)
	assert.Equal(t, 1, res.Faces[0].Priority)
	assert.Equal(t, 10, res.Faces[0].Quantity)
}

func TestAllocateBudgetConservation(t *testing.T) {
	e := NewEngine(zap.NewNop())
	items := []models.InventoryItem{
		testItem(1, "Outdoor", 1200, 3, 6),
		testItem(2, "Abrigo de Ônibus", 800, 5, 10),
		testItem(3, "Totem", 600, 4, 8),
		testItem(4, "Empena", 9000, 1, 1),
	}

	budget := 20000.0
	res, err := e.Allocate(budget, 4, items)
	require.NoError(t, err)

	assert.Equal(t, budget, res.AllocatedBudget+res.RemainingBudget, "no currency may be lost")
	assert.GreaterOrEqual(t, res.RemainingBudget, 0.0)

	var sumQty int
	var sumCost float64
	for _, f := range res.Faces {
		sumQty += f.Quantity
		sumCost += f.Cost
	}
	assert.Equal(t, sumQty, res.FacesCount)
	assert.Equal(t, sumCost, res.AllocatedBudget)
}

func TestAllocateMonotonicFundingOrder(t *testing.T) {
	e := NewEngine(zap.NewNop())
	items := []models.InventoryItem{
		testItem(1, "Totem", 600, 4, 8),
		testItem(2, "Outdoor", 1200, 3, 6),
		testItem(3, "Empena", 9000, 1, 1),
	}

	res, err := e.Allocate(50000, 4, items)
	require.NoError(t, err)
	require.True(t, len(res.Faces) > 1)

	for i := 1; i < len(res.Faces); i++ {
		assert.GreaterOrEqual(t, res.Faces[i-1].Score, res.Faces[i].Score,
			"faces must be funded in non-increasing score order")
		assert.Equal(t, i+1, res.Faces[i].Priority)
	}
}

// Two items with identical scores must be funded in their original input
// order: the sort is stable, and tie-break order decides who gets funded
// when budget is tight.
func TestAllocateStableTieOrder(t *testing.T) {
	e := NewEngine(zap.NewNop())
	a := testItem(11, "Relógio de Rua", 1000, 10, 20)
	b := testItem(22, "Relógio de Rua", 1000, 10, 20)

	res, err := e.Allocate(50000, 4, []models.InventoryItem{a, b})
	require.NoError(t, err)
	require.Len(t, res.Faces, 2)

	assert.Equal(t, 11, res.Faces[0].Item.ID)
	assert.Equal(t, 22, res.Faces[1].Item.ID)
}

func TestAllocateStopThreshold(t *testing.T) {
	e := NewEngine(zap.NewNop())
	items := []models.InventoryItem{
		testItem(1, "Totem", 600, 1, 1),
		testItem(2, "Totem", 600, 1, 1),
		testItem(3, "Totem", 600, 1, 1),
	}

	// After the first commit the remaining budget (900) is below the
	// 1000 threshold; the walk stops even though another face would fit.
	res, err := e.Allocate(1500, 4, items)
	require.NoError(t, err)

	assert.Equal(t, 600.0, res.AllocatedBudget)
	assert.Equal(t, 900.0, res.RemainingBudget)
	assert.Len(t, res.Faces, 1)
}

func TestAllocateSkipsUnaffordableAndZeroMin(t *testing.T) {
	e := NewEngine(zap.NewNop())
	items := []models.InventoryItem{
		testItem(1, "Empena", 90000, 1, 1),       // unaffordable
		testItem(2, "Totem", 500, 0, 4),          // zero min quantity, never committed
		testItem(3, "Abrigo de Ônibus", 800, 2, 4),
	}

	res, err := e.Allocate(5000, 4, items)
	require.NoError(t, err)

	require.Len(t, res.Faces, 1)
	assert.Equal(t, 3, res.Faces[0].Item.ID)
}

func TestAllocateBudgetStatusClassification(t *testing.T) {
	e := NewEngine(zap.NewNop())
	// Ten equal items: ideal budget = top ceil(0.75*10)=8 items = 8*5000.
	var items []models.InventoryItem
	for i := 1; i <= 10; i++ {
		items = append(items, testItem(i, "Outdoor", 1000, 5, 10))
	}
	ideal := 8 * 5000.0

	tests := []struct {
		budget float64
		want   string
	}{
		{ideal*0.5 - 1, models.BudgetInsufficient},
		{ideal, models.BudgetSufficient},
		{ideal*1.5 + 1, models.BudgetExcessive},
	}
	for _, tt := range tests {
		res, err := e.Allocate(tt.budget, 4, items)
		require.NoError(t, err)
		assert.Equal(t, ideal, res.IdealBudget)
		assert.Equal(t, tt.want, res.BudgetStatus, "budget %.2f", tt.budget)
	}
}

func TestAllocateIdempotence(t *testing.T) {
	e := NewEngine(zap.NewNop())
	items := []models.InventoryItem{
		testItem(1, "Outdoor", 1200, 3, 6),
		testItem(2, "Abrigo de Ônibus", 800, 5, 10),
		testItem(3, "Totem Digital", 600, 4, 8),
	}
	items[2].Digital = true

	first, err := e.Allocate(15000, 4, items)
	require.NoError(t, err)
	second, err := e.Allocate(15000, 4, items)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must yield identical results")
}
