package models

// Budget status relative to the ideal reference budget. The ideal budget
// is a benchmark figure derived from the inventory itself, independent of
// the budget the user asked for.
const (
	BudgetInsufficient = "insufficient" // budget < 0.5x the ideal budget
	BudgetSufficient   = "sufficient"   // within 0.5x..1.5x of the ideal budget
	BudgetExcessive    = "excessive"    // budget > 1.5x the ideal budget
)

// ScoredItem pairs an inventory item with its desirability score for a
// given campaign cycle. Scored lists are built fresh per optimization
// call and never mutated in place.
type ScoredItem struct {
	InventoryItem
	Score     float64 `json:"score"`
	UnitPrice float64 `json:"unit_price"`
}

// SelectedFace is one funded line of an allocation: an inventory item
// committed at its minimum viable quantity.
type SelectedFace struct {
	Item     InventoryItem `json:"item"`
	Quantity int           `json:"quantity"`
	Cost     float64       `json:"cost"`
	Score    float64       `json:"score"`
	// Priority is the 1-based funding order within the allocation.
	Priority int `json:"priority"`
}

// AllocationResult is the output of the budget allocator: the funded
// selection plus running totals. AllocatedBudget + RemainingBudget always
// equals the input budget exactly.
type AllocationResult struct {
	Faces              []SelectedFace `json:"faces"`
	AllocatedBudget    float64        `json:"allocated_budget"`
	RemainingBudget    float64        `json:"remaining_budget"`
	FacesCount         int            `json:"faces_count"`
	IdealBudget        float64        `json:"ideal_budget"`
	TotalInventorySize int            `json:"total_inventory_size"`
	EstimatedExposure  int64          `json:"estimated_exposure"`
	Efficiency         float64        `json:"efficiency"`
	BudgetStatus       string         `json:"budget_status"`
	StatusMessage      string         `json:"status_message"`
}
