package models

import "strings"

// Efficiency status classification for a user-adjusted plan measured
// against the ideal plan.
const (
	EfficiencyEfficient   = "efficient"   // ratio >= 0.95
	EfficiencyAcceptable  = "acceptable"  // ratio >= 0.80
	EfficiencyInefficient = "inefficient" // ratio < 0.80
)

// FormatGroup aggregates the selected faces of one format inside an
// ideal plan. Member faces are retained in funding-priority order so the
// player list can be redistributed later.
type FormatGroup struct {
	Format         string         `json:"format"`
	RecommendedQty int            `json:"recommended_qty"`
	TotalCost      float64        `json:"total_cost"`
	AvgUnitCost    float64        `json:"avg_unit_cost"`
	TotalExposure  int64          `json:"total_exposure"`
	Faces          []SelectedFace `json:"faces"`
}

// IdealPlan is the allocator's budget-optimal selection grouped by
// format, used as the benchmark for manual edits. Groups are sorted
// descending by total cost.
type IdealPlan struct {
	ID                string        `json:"id"`
	Taxonomy          string        `json:"taxonomy"`
	Market            string        `json:"market"`
	Budget            float64       `json:"budget"`
	CampaignCycle     int           `json:"campaign_cycle"`
	Groups            []FormatGroup `json:"groups"`
	AllocatedBudget   float64       `json:"allocated_budget"`
	RemainingBudget   float64       `json:"remaining_budget"`
	FacesCount        int           `json:"faces_count"`
	IdealBudget       float64       `json:"ideal_budget"`
	EstimatedExposure int64         `json:"estimated_exposure"`
	Efficiency        float64       `json:"efficiency"`
	BudgetStatus      string        `json:"budget_status"`
	StatusMessage     string        `json:"status_message"`
}

// Group returns the format group with the given name, matched
// case-insensitively, or nil when the plan has no such format.
func (p *IdealPlan) Group(format string) *FormatGroup {
	for i := range p.Groups {
		if strings.EqualFold(format, p.Groups[i].Format) {
			return &p.Groups[i]
		}
	}
	return nil
}

// ManualEntry is a user-adjusted quantity for one format of an ideal
// plan. Quantities are free: over-allocating past the recommendation is
// legal and simply scores as inefficient.
type ManualEntry struct {
	Format   string `json:"format"`
	Quantity int    `json:"quantity"`
}

// ManualPlan is the user-owned set of per-format quantity adjustments.
type ManualPlan []ManualEntry

// EfficiencyMetrics is a pure projection of (ManualPlan, IdealPlan),
// recomputed after every quantity edit. It carries no persisted identity.
type EfficiencyMetrics struct {
	ManualTotalCost     float64 `json:"manual_total_cost"`
	ManualTotalExposure int64   `json:"manual_total_exposure"`
	ManualEfficiency    float64 `json:"manual_efficiency"`
	IdealEfficiency     float64 `json:"ideal_efficiency"`
	EfficiencyRatio     float64 `json:"efficiency_ratio"`
	PercentageOfIdeal   float64 `json:"percentage_of_ideal"`
	Status              string  `json:"status"`
}

// PlayerAllocation is one exportable line of the negotiated plan: a
// concrete exhibitor/format face with the quantity actually assigned to
// it after the manual targets were redistributed.
type PlayerAllocation struct {
	Exhibitor string `json:"exhibitor"`
	Format    string `json:"format"`
	// IdealQuantity is the quantity the allocator committed to this face.
	IdealQuantity int `json:"ideal_quantity"`
	// NegotiatedQuantity is the manual target for the whole format.
	NegotiatedQuantity int     `json:"negotiated_quantity"`
	DiscountPercent    float64 `json:"discount_percent"`
	// AllocatedQuantity is what this face received from the greedy
	// redistribution; the last face consumed may get a partial fill.
	AllocatedQuantity int     `json:"allocated_quantity"`
	UnitPrice         float64 `json:"unit_price"`
	TotalCost         float64 `json:"total_cost"`
	ROI               float64 `json:"roi"`
	Priority          int     `json:"priority"`
}
