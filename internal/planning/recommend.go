package planning

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/models"
)

// BuildIdealPlan filters the inventory to the requested taxonomy and
// market (the "Tudo" sentinel bypasses a facet), runs the allocator and
// groups the funded faces by format. Groups are sorted descending by
// total cost.
func (e *Engine) BuildIdealPlan(budget float64, campaignCycle int, taxonomy, market string, items []models.InventoryItem) (*models.IdealPlan, error) {
	var filtered []models.InventoryItem
	for _, it := range items {
		if models.FacetMatches(taxonomy, it.Taxonomy) && models.FacetMatches(market, it.Market) {
			filtered = append(filtered, it)
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: taxonomy %q, market %q", ErrNoInventory, taxonomy, market)
	}

	result, err := e.Allocate(budget, campaignCycle, filtered)
	if err != nil {
		return nil, err
	}

	plan := &models.IdealPlan{
		ID:                uuid.NewString(),
		Taxonomy:          taxonomy,
		Market:            market,
		Budget:            budget,
		CampaignCycle:     campaignCycle,
		Groups:            e.groupByFormat(result.Faces),
		AllocatedBudget:   result.AllocatedBudget,
		RemainingBudget:   result.RemainingBudget,
		FacesCount:        result.FacesCount,
		IdealBudget:       result.IdealBudget,
		EstimatedExposure: result.EstimatedExposure,
		Efficiency:        result.Efficiency,
		BudgetStatus:      result.BudgetStatus,
		StatusMessage:     result.StatusMessage,
	}

	e.Logger.Info("ideal plan built",
		zap.String("plan_id", plan.ID),
		zap.String("taxonomy", taxonomy),
		zap.String("market", market),
		zap.Int("formats", len(plan.Groups)),
		zap.Float64("allocated", plan.AllocatedBudget),
	)

	return plan, nil
}

// groupByFormat folds selected faces into per-format groups. The
// allocator never commits zero-quantity faces, so every group has a
// positive quantity and the average unit cost is well defined.
func (e *Engine) groupByFormat(faces []models.SelectedFace) []models.FormatGroup {
	index := make(map[string]int)
	var groups []models.FormatGroup
	for _, face := range faces {
		i, ok := index[face.Item.Format]
		if !ok {
			i = len(groups)
			index[face.Item.Format] = i
			groups = append(groups, models.FormatGroup{Format: face.Item.Format})
		}
		factor := e.Exposure.Factor(face.Item.Format, face.Item.Digital)
		groups[i].RecommendedQty += face.Quantity
		groups[i].TotalCost += face.Cost
		groups[i].TotalExposure += EstimatedExposure(face.Quantity, factor)
		groups[i].Faces = append(groups[i].Faces, face)
	}
	for i := range groups {
		if groups[i].RecommendedQty > 0 {
			groups[i].AvgUnitCost = groups[i].TotalCost / float64(groups[i].RecommendedQty)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalCost > groups[j].TotalCost
	})
	return groups
}

// CalculateEfficiency scores a user-adjusted quantity plan against the
// ideal plan. For each manual format entry the matching ideal group
// supplies the average unit cost and a representative exposure factor
// taken from the group's first member face; entries with no matching
// group are skipped and contribute nothing. Every division is guarded,
// so zero-cost manual plans yield zeros rather than NaN.
func (e *Engine) CalculateEfficiency(manual models.ManualPlan, ideal *models.IdealPlan) (*models.EfficiencyMetrics, error) {
	if ideal == nil {
		return nil, ErrNilPlan
	}

	metrics := &models.EfficiencyMetrics{
		IdealEfficiency: ideal.Efficiency,
	}

	for _, entry := range manual {
		group := ideal.Group(entry.Format)
		if group == nil || len(group.Faces) == 0 {
			continue
		}
		metrics.ManualTotalCost += float64(entry.Quantity) * group.AvgUnitCost
		// Representative factor: the first member face stands in for the
		// whole group. Downstream thresholds were calibrated against this.
		first := group.Faces[0]
		factor := e.Exposure.Factor(first.Item.Format, first.Item.Digital)
		metrics.ManualTotalExposure += EstimatedExposure(entry.Quantity, factor)
	}

	if metrics.ManualTotalCost > 0 {
		metrics.ManualEfficiency = float64(metrics.ManualTotalExposure) / metrics.ManualTotalCost
	}
	if metrics.IdealEfficiency > 0 {
		metrics.EfficiencyRatio = metrics.ManualEfficiency / metrics.IdealEfficiency
	}
	if ideal.AllocatedBudget > 0 {
		metrics.PercentageOfIdeal = metrics.ManualTotalCost / ideal.AllocatedBudget * 100
	}

	switch {
	case metrics.EfficiencyRatio >= e.EfficientThreshold:
		metrics.Status = models.EfficiencyEfficient
	case metrics.EfficiencyRatio >= e.AcceptableThreshold:
		metrics.Status = models.EfficiencyAcceptable
	default:
		metrics.Status = models.EfficiencyInefficient
	}

	return metrics, nil
}

// GeneratePlayerList redistributes the manual per-format targets over
// the ideal plan's member faces: faces are consumed greedily in their
// stored funding-priority order until the format target is reached, and
// the last face consumed may receive a partial fill. The combined output
// is sorted by original priority across all formats.
func (e *Engine) GeneratePlayerList(manual models.ManualPlan, ideal *models.IdealPlan) ([]models.PlayerAllocation, error) {
	if ideal == nil {
		return nil, ErrNilPlan
	}

	var players []models.PlayerAllocation
	for _, entry := range manual {
		group := ideal.Group(entry.Format)
		if group == nil {
			continue
		}
		discount := 0.0
		if group.RecommendedQty > 0 {
			discount = float64(group.RecommendedQty-entry.Quantity) / float64(group.RecommendedQty) * 100
		}
		remaining := entry.Quantity
		for _, face := range group.Faces {
			if remaining <= 0 {
				break
			}
			alloc := face.Quantity
			if alloc > remaining {
				alloc = remaining
			}
			players = append(players, models.PlayerAllocation{
				Exhibitor:          face.Item.Exhibitor,
				Format:             face.Item.Format,
				IdealQuantity:      face.Quantity,
				NegotiatedQuantity: entry.Quantity,
				DiscountPercent:    discount,
				AllocatedQuantity:  alloc,
				UnitPrice:          face.Item.NegotiatedUnitPrice,
				TotalCost:          float64(alloc) * face.Item.NegotiatedUnitPrice,
				ROI:                face.Score,
				Priority:           face.Priority,
			})
			remaining -= alloc
		}
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Priority < players[j].Priority
	})

	return players, nil
}
