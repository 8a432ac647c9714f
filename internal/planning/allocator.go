package planning

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/models"
)

var (
	// ErrInvalidBudget is returned when the requested budget is not positive.
	ErrInvalidBudget = errors.New("budget must be positive")
	// ErrInvalidCycle is returned when the campaign cycle is not positive.
	ErrInvalidCycle = errors.New("campaign cycle must be positive")
	// ErrNoInventory is returned when no inventory rows are available for
	// the requested filters.
	ErrNoInventory = errors.New("no inventory matches the requested filters")
	// ErrNilPlan is returned when a comparison operation receives no ideal
	// plan, typically because an earlier pipeline stage failed and the
	// caller did not short-circuit.
	ErrNilPlan = errors.New("ideal plan is required")
)

// Engine bundles the planning business rules: scoring, exposure factors
// and the allocator tunables. Engines are cheap value holders; every
// operation is a pure function over its explicit arguments, so a single
// Engine can serve concurrent requests.
type Engine struct {
	Scoring  ScoringConfig
	Exposure ExposureTable
	// StopThreshold is the remaining-budget cutoff below which the greedy
	// walk stops hunting for a fit. Tunable, defaults to 1000 currency units.
	StopThreshold float64
	// IdealShare is the fraction of the score-ranked inventory whose
	// minimum cost defines the ideal reference budget. Defaults to 0.75.
	IdealShare float64
	// EfficientThreshold/AcceptableThreshold classify the efficiency ratio.
	EfficientThreshold  float64
	AcceptableThreshold float64
	Logger              *zap.Logger
}

// NewEngine constructs an Engine with the calibrated defaults.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Scoring:             DefaultScoringConfig(),
		Exposure:            DefaultExposureTable(),
		StopThreshold:       1000,
		IdealShare:          0.75,
		EfficientThreshold:  0.95,
		AcceptableThreshold: 0.80,
		Logger:              logger,
	}
}

// ScoreItems scores every item for the campaign cycle and returns the
// list sorted descending by score. The sort is stable: ties keep their
// original input order, which decides funding order when budget is tight.
func (e *Engine) ScoreItems(items []models.InventoryItem, campaignCycle int) []models.ScoredItem {
	scored := make([]models.ScoredItem, 0, len(items))
	for _, it := range items {
		scored = append(scored, models.ScoredItem{
			InventoryItem: it,
			Score:         e.Scoring.Score(it, campaignCycle),
			UnitPrice:     it.NegotiatedUnitPrice,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Allocate distributes the budget over the inventory: items are ranked
// by score and committed greedily at their minimum viable quantity until
// the remaining budget drops below the stop threshold. This is a
// deliberate "good enough" cutoff, not an exact knapsack.
//
// Allocate is deterministic: calling it twice with identical inputs
// yields identical face ordering and identical numeric fields.
func (e *Engine) Allocate(budget float64, campaignCycle int, items []models.InventoryItem) (*models.AllocationResult, error) {
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}
	if campaignCycle <= 0 {
		return nil, ErrInvalidCycle
	}
	if len(items) == 0 {
		return nil, ErrNoInventory
	}

	scored := e.ScoreItems(items, campaignCycle)

	result := &models.AllocationResult{
		RemainingBudget:    budget,
		TotalInventorySize: len(items),
	}

	for _, si := range scored {
		if result.RemainingBudget < e.StopThreshold {
			break
		}
		if si.MinQty <= 0 {
			continue
		}
		cost := si.NegotiatedUnitPrice * float64(si.MinQty)
		if cost > result.RemainingBudget {
			continue
		}
		result.Faces = append(result.Faces, models.SelectedFace{
			Item:     si.InventoryItem,
			Quantity: si.MinQty,
			Cost:     cost,
			Score:    si.Score,
			Priority: len(result.Faces) + 1,
		})
		result.AllocatedBudget += cost
		result.RemainingBudget = budget - result.AllocatedBudget
		result.FacesCount += si.MinQty
	}

	result.IdealBudget = e.idealBudget(scored)

	for _, face := range result.Faces {
		factor := e.Exposure.Factor(face.Item.Format, face.Item.Digital)
		result.EstimatedExposure += EstimatedExposure(face.Quantity, factor)
	}
	if result.AllocatedBudget > 0 {
		result.Efficiency = float64(result.EstimatedExposure) / result.AllocatedBudget
	}

	result.BudgetStatus, result.StatusMessage = e.classifyBudget(budget, result.IdealBudget)

	e.Logger.Debug("allocation complete",
		zap.Float64("budget", budget),
		zap.Float64("allocated", result.AllocatedBudget),
		zap.Float64("ideal_budget", result.IdealBudget),
		zap.Int("faces", result.FacesCount),
		zap.String("status", result.BudgetStatus),
	)

	return result, nil
}

// idealBudget computes the reference budget: the minimum-quantity cost of
// the top share of items by score. It is a benchmark figure, independent
// of the budget the caller asked for.
func (e *Engine) idealBudget(scored []models.ScoredItem) float64 {
	if len(scored) == 0 {
		return 0
	}
	top := int(math.Ceil(float64(len(scored)) * e.IdealShare))
	if top > len(scored) {
		top = len(scored)
	}
	var ideal float64
	for _, si := range scored[:top] {
		ideal += si.NegotiatedUnitPrice * float64(si.MinQty)
	}
	return ideal
}

// classifyBudget compares the requested budget against the ideal
// reference budget and returns a status with a user-facing message.
func (e *Engine) classifyBudget(budget, ideal float64) (string, string) {
	switch {
	case budget < 0.5*ideal:
		return models.BudgetInsufficient,
			fmt.Sprintf("budget %.2f is below half of the ideal budget %.2f; coverage will be limited", budget, ideal)
	case budget > 1.5*ideal:
		return models.BudgetExcessive,
			fmt.Sprintf("budget %.2f exceeds 1.5x the ideal budget %.2f; consider widening the filters", budget, ideal)
	default:
		return models.BudgetSufficient,
			fmt.Sprintf("budget %.2f is in line with the ideal budget %.2f", budget, ideal)
	}
}
