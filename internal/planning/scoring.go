package planning

import (
	"strings"

	"github.com/vmarins/oohplanner/internal/models"
)

// FormatMultiplier boosts the score of formats matching a substring of
// the format name. Rules are evaluated in order; the first match wins.
type FormatMultiplier struct {
	Substring  string
	Multiplier float64
}

// ScoringConfig holds the business parameters of the desirability score.
// It is injected so the rules can be tested apart from the allocator.
type ScoringConfig struct {
	// PriceNormalization is the constant K in priceEfficiency = K / price.
	PriceNormalization float64
	PriceWeight        float64
	QuantityWeight     float64
	DigitalBonus       float64
	// DefaultWeight applies when an item carries neither rank nor weight.
	DefaultWeight     float64
	FormatMultipliers []FormatMultiplier
}

// DefaultScoringConfig returns the calibrated production rule set.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		PriceNormalization: 10000,
		PriceWeight:        0.4,
		QuantityWeight:     0.4,
		DigitalBonus:       1.2,
		DefaultWeight:      0.5,
		FormatMultipliers: []FormatMultiplier{
			{Substring: "outdoor", Multiplier: 1.3},
			{Substring: "led", Multiplier: 1.2},
			{Substring: "painel", Multiplier: 1.2},
			{Substring: "front", Multiplier: 1.1},
		},
	}
}

// formatMultiplier resolves the multiplier for a format name, falling
// back to 1.0 when no rule matches. Matching ignores case and accents,
// like the exposure table.
func (c ScoringConfig) formatMultiplier(format string) float64 {
	lower := normalizeFormat(format)
	for _, fm := range c.FormatMultipliers {
		if strings.Contains(lower, fm.Substring) {
			return fm.Multiplier
		}
	}
	return 1.0
}

// Score computes the dimensionless desirability of one inventory item
// for a campaign of the given cycle (weeks). The function is pure:
// identical inputs always yield identical scores.
//
// Items with a non-positive negotiated price score zero rather than
// letting the price-efficiency term blow up.
func (c ScoringConfig) Score(item models.InventoryItem, campaignCycle int) float64 {
	if item.NegotiatedUnitPrice <= 0 {
		return 0
	}

	priceEfficiency := c.PriceNormalization / item.NegotiatedUnitPrice
	// Missing guardrails drive the quantity term toward zero, which
	// de-prioritizes the item without excluding it.
	quantityScore := float64(item.MinQty+item.MaxQty) / 2 * float64(campaignCycle)

	multiplier := c.formatMultiplier(item.Format)
	bonus := 1.0
	if item.Digital {
		bonus = c.DigitalBonus
	}

	weight := item.ResolvedWeight()
	if weight <= 0 {
		weight = c.DefaultWeight
	}

	return (c.PriceWeight*priceEfficiency + c.QuantityWeight*quantityScore) * multiplier * bonus * weight
}
