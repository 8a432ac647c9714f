package models

import "strings"

// FilterAll is the sentinel facet value meaning "no constraint".
// It is what the planning UI sends when a dropdown is left on "Tudo".
const FilterAll = "Tudo"

// rankWeights maps a priority rank (1..12) to its planning weight.
// When an inventory row carries a rank, the resolved weight overrides
// whatever raw weight the row was loaded with.
var rankWeights = map[int]float64{
	1:  1.00,
	2:  0.95,
	3:  0.90,
	4:  0.85,
	5:  0.80,
	6:  0.75,
	7:  0.70,
	8:  0.65,
	9:  0.60,
	10: 0.55,
	11: 0.50,
	12: 0.45,
}

// InventoryItem is one rentable OOH line item (a billboard face, shelter
// panel, totem, etc.) as supplied by the inventory repository. Items are
// immutable once loaded; every planning operation works on a snapshot.
type InventoryItem struct {
	ID        int    `json:"id"`
	Taxonomy  string `json:"taxonomy"`
	Market    string `json:"market"` // praça
	State     string `json:"state"`  // UF
	Exhibitor string `json:"exhibitor"`
	Format    string `json:"format"`
	Digital   bool   `json:"digital"`
	Static    bool   `json:"static"`
	// TableUnitPrice is the published rate card price per face.
	TableUnitPrice float64 `json:"table_unit_price"`
	// NegotiatedUnitPrice is the price actually paid per face. Scoring and
	// allocation use this figure; zero or missing price de-ranks the item.
	NegotiatedUnitPrice float64 `json:"negotiated_unit_price"`
	// MinQty/MaxQty are the recommended quantity guardrails for the item.
	MinQty int `json:"min_qty"`
	MaxQty int `json:"max_qty"`
	// Rank is an optional priority rank (1..12). When set, it resolves the
	// weight from the rank table and overrides Weight.
	Rank int `json:"rank,omitempty"`
	// Weight is an optional raw planning weight in (0,1].
	Weight float64 `json:"weight,omitempty"`
	// WeeklyCapacity holds available face counts for the four flight weeks.
	WeeklyCapacity [4]int `json:"weekly_capacity,omitempty"`
	// Secondary facets used only for repository filtering.
	Region      string `json:"region,omitempty"`
	Cluster     string `json:"cluster,omitempty"`
	Periodicity string `json:"periodicity,omitempty"`
	Flight      string `json:"flight,omitempty"`
}

// ResolvedWeight returns the effective planning weight for the item:
// the rank-table weight when a valid rank is present, otherwise the raw
// weight. A zero return means "no weight set" and callers apply their
// own default.
func (it InventoryItem) ResolvedWeight() float64 {
	if w, ok := rankWeights[it.Rank]; ok {
		return w
	}
	return it.Weight
}

// InventoryFilter is a conjunction of optional equality constraints over
// inventory facets. Empty strings and the FilterAll sentinel leave a
// facet unconstrained. Digital/Static are tri-state via pointers.
type InventoryFilter struct {
	Market      string `json:"market,omitempty"`
	State       string `json:"state,omitempty"`
	Taxonomy    string `json:"taxonomy,omitempty"`
	Exhibitor   string `json:"exhibitor,omitempty"`
	Format      string `json:"format,omitempty"`
	Digital     *bool  `json:"digital,omitempty"`
	Static      *bool  `json:"static,omitempty"`
	Region      string `json:"region,omitempty"`
	Cluster     string `json:"cluster,omitempty"`
	Periodicity string `json:"periodicity,omitempty"`
	Flight      string `json:"flight,omitempty"`
}

// FacetMatches reports whether a facet constraint accepts a value.
// Comparison is case-insensitive; "" and "Tudo" accept everything.
func FacetMatches(constraint, value string) bool {
	if constraint == "" || strings.EqualFold(constraint, FilterAll) {
		return true
	}
	return strings.EqualFold(constraint, value)
}

// Matches reports whether the item satisfies every set facet of the filter.
func (f InventoryFilter) Matches(it InventoryItem) bool {
	if !FacetMatches(f.Market, it.Market) ||
		!FacetMatches(f.State, it.State) ||
		!FacetMatches(f.Taxonomy, it.Taxonomy) ||
		!FacetMatches(f.Exhibitor, it.Exhibitor) ||
		!FacetMatches(f.Format, it.Format) ||
		!FacetMatches(f.Region, it.Region) ||
		!FacetMatches(f.Cluster, it.Cluster) ||
		!FacetMatches(f.Periodicity, it.Periodicity) ||
		!FacetMatches(f.Flight, it.Flight) {
		return false
	}
	if f.Digital != nil && *f.Digital != it.Digital {
		return false
	}
	if f.Static != nil && *f.Static != it.Static {
		return false
	}
	return true
}
