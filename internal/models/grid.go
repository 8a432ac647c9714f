package models

// GridRow is one line of the table planning workflow: inventory
// pre-grouped by exhibitor and format, with face counts distributed over
// four weekly buckets and an explicit priority weight ("pesos"). Unlike
// the scored allocation path, grid allocation is driven purely by these
// weights.
type GridRow struct {
	Exhibitor string `json:"exhibitor"`
	Format    string `json:"format"`
	// UnitPrice is the table (rate card) unit price per face.
	UnitPrice  float64 `json:"unit_price"`
	TotalFaces int     `json:"total_faces"`
	Weight     float64 `json:"weight"` // pesos
	// DiscountFraction is the negotiated discount in [0,1).
	DiscountFraction float64 `json:"discount_fraction"`
	// S1..S4 are the allocated face counts per flight week.
	S1 int `json:"s1"`
	S2 int `json:"s2"`
	S3 int `json:"s3"`
	S4 int `json:"s4"`
	// Derived fields, recomputed by the recalculator.
	FacesUsed           int     `json:"faces_used"` // peak week: max(s1..s4)
	TotalLineCost       float64 `json:"total_line_cost"`
	NegotiatedUnitCost  float64 `json:"negotiated_unit_cost"`
	NegotiatedLineTotal float64 `json:"negotiated_line_total"`
	BlendedIndex        float64 `json:"blended_index"`
	BudgetIdeal         float64 `json:"budget_ideal"`
}

// PeakWeekFaces returns the binding face count for the row. Displays are
// rented for the whole flight at peak-week capacity, so the busiest week
// drives cost.
func (r GridRow) PeakWeekFaces() int {
	faces := r.S1
	for _, s := range [...]int{r.S2, r.S3, r.S4} {
		if s > faces {
			faces = s
		}
	}
	return faces
}
