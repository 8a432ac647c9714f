package planning

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/models"
)

// round2 rounds a currency figure half-up to 2 decimal places at the
// point of computation. Derived figures feed further aggregation and
// must be stable under repeated summation, so rounding is never deferred
// to display.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// AutoAllocateGrid distributes face counts across grid rows to fit a
// budget. When the budget covers the full inventory, every row is funded
// at capacity in all four weekly buckets. Otherwise each row receives a
// budget share proportional to its weight, converted to faces and capped
// at the row's capacity, and a second pass tops up the highest-weight
// rows with whatever budget is left. Rows with zero price or zero weight
// receive nothing.
func (e *Engine) AutoAllocateGrid(budget float64, rows []models.GridRow) ([]models.GridRow, error) {
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}
	if len(rows) == 0 {
		return nil, ErrNoInventory
	}

	out := append([]models.GridRow(nil), rows...)

	var maxCost float64
	for _, r := range out {
		maxCost += r.UnitPrice * float64(r.TotalFaces)
	}
	if maxCost <= budget {
		for i := range out {
			setWeeklyFaces(&out[i], out[i].TotalFaces)
		}
		e.Logger.Debug("grid fully funded", zap.Float64("budget", budget), zap.Float64("max_cost", maxCost))
		return out, nil
	}

	var totalWeight float64
	for _, r := range out {
		if r.Weight > 0 && r.UnitPrice > 0 {
			totalWeight += r.Weight
		}
	}

	// Indices ordered by weight descending; stable so equal-weight rows
	// keep their input order.
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return out[order[a]].Weight > out[order[b]].Weight
	})

	spent := 0.0
	faces := make([]int, len(out))
	for i, r := range out {
		if r.Weight <= 0 || r.UnitPrice <= 0 || totalWeight <= 0 {
			continue
		}
		rowBudget := budget * r.Weight / totalWeight
		n := int(math.Floor(rowBudget / r.UnitPrice))
		if n > r.TotalFaces {
			n = r.TotalFaces
		}
		faces[i] = n
		spent += float64(n) * r.UnitPrice
	}

	// Top-up pass: hand the leftover to the heaviest rows first.
	leftover := budget - spent
	for _, i := range order {
		r := out[i]
		if r.Weight <= 0 || r.UnitPrice <= 0 || leftover < r.UnitPrice {
			continue
		}
		extra := int(math.Floor(leftover / r.UnitPrice))
		if room := r.TotalFaces - faces[i]; extra > room {
			extra = room
		}
		if extra <= 0 {
			continue
		}
		faces[i] += extra
		leftover -= float64(extra) * r.UnitPrice
	}

	for i := range out {
		setWeeklyFaces(&out[i], faces[i])
	}

	e.Logger.Debug("grid allocated",
		zap.Float64("budget", budget),
		zap.Float64("leftover", leftover),
		zap.Int("rows", len(out)),
	)

	return out, nil
}

// setWeeklyFaces applies the same face count to all four weekly buckets.
func setWeeklyFaces(row *models.GridRow, faces int) {
	row.S1, row.S2, row.S3, row.S4 = faces, faces, faces, faces
}

// RecalculateRow recomputes the derived fields of one grid row from its
// weekly buckets: the peak week drives cost, the negotiated unit cost
// applies the row discount, and the blended index weighs the face count.
// Applying the function twice without edits yields identical figures.
func RecalculateRow(row models.GridRow) models.GridRow {
	row.FacesUsed = row.PeakWeekFaces()
	row.TotalLineCost = round2(row.UnitPrice * float64(row.FacesUsed))
	row.NegotiatedUnitCost = round2(row.UnitPrice * (1 - row.DiscountFraction))
	row.NegotiatedLineTotal = round2(row.NegotiatedUnitCost * float64(row.FacesUsed))
	row.BlendedIndex = round2(float64(row.FacesUsed) * row.Weight)
	return row
}

// SplitBudgetIdeal assigns each row its proportional share of the
// overall budget by table-price footprint, independent of negotiated
// prices. Rows are recalculated first so the split reflects the current
// weekly buckets.
func SplitBudgetIdeal(budget float64, rows []models.GridRow) []models.GridRow {
	out := make([]models.GridRow, len(rows))
	var total float64
	for i, r := range rows {
		out[i] = RecalculateRow(r)
		total += out[i].TotalLineCost
	}
	for i := range out {
		if total > 0 {
			out[i].BudgetIdeal = round2(budget * out[i].TotalLineCost / total)
		} else {
			out[i].BudgetIdeal = 0
		}
	}
	return out
}
