package pricing

import (
	"fmt"
	"math"
)

// CostRow is the decoration charge for one tier at one baseline option, e.g.
// 8,000 stitches or a single print color. Units above the baseline are billed
// in IncrementSize steps of IncrementCost each.
type CostRow struct {
	TierLabel     string  `json:"tier_label"`
	BaselineUnits float64 `json:"baseline_units"`
	BaseCost      float64 `json:"base_cost"`
	IncrementCost float64 `json:"increment_cost"`
	IncrementSize float64 `json:"increment_size"`
}

func (r CostRow) cost(units float64) float64 {
	extra := units - r.BaselineUnits
	if extra <= 0 || r.IncrementSize <= 0 {
		return r.BaseCost
	}
	return r.BaseCost + math.Ceil(extra/r.IncrementSize)*r.IncrementCost
}

func findRow(tierLabel string, baseline float64, rows []CostRow) (CostRow, bool) {
	for _, row := range rows {
		if row.TierLabel == tierLabel && row.BaselineUnits == baseline {
			return row, true
		}
	}
	return CostRow{}, false
}

// baselinesFor lists the distinct baseline options offered for a tier.
func baselinesFor(tierLabel string, rows []CostRow) []float64 {
	var out []float64
	seen := make(map[float64]struct{})
	for _, row := range rows {
		if row.TierLabel != tierLabel {
			continue
		}
		if _, ok := seen[row.BaselineUnits]; ok {
			continue
		}
		seen[row.BaselineUnits] = struct{}{}
		out = append(out, row.BaselineUnits)
	}
	return out
}

// decorationCost prices chosenUnits against the row for tierLabel at the
// selected baseline option. Baselines are matched exactly, never interpolated.
func decorationCost(tierLabel string, baseline, chosenUnits float64, rows []CostRow) (float64, error) {
	row, ok := findRow(tierLabel, baseline, rows)
	if !ok {
		return 0, fmt.Errorf("%w: no cost row for tier %q at baseline %g", ErrMissingTierData, tierLabel, baseline)
	}
	return row.cost(chosenUnits), nil
}
