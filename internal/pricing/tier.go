package pricing

import (
	"fmt"
	"sort"
	"strconv"
)

// Tier is a quantity range with its own margin denominator. MaxQty of zero
// marks the open-ended last tier ("72+").
type Tier struct {
	Label             string  `json:"label"`
	MinQty            int     `json:"min_qty"`
	MaxQty            int     `json:"max_qty"`
	MarginDenominator float64 `json:"margin_denominator"`
}

// Unbounded reports whether the tier has no upper quantity limit.
func (t Tier) Unbounded() bool {
	return t.MaxQty == 0
}

func (t Tier) contains(quantity int) bool {
	return quantity >= t.MinQty && (t.Unbounded() || quantity <= t.MaxQty)
}

// Range renders the tier bounds the way price sheets print them: "24-47" or "72+".
func (t Tier) Range() string {
	if t.Unbounded() {
		return strconv.Itoa(t.MinQty) + "+"
	}
	return strconv.Itoa(t.MinQty) + "-" + strconv.Itoa(t.MaxQty)
}

// TierTable is the ordered set of tiers for one style and method.
type TierTable []Tier

// Validate checks that the tiers are contiguous, non-overlapping, start at a
// quantity of one and end with an unbounded tier.
func (tt TierTable) Validate() error {
	if len(tt) == 0 {
		return fmt.Errorf("%w: tier table is empty", ErrConfiguration)
	}

	sorted := tt.sorted()
	if sorted[0].MinQty != 1 {
		return fmt.Errorf("%w: first tier %q starts at %d, want 1", ErrConfiguration, sorted[0].Label, sorted[0].MinQty)
	}

	labels := make(map[string]struct{}, len(sorted))
	for i, tier := range sorted {
		if tier.Label == "" {
			return fmt.Errorf("%w: tier starting at %d has no label", ErrConfiguration, tier.MinQty)
		}
		if _, dup := labels[tier.Label]; dup {
			return fmt.Errorf("%w: duplicate tier label %q", ErrConfiguration, tier.Label)
		}
		labels[tier.Label] = struct{}{}

		last := i == len(sorted)-1
		if tier.Unbounded() {
			if !last {
				return fmt.Errorf("%w: tier %q is unbounded but not last", ErrConfiguration, tier.Label)
			}
			continue
		}
		if tier.MaxQty < tier.MinQty {
			return fmt.Errorf("%w: tier %q has max %d below min %d", ErrConfiguration, tier.Label, tier.MaxQty, tier.MinQty)
		}
		if last {
			return fmt.Errorf("%w: last tier %q must be unbounded", ErrConfiguration, tier.Label)
		}
		if next := sorted[i+1]; next.MinQty != tier.MaxQty+1 {
			return fmt.Errorf("%w: tiers %q and %q are not contiguous", ErrConfiguration, tier.Label, next.Label)
		}
	}
	return nil
}

func (tt TierTable) sorted() TierTable {
	out := make(TierTable, len(tt))
	copy(out, tt)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinQty < out[j].MinQty })
	return out
}

// resolveTier returns the unique tier containing quantity. A miss is a
// configuration error and is never defaulted to another tier.
func resolveTier(quantity int, table TierTable) (Tier, error) {
	if len(table) == 0 {
		return Tier{}, fmt.Errorf("%w: tier table is empty", ErrConfiguration)
	}
	for _, tier := range table {
		if tier.contains(quantity) {
			return tier, nil
		}
	}
	return Tier{}, fmt.Errorf("%w: no tier covers quantity %d", ErrConfiguration, quantity)
}
