package pricing

import (
	"fmt"
	"math"
)

// markUp converts a blank cost into its decorated-equivalent cost for the
// tier. The result is left unrounded.
func markUp(blankCost float64, tier Tier) (float64, error) {
	denom := tier.MarginDenominator
	if math.IsNaN(denom) || denom <= 0 || denom > 1 {
		return 0, fmt.Errorf("%w: tier %q has denominator %v", ErrInvalidMargin, tier.Label, denom)
	}
	return blankCost / denom, nil
}
