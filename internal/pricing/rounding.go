package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundingRule selects how a raw unit price is snapped for display. It is
// chosen per method or style and travels with the pricing data.
type RoundingRule string

const (
	CeilToHalfDollar  RoundingRule = "ceil_half_dollar"
	CeilToWholeDollar RoundingRule = "ceil_whole_dollar"
	NoRounding        RoundingRule = "none"
)

// noisePlaces drops float error below a millionth of a dollar before snapping,
// so 20.000000000000004 stays 20 instead of ceiling to 20.50.
const noisePlaces = 6

var (
	halfDollar = decimal.NewFromFloat(0.5)
	two        = decimal.NewFromInt(2)
)

// Valid reports whether r names a known rule.
func (r RoundingRule) Valid() bool {
	switch r {
	case CeilToHalfDollar, CeilToWholeDollar, NoRounding:
		return true
	}
	return false
}

func roundPrice(raw float64, rule RoundingRule) (float64, error) {
	price := decimal.NewFromFloat(raw).Round(noisePlaces)

	switch rule {
	case CeilToHalfDollar:
		if !price.Mod(halfDollar).IsZero() {
			price = price.Mul(two).Ceil().Div(two)
		}
	case CeilToWholeDollar:
		price = price.Ceil()
	case NoRounding:
	default:
		return 0, fmt.Errorf("%w: unknown rounding rule %q", ErrConfiguration, rule)
	}

	out, _ := price.Round(2).Float64()
	return out, nil
}
