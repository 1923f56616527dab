// Package pricing turns a blank cost, a quantity and a set of decoration
// options into a unit price, an itemized breakdown and an order total.
//
// Compute is the only entry point. Every caller that shows or stores a price
// goes through it with the same PricingData so the numbers agree to the cent.
package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Breakdown line labels.
const (
	LabelBlank      = "Blank (marked up)"
	LabelDecoration = "Decoration"
	LabelLTM        = "Less-than-minimum fee"
	LabelRounding   = "Rounding"
)

// Profile holds the per-method rules that are not tier-indexed.
type Profile struct {
	UnitName        string       `json:"unit_name"`
	DefaultBaseline float64      `json:"default_baseline"`
	LTM             LTMPolicy    `json:"ltm"`
	Rounding        RoundingRule `json:"rounding"`
}

// PricingData is everything the product-data collaborator supplies for one
// style and method. It is fetched once per product view and reused for every
// recompute.
type PricingData struct {
	Style     string               `json:"style"`
	Method    Method               `json:"method"`
	BlankCost float64              `json:"blank_cost"`
	Tiers     TierTable            `json:"tiers"`
	Rows      []CostRow            `json:"rows"`
	AddonRows map[string][]CostRow `json:"addon_rows,omitempty"`
	Profile   Profile              `json:"profile"`
}

// Request carries the customer's choices. Zero Baseline selects the profile
// default; zero Units means exactly the baseline.
type Request struct {
	Quantity int     `json:"quantity"`
	Baseline float64 `json:"baseline,omitempty"`
	Units    float64 `json:"units,omitempty"`
	Addons   []Addon `json:"addons,omitempty"`
}

// Line is one labeled amount in a breakdown.
type Line struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Breakdown is the full, serializable result of one computation. Lines are
// per-unit and sum to UnitPrice; OrderLines are charged once per order.
type Breakdown struct {
	Style        string  `json:"style"`
	Method       Method  `json:"method"`
	Tier         string  `json:"tier"`
	Quantity     int     `json:"quantity"`
	Baseline     float64 `json:"baseline"`
	Units        float64 `json:"units"`
	Lines        []Line  `json:"lines"`
	OrderLines   []Line  `json:"order_lines,omitempty"`
	RawUnitPrice float64 `json:"raw_unit_price"`
	Rounding     float64 `json:"rounding"`
	UnitPrice    float64 `json:"unit_price"`
	OrderTotal   float64 `json:"order_total"`
}

// Line returns the amount of the first line with the given label.
func (b Breakdown) Line(label string) (float64, bool) {
	for _, line := range b.Lines {
		if line.Label == label {
			return line.Amount, true
		}
	}
	return 0, false
}

// Compute prices req against data. It is deterministic and side-effect free;
// any failure aborts the whole computation and no partial breakdown is returned.
func Compute(data PricingData, req Request) (Breakdown, error) {
	if err := validateRequest(data, req); err != nil {
		return Breakdown{}, err
	}
	if !data.Profile.Rounding.Valid() {
		return Breakdown{}, fmt.Errorf("%w: %s/%s has rounding rule %q", ErrConfiguration, data.Style, data.Method, data.Profile.Rounding)
	}
	if err := data.Tiers.Validate(); err != nil {
		return Breakdown{}, err
	}

	tier, err := resolveTier(req.Quantity, data.Tiers)
	if err != nil {
		return Breakdown{}, err
	}

	blank, err := markUp(data.BlankCost, tier)
	if err != nil {
		return Breakdown{}, err
	}

	baseline, err := selectBaseline(data, tier, req.Baseline)
	if err != nil {
		return Breakdown{}, err
	}
	units := req.Units
	if units == 0 {
		units = baseline
	}

	decoration, err := decorationCost(tier.Label, baseline, units, data.Rows)
	if err != nil {
		return Breakdown{}, err
	}

	addons, err := sumAddons(tier, req.Addons, data.AddonRows)
	if err != nil {
		return Breakdown{}, err
	}

	lines := make([]Line, 0, 4+len(addons.perUnitLines))
	lines = append(lines, Line{Label: LabelBlank, Amount: blank}, Line{Label: LabelDecoration, Amount: decoration})
	lines = append(lines, addons.perUnitLines...)
	if ltm := ltmSurcharge(req.Quantity, data.Profile.LTM); ltm > 0 {
		lines = append(lines, Line{Label: LabelLTM, Amount: ltm})
	}

	raw := 0.0
	for _, line := range lines {
		raw += line.Amount
	}
	if !finite(raw) || !finite(addons.flat) {
		return Breakdown{}, fmt.Errorf("%w: price for %s/%s at quantity %d is out of range", ErrInvalidRequest, data.Style, data.Method, req.Quantity)
	}

	unit, err := roundPrice(raw, data.Profile.Rounding)
	if err != nil {
		return Breakdown{}, err
	}
	total := orderTotal(unit, req.Quantity, addons.flatLines)
	if !finite(total) {
		return Breakdown{}, fmt.Errorf("%w: order total for %s/%s at quantity %d is out of range", ErrInvalidRequest, data.Style, data.Method, req.Quantity)
	}
	adjustment := unit - raw
	if adjustment != 0 {
		lines = append(lines, Line{Label: LabelRounding, Amount: adjustment})
	}

	return Breakdown{
		Style:        data.Style,
		Method:       data.Method,
		Tier:         tier.Label,
		Quantity:     req.Quantity,
		Baseline:     baseline,
		Units:        units,
		Lines:        lines,
		OrderLines:   addons.flatLines,
		RawUnitPrice: raw,
		Rounding:     adjustment,
		UnitPrice:    unit,
		OrderTotal:   total,
	}, nil
}

func validateRequest(data PricingData, req Request) error {
	if req.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidRequest, req.Quantity)
	}
	if !finite(data.BlankCost) || data.BlankCost < 0 {
		return fmt.Errorf("%w: blank cost %v for style %s", ErrInvalidRequest, data.BlankCost, data.Style)
	}
	if !finite(req.Units) || req.Units < 0 {
		return fmt.Errorf("%w: units must be non-negative, got %v", ErrInvalidRequest, req.Units)
	}
	if !finite(req.Baseline) || req.Baseline < 0 {
		return fmt.Errorf("%w: baseline must be non-negative, got %v", ErrInvalidRequest, req.Baseline)
	}
	return nil
}

// selectBaseline picks the requested baseline option, falling back to the
// profile default and then to the tier's only option when there is just one.
func selectBaseline(data PricingData, tier Tier, requested float64) (float64, error) {
	if requested > 0 {
		return requested, nil
	}
	if data.Profile.DefaultBaseline > 0 {
		return data.Profile.DefaultBaseline, nil
	}
	options := baselinesFor(tier.Label, data.Rows)
	switch len(options) {
	case 0:
		return 0, fmt.Errorf("%w: no cost rows for tier %q", ErrMissingTierData, tier.Label)
	case 1:
		return options[0], nil
	default:
		return 0, fmt.Errorf("%w: tier %q offers %d baseline options and none was selected", ErrInvalidRequest, tier.Label, len(options))
	}
}

func orderTotal(unit float64, quantity int, flat []Line) float64 {
	total := decimal.NewFromFloat(unit).Mul(decimal.NewFromInt(int64(quantity)))
	for _, line := range flat {
		total = total.Add(decimal.NewFromFloat(line.Amount))
	}
	out, _ := total.Round(2).Float64()
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
