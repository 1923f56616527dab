package pricing

import (
	"fmt"
	"strings"
)

// Method identifies one decoration calculator.
type Method string

const (
	CapEmbroidery     Method = "cap-embroidery"
	GarmentEmbroidery Method = "garment-embroidery"
	ScreenPrint       Method = "screen-print"
	DTF               Method = "dtf"
	LaserEngraving    Method = "laser-engraving"
	SafetyStripes     Method = "safety-stripes"
)

var defaultProfiles = map[Method]Profile{
	CapEmbroidery: {
		UnitName:        "stitches",
		DefaultBaseline: 8000,
		LTM:             LTMPolicy{ThresholdQty: 24, FlatFee: 50},
		Rounding:        CeilToHalfDollar,
	},
	GarmentEmbroidery: {
		UnitName:        "stitches",
		DefaultBaseline: 8000,
		LTM:             LTMPolicy{ThresholdQty: 24, FlatFee: 50},
		Rounding:        CeilToHalfDollar,
	},
	ScreenPrint: {
		UnitName:        "colors",
		DefaultBaseline: 1,
		LTM:             LTMPolicy{ThresholdQty: 24, FlatFee: 75},
		Rounding:        CeilToHalfDollar,
	},
	DTF: {
		UnitName:        "transfers",
		DefaultBaseline: 1,
		LTM:             LTMPolicy{ThresholdQty: 24, FlatFee: 50},
		Rounding:        CeilToHalfDollar,
	},
	LaserEngraving: {
		UnitName:        "sides",
		DefaultBaseline: 1,
		LTM:             LTMPolicy{ThresholdQty: 24, FlatFee: 50},
		Rounding:        CeilToWholeDollar,
	},
	SafetyStripes: {
		UnitName:        "stripes",
		DefaultBaseline: 1,
		LTM:             LTMPolicy{ThresholdQty: 24, FlatFee: 50},
		Rounding:        NoRounding,
	},
}

// Methods lists every supported method in display order.
func Methods() []Method {
	return []Method{CapEmbroidery, GarmentEmbroidery, ScreenPrint, DTF, LaserEngraving, SafetyStripes}
}

// ParseMethod normalizes s and checks it names a supported method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := defaultProfiles[m]; !ok {
		return "", fmt.Errorf("%w: unknown method %q", ErrInvalidRequest, s)
	}
	return m, nil
}

// DefaultProfile returns the house rules for m. Catalog sources may override
// them per style.
func DefaultProfile(m Method) (Profile, bool) {
	p, ok := defaultProfiles[m]
	return p, ok
}

// Addon identifiers with cost rows in the catalog.
const (
	AddonBackLogo      = "back-logo"
	AddonExtraLocation = "extra-location"
)

// BackLogo is a second, stitch-priced logo on every unit.
func BackLogo(baseline, stitches float64) Addon {
	return Addon{ID: AddonBackLogo, Label: "Back logo", Enabled: true, Kind: PerUnit, Baseline: baseline, Units: stitches}
}

// ExtraLocation is an additional print location priced from the catalog rows.
func ExtraLocation(baseline, units float64) Addon {
	return Addon{ID: AddonExtraLocation, Label: "Extra location", Enabled: true, Kind: PerUnit, Baseline: baseline, Units: units}
}

// SafetyStripeAddon adds reflective stripes at a fixed per-unit cost.
func SafetyStripeAddon(cost float64) Addon {
	return Addon{ID: "safety-stripes", Label: "Safety stripes", Enabled: true, Kind: PerUnit, Cost: cost}
}

// NonStandardSurcharge covers items outside the standard catalog.
func NonStandardSurcharge(cost float64) Addon {
	return Addon{ID: "non-standard", Label: "Non-standard product", Enabled: true, Kind: PerUnit, Cost: cost}
}

// Digitizing is the one-time stitch file setup fee.
func Digitizing(fee float64) Addon {
	return Addon{ID: "digitizing", Label: "Digitizing", Enabled: true, Kind: Flat, Cost: fee}
}

// ScreenSetup charges one screen per print color, once per order.
func ScreenSetup(colors int, perScreen float64) Addon {
	return Addon{ID: "screen-setup", Label: fmt.Sprintf("Screen setup (%d)", colors), Enabled: true, Kind: Flat, Cost: float64(colors) * perScreen}
}
