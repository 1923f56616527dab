package pricing

import "fmt"

// AddonKind says whether an addon is charged on every unit or once per order.
type AddonKind string

const (
	PerUnit AddonKind = "per_unit"
	Flat    AddonKind = "flat"
)

// Addon is an optional, independently toggled decoration extra. When the
// pricing data carries cost rows under the addon's ID, the addon is priced
// from those rows for the resolved tier (Baseline/Units select the option);
// otherwise Cost is used as is.
type Addon struct {
	ID       string    `json:"id"`
	Label    string    `json:"label,omitempty"`
	Enabled  bool      `json:"enabled"`
	Kind     AddonKind `json:"kind"`
	Cost     float64   `json:"cost,omitempty"`
	Baseline float64   `json:"baseline,omitempty"`
	Units    float64   `json:"units,omitempty"`
}

func (a Addon) label() string {
	if a.Label != "" {
		return a.Label
	}
	return a.ID
}

type addonTotals struct {
	perUnit      float64
	flat         float64
	perUnitLines []Line
	flatLines    []Line
}

func sumAddons(tier Tier, addons []Addon, rowsByAddon map[string][]CostRow) (addonTotals, error) {
	var totals addonTotals
	seen := make(map[string]struct{}, len(addons))

	for _, addon := range addons {
		if !addon.Enabled {
			continue
		}
		if addon.ID == "" {
			return addonTotals{}, fmt.Errorf("%w: addon id is required", ErrInvalidRequest)
		}
		if _, dup := seen[addon.ID]; dup {
			return addonTotals{}, fmt.Errorf("%w: addon %q enabled twice", ErrInvalidRequest, addon.ID)
		}
		seen[addon.ID] = struct{}{}

		amount, err := addonCost(tier, addon, rowsByAddon[addon.ID])
		if err != nil {
			return addonTotals{}, err
		}

		line := Line{Label: addon.label(), Amount: amount}
		switch addon.Kind {
		case PerUnit:
			totals.perUnit += amount
			totals.perUnitLines = append(totals.perUnitLines, line)
		case Flat:
			totals.flat += amount
			totals.flatLines = append(totals.flatLines, line)
		default:
			return addonTotals{}, fmt.Errorf("%w: addon %q has unknown kind %q", ErrInvalidRequest, addon.ID, addon.Kind)
		}
	}
	return totals, nil
}

func addonCost(tier Tier, addon Addon, rows []CostRow) (float64, error) {
	if !finite(addon.Baseline) || addon.Baseline < 0 {
		return 0, fmt.Errorf("%w: addon %q has invalid baseline %v", ErrInvalidRequest, addon.ID, addon.Baseline)
	}
	if !finite(addon.Units) || addon.Units < 0 {
		return 0, fmt.Errorf("%w: addon %q has invalid units %v", ErrInvalidRequest, addon.ID, addon.Units)
	}

	if len(rows) == 0 {
		if !finite(addon.Cost) || addon.Cost < 0 {
			return 0, fmt.Errorf("%w: addon %q has invalid cost %v", ErrInvalidRequest, addon.ID, addon.Cost)
		}
		return addon.Cost, nil
	}

	baseline := addon.Baseline
	if baseline == 0 {
		options := baselinesFor(tier.Label, rows)
		if len(options) != 1 {
			return 0, fmt.Errorf("%w: addon %q needs a baseline option for tier %q", ErrMissingTierData, addon.ID, tier.Label)
		}
		baseline = options[0]
	}
	units := addon.Units
	if units == 0 {
		units = baseline
	}

	cost, err := decorationCost(tier.Label, baseline, units, rows)
	if err != nil {
		return 0, fmt.Errorf("addon %s: %w", addon.ID, err)
	}
	return cost, nil
}
