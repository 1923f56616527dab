package catalog

import "github.com/Simplici0/decoquote/internal/pricing"

// Fixture styles.
const (
	StyleCap        = "C112"
	StyleTee        = "PC61"
	StylePrintTee   = "PC54"
	StyleTumbler    = "LTM101"
	StyleSafetyVest = "CSV400"
)

// standardTiers builds the house tier table with one denominator per tier.
func standardTiers(d1, d8, d24, d48, d72 float64) pricing.TierTable {
	return pricing.TierTable{
		{Label: "1-7", MinQty: 1, MaxQty: 7, MarginDenominator: d1},
		{Label: "8-23", MinQty: 8, MaxQty: 23, MarginDenominator: d8},
		{Label: "24-47", MinQty: 24, MaxQty: 47, MarginDenominator: d24},
		{Label: "48-71", MinQty: 48, MaxQty: 71, MarginDenominator: d48},
		{Label: "72+", MinQty: 72, MarginDenominator: d72},
	}
}

// tieredRows builds one row per standard tier at the given baseline.
func tieredRows(baseline, incCost, incSize float64, base ...float64) []pricing.CostRow {
	labels := []string{"1-7", "8-23", "24-47", "48-71", "72+"}
	rows := make([]pricing.CostRow, 0, len(labels))
	for i, label := range labels {
		rows = append(rows, pricing.CostRow{
			TierLabel:     label,
			BaselineUnits: baseline,
			BaseCost:      base[i],
			IncrementCost: incCost,
			IncrementSize: incSize,
		})
	}
	return rows
}

func profile(m pricing.Method) pricing.Profile {
	p, _ := pricing.DefaultProfile(m)
	return p
}

// CapFixture is the reference cap-embroidery data: C112 blank at $6.00,
// 8,000 stitch baseline, $1.00 per extra 1,000 stitches and a 5,000 stitch
// back logo option.
func CapFixture() pricing.PricingData {
	return pricing.PricingData{
		Style:     StyleCap,
		Method:    pricing.CapEmbroidery,
		BlankCost: 6.00,
		Tiers:     standardTiers(0.57, 0.57, 0.57, 0.57, 0.6),
		Rows:      tieredRows(8000, 1, 1000, 17, 15, 13, 12, 10),
		AddonRows: map[string][]pricing.CostRow{
			pricing.AddonBackLogo: tieredRows(5000, 1, 1000, 5, 5, 5, 5, 5),
		},
		Profile: profile(pricing.CapEmbroidery),
	}
}

// Fixtures returns the seeded catalog: one style per decoration method.
func Fixtures() []pricing.PricingData {
	garmentRows := append(
		tieredRows(8000, 1.25, 1000, 12, 11, 10, 9.5, 8.5),
		tieredRows(5000, 1.25, 1000, 10, 9, 8, 7.5, 6.5)...,
	)

	return []pricing.PricingData{
		CapFixture(),
		{
			Style:     StyleTee,
			Method:    pricing.GarmentEmbroidery,
			BlankCost: 3.50,
			Tiers:     standardTiers(0.6, 0.6, 0.6, 0.6, 0.62),
			Rows:      garmentRows,
			AddonRows: map[string][]pricing.CostRow{
				pricing.AddonBackLogo: tieredRows(5000, 1.25, 1000, 8, 7, 6, 5.5, 5),
			},
			Profile: profile(pricing.GarmentEmbroidery),
		},
		{
			Style:     StylePrintTee,
			Method:    pricing.ScreenPrint,
			BlankCost: 2.80,
			Tiers:     standardTiers(0.55, 0.55, 0.6, 0.6, 0.65),
			Rows:      tieredRows(1, 0.85, 1, 4.5, 3.75, 2.5, 2, 1.6),
			AddonRows: map[string][]pricing.CostRow{
				pricing.AddonExtraLocation: tieredRows(1, 0.85, 1, 4, 3.25, 2.25, 1.8, 1.4),
			},
			Profile: profile(pricing.ScreenPrint),
		},
		{
			Style:     StylePrintTee,
			Method:    pricing.DTF,
			BlankCost: 2.80,
			Tiers:     standardTiers(0.55, 0.55, 0.6, 0.6, 0.65),
			Rows:      tieredRows(1, 3, 1, 7, 6, 5, 4.5, 4),
			Profile:   profile(pricing.DTF),
		},
		{
			Style:     StyleTumbler,
			Method:    pricing.LaserEngraving,
			BlankCost: 8.00,
			Tiers:     standardTiers(0.6, 0.6, 0.62, 0.62, 0.65),
			Rows:      tieredRows(1, 3.5, 1, 6, 5, 4, 3.5, 3),
			Profile:   profile(pricing.LaserEngraving),
		},
		{
			Style:     StyleSafetyVest,
			Method:    pricing.SafetyStripes,
			BlankCost: 9.00,
			Tiers:     standardTiers(0.6, 0.6, 0.6, 0.62, 0.65),
			Rows:      tieredRows(1, 2, 1, 5, 4.5, 4, 3.5, 3),
			Profile:   profile(pricing.SafetyStripes),
		},
	}
}
