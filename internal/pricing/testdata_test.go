package pricing

func capTiers() TierTable {
	return TierTable{
		{Label: "1-7", MinQty: 1, MaxQty: 7, MarginDenominator: 0.57},
		{Label: "8-23", MinQty: 8, MaxQty: 23, MarginDenominator: 0.57},
		{Label: "24-47", MinQty: 24, MaxQty: 47, MarginDenominator: 0.57},
		{Label: "48-71", MinQty: 48, MaxQty: 71, MarginDenominator: 0.57},
		{Label: "72+", MinQty: 72, MarginDenominator: 0.6},
	}
}

func capData() PricingData {
	stitch := func(label string, base float64) CostRow {
		return CostRow{TierLabel: label, BaselineUnits: 8000, BaseCost: base, IncrementCost: 1, IncrementSize: 1000}
	}
	backLogo := func(label string) CostRow {
		return CostRow{TierLabel: label, BaselineUnits: 5000, BaseCost: 5, IncrementCost: 1, IncrementSize: 1000}
	}
	profile, _ := DefaultProfile(CapEmbroidery)
	return PricingData{
		Style:     "C112",
		Method:    CapEmbroidery,
		BlankCost: 6.00,
		Tiers:     capTiers(),
		Rows: []CostRow{
			stitch("1-7", 17), stitch("8-23", 15), stitch("24-47", 13), stitch("48-71", 12), stitch("72+", 10),
		},
		AddonRows: map[string][]CostRow{
			AddonBackLogo: {backLogo("1-7"), backLogo("8-23"), backLogo("24-47"), backLogo("48-71"), backLogo("72+")},
		},
		Profile: profile,
	}
}
