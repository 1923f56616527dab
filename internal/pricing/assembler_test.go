package pricing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompute_CapEmbroideryScenario(t *testing.T) {
	b, err := Compute(capData(), Request{Quantity: 30})
	require.NoError(t, err)

	require.Equal(t, "24-47", b.Tier)
	blank, ok := b.Line(LabelBlank)
	require.True(t, ok)
	require.InDelta(t, 10.526315789473685, blank, 1e-12)
	decoration, _ := b.Line(LabelDecoration)
	require.Equal(t, 13.0, decoration)
	require.InDelta(t, 23.526315789473685, b.RawUnitPrice, 1e-12)
	require.Equal(t, 24.0, b.UnitPrice)
	require.Equal(t, 720.0, b.OrderTotal)
	require.Equal(t, 8000.0, b.Baseline)
	require.Equal(t, 8000.0, b.Units)

	_, hasLTM := b.Line(LabelLTM)
	require.False(t, hasLTM)
}

func TestCompute_CapEmbroideryTiers(t *testing.T) {
	tests := []struct {
		quantity int
		tier     string
		unit     float64
		total    float64
	}{
		{1, "1-7", 78, 78},
		{7, "1-7", 35, 245},
		{8, "8-23", 32, 256},
		{23, "8-23", 28, 644},
		{24, "24-47", 24, 576},
		{47, "24-47", 24, 1128},
		{48, "48-71", 23, 1104},
		{71, "48-71", 23, 1633},
		{72, "72+", 20, 1440},
		{144, "72+", 20, 2880},
	}
	for _, tt := range tests {
		b, err := Compute(capData(), Request{Quantity: tt.quantity})
		require.NoError(t, err, "quantity %d", tt.quantity)
		require.Equal(t, tt.tier, b.Tier, "quantity %d", tt.quantity)
		require.Equal(t, tt.unit, b.UnitPrice, "quantity %d", tt.quantity)
		require.Equal(t, tt.total, b.OrderTotal, "quantity %d", tt.quantity)
	}
}

func TestCompute_LTMFoldedIntoUnitPrice(t *testing.T) {
	data := capData()
	data.Profile.Rounding = NoRounding

	b, err := Compute(data, Request{Quantity: 10})
	require.NoError(t, err)
	ltm, ok := b.Line(LabelLTM)
	require.True(t, ok)
	require.Equal(t, 5.0, ltm)
	require.Equal(t, 30.53, b.UnitPrice)

	b, err = Compute(data, Request{Quantity: 24})
	require.NoError(t, err)
	_, ok = b.Line(LabelLTM)
	require.False(t, ok)
}

func TestCompute_Deterministic(t *testing.T) {
	req := Request{Quantity: 30, Units: 9500, Addons: []Addon{BackLogo(5000, 7000), Digitizing(100)}}

	first, err := Compute(capData(), req)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Compute(capData(), req)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(first)
	require.Equal(t, string(a), string(b))
}

func TestCompute_MonotonicAcrossQuantities(t *testing.T) {
	prev, err := Compute(capData(), Request{Quantity: 1})
	require.NoError(t, err)
	for q := 2; q <= 200; q++ {
		cur, err := Compute(capData(), Request{Quantity: q})
		require.NoError(t, err)
		if cur.UnitPrice > prev.UnitPrice {
			t.Fatalf("unit price rose from %.2f at %d to %.2f at %d", prev.UnitPrice, q-1, cur.UnitPrice, q)
		}
		prev = cur
	}
}

func TestCompute_LinesSumToUnitPrice(t *testing.T) {
	for _, q := range []int{1, 7, 23, 30, 71, 72} {
		b, err := Compute(capData(), Request{Quantity: q, Addons: []Addon{BackLogo(5000, 6200)}})
		require.NoError(t, err)
		sum := 0.0
		for _, line := range b.Lines {
			sum += line.Amount
		}
		require.InDelta(t, b.UnitPrice, sum, 1e-9, "quantity %d", q)
	}
}

func TestCompute_Addons(t *testing.T) {
	req := Request{
		Quantity: 30,
		Addons: []Addon{
			BackLogo(5000, 7000),
			Digitizing(100),
			{ID: "disabled", Label: "Disabled", Kind: PerUnit, Cost: 40},
		},
	}

	b, err := Compute(capData(), req)
	require.NoError(t, err)
	backLogo, ok := b.Line("Back logo")
	require.True(t, ok)
	require.Equal(t, 7.0, backLogo)
	_, ok = b.Line("Disabled")
	require.False(t, ok)
	require.Equal(t, 31.0, b.UnitPrice)
	require.Equal(t, []Line{{Label: "Digitizing", Amount: 100}}, b.OrderLines)
	require.Equal(t, 1030.0, b.OrderTotal)
}

func TestCompute_StitchCountAboveBaseline(t *testing.T) {
	b, err := Compute(capData(), Request{Quantity: 30, Units: 10000})
	require.NoError(t, err)
	decoration, _ := b.Line(LabelDecoration)
	require.Equal(t, 15.0, decoration)
	require.Equal(t, 26.0, b.UnitPrice)
}

func TestCompute_BaselineOptionSelection(t *testing.T) {
	data := capData()
	data.Rows = append(data.Rows, CostRow{TierLabel: "24-47", BaselineUnits: 10000, BaseCost: 14.25, IncrementCost: 1, IncrementSize: 1000})

	b, err := Compute(data, Request{Quantity: 30, Baseline: 10000})
	require.NoError(t, err)
	decoration, _ := b.Line(LabelDecoration)
	require.Equal(t, 14.25, decoration)

	data.Profile.DefaultBaseline = 0
	_, err = Compute(data, Request{Quantity: 30})
	require.ErrorIs(t, err, ErrInvalidRequest)

	b, err = Compute(data, Request{Quantity: 72})
	require.NoError(t, err)
	require.Equal(t, 8000.0, b.Baseline)
}

func TestCompute_Failures(t *testing.T) {
	missingRow := capData()
	missingRow.Rows = missingRow.Rows[:4]

	badMargin := capData()
	badMargin.Tiers[2].MarginDenominator = 0

	badTable := capData()
	badTable.Tiers = badTable.Tiers[1:]

	badRounding := capData()
	badRounding.Profile.Rounding = ""

	negativeBlank := capData()
	negativeBlank.BlankCost = -1

	hugeCost := Addon{ID: "rush", Label: "Rush", Enabled: true, Kind: PerUnit, Cost: 1e308}
	hugeFlat := Addon{ID: "setup", Label: "Setup", Enabled: true, Kind: Flat, Cost: 1e308}
	nanUnits := BackLogo(5000, math.NaN())
	nanBaseline := BackLogo(math.NaN(), 7000)

	tests := []struct {
		name string
		data PricingData
		req  Request
		want error
	}{
		{"missing cost row", missingRow, Request{Quantity: 100}, ErrMissingTierData},
		{"invalid margin", badMargin, Request{Quantity: 30}, ErrInvalidMargin},
		{"malformed tier table", badTable, Request{Quantity: 30}, ErrConfiguration},
		{"unknown rounding", badRounding, Request{Quantity: 30}, ErrConfiguration},
		{"zero quantity", capData(), Request{Quantity: 0}, ErrInvalidRequest},
		{"negative units", capData(), Request{Quantity: 30, Units: -1}, ErrInvalidRequest},
		{"negative blank cost", negativeBlank, Request{Quantity: 30}, ErrInvalidRequest},
		{"missing addon row", capData(), Request{Quantity: 30, Addons: []Addon{BackLogo(9000, 9000)}}, ErrMissingTierData},
		{"overflowing addon sum", capData(), Request{Quantity: 30, Addons: []Addon{hugeCost, NonStandardSurcharge(1e308)}}, ErrInvalidRequest},
		{"overflowing order total", capData(), Request{Quantity: 30, Addons: []Addon{hugeCost}}, ErrInvalidRequest},
		{"overflowing flat addons", capData(), Request{Quantity: 30, Addons: []Addon{hugeFlat, Digitizing(1e308)}}, ErrInvalidRequest},
		{"NaN addon units", capData(), Request{Quantity: 30, Addons: []Addon{nanUnits}}, ErrInvalidRequest},
		{"NaN addon baseline", capData(), Request{Quantity: 30, Addons: []Addon{nanBaseline}}, ErrInvalidRequest},
		{"infinite addon units", capData(), Request{Quantity: 30, Addons: []Addon{BackLogo(5000, math.Inf(1))}}, ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Compute(tt.data, tt.req)
			require.ErrorIs(t, err, tt.want)
			require.Equal(t, Breakdown{}, b)
		})
	}
}

func TestCompute_OtherRoundingRules(t *testing.T) {
	data := capData()
	data.Profile.Rounding = CeilToWholeDollar
	b, err := Compute(data, Request{Quantity: 30})
	require.NoError(t, err)
	require.Equal(t, 24.0, b.UnitPrice)

	b, err = Compute(data, Request{Quantity: 50})
	require.NoError(t, err)
	require.Equal(t, 23.0, b.UnitPrice)

	data.Profile.Rounding = NoRounding
	b, err = Compute(data, Request{Quantity: 50})
	require.NoError(t, err)
	require.Equal(t, 22.53, b.UnitPrice)
	require.InDelta(t, 0.0037, b.Rounding, 1e-4)
}
