package quote

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/pricing"
)

type countingSource struct {
	calls atomic.Int32
	inner catalog.Source
}

func (s *countingSource) Load(ctx context.Context, style string, method pricing.Method) (pricing.PricingData, error) {
	s.calls.Add(1)
	return s.inner.Load(ctx, style, method)
}

func TestCalculator_RecomputesOnEveryChange(t *testing.T) {
	src := &countingSource{inner: catalog.NewStaticSource(catalog.Fixtures()...)}
	calc := NewCalculator(NewPricer(catalog.NewViewCache(src)), "C112", pricing.CapEmbroidery, Inputs{Quantity: 1})

	var seen []float64
	unsubscribe := calc.Subscribe(func(r Result) {
		require.NoError(t, r.Err)
		seen = append(seen, r.Breakdown.UnitPrice)
	})

	ctx := context.Background()
	calc.Update(ctx, nil)
	for _, qty := range []int{2, 24, 30, 72} {
		calc.Update(ctx, func(in *Inputs) { in.Quantity = qty })
	}
	require.Equal(t, []float64{78, 53, 24, 24, 20}, seen)
	require.Equal(t, int32(1), src.calls.Load(), "keystrokes must not refetch")

	unsubscribe()
	calc.Update(ctx, func(in *Inputs) { in.Quantity = 48 })
	require.Len(t, seen, 5)
	require.Equal(t, 23.0, calc.Result().Breakdown.UnitPrice)
}

func TestCalculator_AddonToggle(t *testing.T) {
	p, _ := fixturePricer()
	calc := NewCalculator(p, catalog.StyleCap, pricing.CapEmbroidery, Inputs{Quantity: 30})
	ctx := context.Background()

	base := calc.Update(ctx, nil)
	require.True(t, base.OK())
	require.Equal(t, 24.0, base.Breakdown.UnitPrice)

	on := calc.Update(ctx, func(in *Inputs) { in.SetAddon(pricing.BackLogo(5000, 7000)) })
	require.True(t, on.OK())
	require.Equal(t, 31.0, on.Breakdown.UnitPrice)

	off := calc.Update(ctx, func(in *Inputs) {
		a := pricing.BackLogo(5000, 7000)
		a.Enabled = false
		in.SetAddon(a)
	})
	require.Equal(t, base.Breakdown, off.Breakdown)
	require.Len(t, calc.Inputs().Addons, 1)
}

func TestCalculator_QuickQuoteAgreement(t *testing.T) {
	p, _ := fixturePricer()
	calc := NewCalculator(p, catalog.StyleCap, pricing.CapEmbroidery, Inputs{})
	ctx := context.Background()

	for _, qty := range []int{1, 23, 24, 47, 48, 71, 72, 144} {
		full := calc.Update(ctx, func(in *Inputs) { in.Quantity = qty })
		require.True(t, full.OK(), "qty %d: %v", qty, full.Err)

		quick, err := p.QuickQuote(ctx, catalog.StyleCap, pricing.CapEmbroidery, qty)
		require.NoError(t, err)
		require.Equal(t, quick.UnitPrice, full.Breakdown.UnitPrice, "qty %d", qty)
	}
}

func TestCalculator_UnavailableAndFailures(t *testing.T) {
	down := NewCalculator(NewPricer(catalog.NewViewCache(downSource{})), catalog.StyleCap, pricing.CapEmbroidery, Inputs{Quantity: 10})
	res := down.Update(context.Background(), nil)
	require.True(t, res.Unavailable)
	require.ErrorIs(t, res.Err, catalog.ErrUpstreamFetch)
	require.Zero(t, res.Breakdown.UnitPrice)

	p, _ := fixturePricer()
	calc := NewCalculator(p, catalog.StyleCap, pricing.CapEmbroidery, Inputs{Quantity: 10})
	res = calc.Update(context.Background(), func(in *Inputs) { in.Baseline = 9000 })
	require.False(t, res.Unavailable)
	require.ErrorIs(t, res.Err, pricing.ErrMissingTierData)
	require.Equal(t, pricing.Breakdown{}, res.Breakdown)
}
