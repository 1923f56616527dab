package quote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/pricing"
)

func TestQuickQuote_CapFixture(t *testing.T) {
	p, _ := fixturePricer()

	cases := map[int]float64{1: 78, 7: 35, 8: 32, 23: 28, 24: 24, 30: 24, 47: 24, 48: 23, 71: 23, 72: 20, 144: 20}
	for qty, want := range cases {
		b, err := p.QuickQuote(context.Background(), "c112", pricing.CapEmbroidery, qty)
		require.NoError(t, err, "qty %d", qty)
		require.Equal(t, want, b.UnitPrice, "qty %d", qty)
	}
}

func TestQuickQuote_MatchesCompute(t *testing.T) {
	p, _ := fixturePricer()

	b, err := p.QuickQuote(context.Background(), catalog.StyleCap, pricing.CapEmbroidery, 30)
	require.NoError(t, err)

	direct, err := pricing.Compute(catalog.CapFixture(), pricing.Request{Quantity: 30})
	require.NoError(t, err)
	require.Equal(t, direct, b)
	require.Equal(t, 720.0, b.OrderTotal)
}

func TestPrice_Errors(t *testing.T) {
	p, _ := fixturePricer()
	ctx := context.Background()

	_, err := p.QuickQuote(ctx, catalog.StyleCap, pricing.CapEmbroidery, 0)
	require.ErrorIs(t, err, pricing.ErrInvalidRequest)

	_, err = p.Price(ctx, catalog.StyleCap, pricing.CapEmbroidery, pricing.Request{Quantity: 10, Baseline: 9000})
	require.ErrorIs(t, err, pricing.ErrMissingTierData)

	_, err = p.QuickQuote(ctx, "NOPE", pricing.CapEmbroidery, 10)
	require.ErrorIs(t, err, catalog.ErrNotFound)

	down := NewPricer(catalog.NewViewCache(downSource{}))
	_, err = down.QuickQuote(ctx, catalog.StyleCap, pricing.CapEmbroidery, 10)
	require.ErrorIs(t, err, catalog.ErrUpstreamFetch)
}
