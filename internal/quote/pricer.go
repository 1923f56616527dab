// Package quote holds the call sites that show or store a price: the quick
// quote widget, the live calculator and the saved quote snapshot. All of them
// price through pricing.Compute with data from the same DataProvider.
package quote

import (
	"context"
	"fmt"

	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/pricing"
)

// DataProvider returns cached pricing data for a product view.
// *catalog.ViewCache implements it.
type DataProvider interface {
	Get(ctx context.Context, style string, method pricing.Method) (pricing.PricingData, error)
}

// Pricer prices requests against provider data.
type Pricer struct {
	data DataProvider
}

// NewPricer returns a Pricer over data.
func NewPricer(data DataProvider) *Pricer {
	return &Pricer{data: data}
}

// Price loads the style's data and computes req.
func (p *Pricer) Price(ctx context.Context, style string, method pricing.Method, req pricing.Request) (pricing.Breakdown, error) {
	data, err := p.data.Get(ctx, catalog.NormalizeStyle(style), method)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	b, err := pricing.Compute(data, req)
	if err != nil {
		return pricing.Breakdown{}, fmt.Errorf("price %s/%s x%d: %w", data.Style, method, req.Quantity, err)
	}
	return b, nil
}

// QuickQuote prices qty with the method's default options and no addons, as
// the hero widget shows it.
func (p *Pricer) QuickQuote(ctx context.Context, style string, method pricing.Method, qty int) (pricing.Breakdown, error) {
	return p.Price(ctx, style, method, pricing.Request{Quantity: qty})
}
