// Package consistency checks that every place a price is shown or stored
// agrees to the cent for the same inputs.
package consistency

import (
	"context"

	"github.com/Simplici0/decoquote/internal/pricetable"
	"github.com/Simplici0/decoquote/internal/pricing"
	"github.com/Simplici0/decoquote/internal/quote"
)

// CallSite is one price surface under test.
type CallSite interface {
	Name() string
	UnitPrice(ctx context.Context, style string, method pricing.Method, qty int) (float64, error)
}

// QuickQuoteSite prices through the hero widget path.
type QuickQuoteSite struct {
	Pricer *quote.Pricer
}

func (QuickQuoteSite) Name() string { return "quick-quote" }

func (s QuickQuoteSite) UnitPrice(ctx context.Context, style string, method pricing.Method, qty int) (float64, error) {
	b, err := s.Pricer.QuickQuote(ctx, style, method, qty)
	if err != nil {
		return 0, err
	}
	return b.UnitPrice, nil
}

// CalculatorSite drives a full quote builder through a quantity edit.
type CalculatorSite struct {
	Pricer *quote.Pricer
}

func (CalculatorSite) Name() string { return "calculator" }

func (s CalculatorSite) UnitPrice(ctx context.Context, style string, method pricing.Method, qty int) (float64, error) {
	calc := quote.NewCalculator(s.Pricer, style, method, quote.Inputs{Quantity: 1})
	res := calc.Update(ctx, func(in *quote.Inputs) { in.Quantity = qty })
	if res.Err != nil {
		return 0, res.Err
	}
	return res.Breakdown.UnitPrice, nil
}

// SnapshotSite saves a quote and reads the stored snapshot back.
type SnapshotSite struct {
	Service *quote.Service
}

func (SnapshotSite) Name() string { return "quote-snapshot" }

func (s SnapshotSite) UnitPrice(ctx context.Context, style string, method pricing.Method, qty int) (float64, error) {
	saved, err := s.Service.Save(ctx, quote.SaveRequest{
		Title:   "consistency check",
		Style:   style,
		Method:  method,
		Request: pricing.Request{Quantity: qty},
	})
	if err != nil {
		return 0, err
	}
	got, err := s.Service.Get(ctx, saved.ID)
	if err != nil {
		return 0, err
	}
	return got.Breakdown.UnitPrice, nil
}

// TableSite reads the price from the printed pricing table.
type TableSite struct {
	Data quote.DataProvider
}

func (TableSite) Name() string { return "pricing-table" }

func (s TableSite) UnitPrice(ctx context.Context, style string, method pricing.Method, qty int) (float64, error) {
	data, err := s.Data.Get(ctx, style, method)
	if err != nil {
		return 0, err
	}
	table, err := pricetable.Generate(data, []int{qty})
	if err != nil {
		return 0, err
	}
	return table.Rows[0].UnitPrice, nil
}

// Standard returns the four production call sites with the quick quote first.
func Standard(p *quote.Pricer, svc *quote.Service, data quote.DataProvider) []CallSite {
	return []CallSite{
		QuickQuoteSite{Pricer: p},
		CalculatorSite{Pricer: p},
		SnapshotSite{Service: svc},
		TableSite{Data: data},
	}
}
