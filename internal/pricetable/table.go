// Package pricetable builds the printed per-tier price table for a style.
package pricetable

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Simplici0/decoquote/internal/pricing"
)

// Row is one printed quantity.
type Row struct {
	Tier       string  `json:"tier"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	LTMFee     float64 `json:"ltm_fee,omitempty"`
	OrderTotal float64 `json:"order_total"`
}

// Table is the pricing table for one style and method.
type Table struct {
	Style  string         `json:"style"`
	Method pricing.Method `json:"method"`
	Units  string         `json:"units"`
	Rows   []Row          `json:"rows"`
}

// Quantities returns the first quantity of every tier.
func Quantities(tiers pricing.TierTable) []int {
	out := make([]int, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, t.MinQty)
	}
	return out
}

// Generate prices each quantity with default options. Nil quantities means
// one row per tier boundary.
func Generate(data pricing.PricingData, quantities []int) (Table, error) {
	if quantities == nil {
		quantities = Quantities(data.Tiers)
	}

	table := Table{Style: data.Style, Method: data.Method, Units: data.Profile.UnitName, Rows: make([]Row, 0, len(quantities))}
	for _, qty := range quantities {
		b, err := pricing.Compute(data, pricing.Request{Quantity: qty})
		if err != nil {
			return Table{}, fmt.Errorf("price table row %d: %w", qty, err)
		}
		ltm, _ := b.Line(pricing.LabelLTM)
		table.Rows = append(table.Rows, Row{
			Tier:       b.Tier,
			Quantity:   qty,
			UnitPrice:  b.UnitPrice,
			LTMFee:     ltm,
			OrderTotal: b.OrderTotal,
		})
	}
	return table, nil
}

// Render writes t as an aligned text table.
func Render(w io.Writer, t Table) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", t.Style, t.Method); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Tier\tQty\tUnit\tLTM/unit\tTotal\t")
	for _, r := range t.Rows {
		ltm := "-"
		if r.LTMFee > 0 {
			ltm = fmt.Sprintf("%.2f", r.LTMFee)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\t%.2f\t\n", r.Tier, r.Quantity, r.UnitPrice, ltm, r.OrderTotal)
	}
	return tw.Flush()
}
