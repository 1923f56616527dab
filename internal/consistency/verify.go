package consistency

import (
	"context"
	"fmt"

	"github.com/Simplici0/decoquote/internal/pricing"
)

// DefaultQuantities straddle every boundary of the standard tier table.
var DefaultQuantities = []int{1, 23, 24, 47, 48, 71, 72, 144}

// Mismatch is one quantity where a site disagreed with the reference site or
// failed to price.
type Mismatch struct {
	Site      string  `json:"site"`
	Quantity  int     `json:"quantity"`
	Want      float64 `json:"want"`
	Got       float64 `json:"got"`
	Error     string  `json:"error,omitempty"`
	Reference string  `json:"reference"`
}

func (m Mismatch) String() string {
	if m.Error != "" {
		return fmt.Sprintf("%s qty %d: %s", m.Site, m.Quantity, m.Error)
	}
	return fmt.Sprintf("%s qty %d: got %.2f, %s says %.2f", m.Site, m.Quantity, m.Got, m.Reference, m.Want)
}

// Report is the outcome of one Verify run.
type Report struct {
	Style      string         `json:"style"`
	Method     pricing.Method `json:"method"`
	Sites      []string       `json:"sites"`
	Quantities []int          `json:"quantities"`
	Mismatches []Mismatch     `json:"mismatches"`
}

// OK reports whether every site agreed at every quantity.
func (r Report) OK() bool { return len(r.Mismatches) == 0 }

// Verify prices each quantity at every site and compares against the first
// site. A site that fails where the reference priced is a mismatch too.
func Verify(ctx context.Context, sites []CallSite, style string, method pricing.Method, quantities []int) (Report, error) {
	if len(sites) < 2 {
		return Report{}, fmt.Errorf("verify needs at least two call sites, got %d", len(sites))
	}
	if quantities == nil {
		quantities = DefaultQuantities
	}

	report := Report{Style: style, Method: method, Quantities: quantities, Mismatches: []Mismatch{}}
	for _, s := range sites {
		report.Sites = append(report.Sites, s.Name())
	}

	ref := sites[0]
	for _, qty := range quantities {
		want, err := ref.UnitPrice(ctx, style, method, qty)
		if err != nil {
			return Report{}, fmt.Errorf("reference %s qty %d: %w", ref.Name(), qty, err)
		}
		for _, s := range sites[1:] {
			got, err := s.UnitPrice(ctx, style, method, qty)
			m := Mismatch{Site: s.Name(), Quantity: qty, Want: want, Got: got, Reference: ref.Name()}
			switch {
			case err != nil:
				m.Error = err.Error()
			case got == want:
				continue
			}
			report.Mismatches = append(report.Mismatches, m)
		}
	}
	return report, nil
}
