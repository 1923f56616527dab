package consistency

import (
	"context"
	"fmt"

	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/pricing"
)

// GoldenCase is a documented unit price for the cap fixture.
type GoldenCase struct {
	Name     string
	Quantity int
	Expected float64
}

// CapGoldenCases are the expected C112 cap-embroidery prices at 8,000
// stitches, no addons.
var CapGoldenCases = []GoldenCase{
	{Name: "tier_1-7_single", Quantity: 1, Expected: 78},
	{Name: "tier_1-7_top", Quantity: 7, Expected: 35},
	{Name: "tier_8-23_bottom", Quantity: 8, Expected: 32},
	{Name: "tier_8-23_top", Quantity: 23, Expected: 28},
	{Name: "tier_24-47_bottom", Quantity: 24, Expected: 24},
	{Name: "tier_24-47_scenario", Quantity: 30, Expected: 24},
	{Name: "tier_24-47_top", Quantity: 47, Expected: 24},
	{Name: "tier_48-71_bottom", Quantity: 48, Expected: 23},
	{Name: "tier_48-71_top", Quantity: 71, Expected: 23},
	{Name: "tier_72+_bottom", Quantity: 72, Expected: 20},
	{Name: "tier_72+_gross", Quantity: 144, Expected: 20},
}

// RunGoldenCases prices every case at site against the cap fixture style and
// returns a description of each failure.
func RunGoldenCases(ctx context.Context, site CallSite, cases []GoldenCase) []string {
	var failures []string
	for _, tc := range cases {
		got, err := site.UnitPrice(ctx, catalog.StyleCap, pricing.CapEmbroidery, tc.Quantity)
		switch {
		case err != nil:
			failures = append(failures, fmt.Sprintf("%s: %s: %v", tc.Name, site.Name(), err))
		case got != tc.Expected:
			failures = append(failures, fmt.Sprintf("%s: %s: got %.2f, want %.2f", tc.Name, site.Name(), got, tc.Expected))
		}
	}
	return failures
}
