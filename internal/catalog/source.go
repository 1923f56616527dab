// Package catalog supplies the blank costs, tier tables and decoration cost
// rows that pricing.Compute needs, from the upstream product-data service or
// from the local database.
package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Simplici0/decoquote/internal/pricing"
)

// Source loads the pricing data for one style and method.
type Source interface {
	Load(ctx context.Context, style string, method pricing.Method) (pricing.PricingData, error)
}

// StaticSource serves a fixed set of pricing data. It backs the CLI and tests.
type StaticSource struct {
	data map[string]pricing.PricingData
}

// NewStaticSource indexes data by style and method.
func NewStaticSource(data ...pricing.PricingData) *StaticSource {
	s := &StaticSource{data: make(map[string]pricing.PricingData, len(data))}
	for _, d := range data {
		s.data[viewKey(d.Style, d.Method)] = d
	}
	return s
}

// Load implements Source.
func (s *StaticSource) Load(ctx context.Context, style string, method pricing.Method) (pricing.PricingData, error) {
	if err := ctx.Err(); err != nil {
		return pricing.PricingData{}, &FetchError{Style: style, Method: method, Err: err}
	}
	d, ok := s.data[viewKey(style, method)]
	if !ok {
		return pricing.PricingData{}, fmt.Errorf("%w: %s/%s", ErrNotFound, style, method)
	}
	return d, nil
}

// NormalizeStyle upper-cases and trims a style number.
func NormalizeStyle(style string) string {
	return strings.ToUpper(strings.TrimSpace(style))
}

func viewKey(style string, method pricing.Method) string {
	return NormalizeStyle(style) + ":" + string(method)
}

// checkCosts rejects loaded data whose money amounts are negative or not
// finite.
func checkCosts(data pricing.PricingData) error {
	if !validAmount(data.BlankCost) {
		return fmt.Errorf("blank cost %v for %s is invalid", data.BlankCost, data.Style)
	}
	if err := checkRows("", data.Rows); err != nil {
		return err
	}
	for component, rows := range data.AddonRows {
		if err := checkRows(component, rows); err != nil {
			return err
		}
	}
	return nil
}

func checkRows(component string, rows []pricing.CostRow) error {
	for _, r := range rows {
		if !validAmount(r.BaselineUnits) || !validAmount(r.BaseCost) || !validAmount(r.IncrementCost) || !validAmount(r.IncrementSize) {
			name := "decoration"
			if component != "" {
				name = component
			}
			return fmt.Errorf("%s cost row for tier %q at baseline %v is invalid", name, r.TierLabel, r.BaselineUnits)
		}
	}
	return nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
