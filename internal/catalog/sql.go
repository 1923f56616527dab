package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/Simplici0/decoquote/internal/pricing"
)

// SQLSource reads pricing data from the local catalog tables.
type SQLSource struct {
	db *sql.DB
}

// NewSQLSource returns a source over db.
func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

// Load implements Source.
func (s *SQLSource) Load(ctx context.Context, style string, method pricing.Method) (pricing.PricingData, error) {
	style = NormalizeStyle(style)
	fail := func(err error) (pricing.PricingData, error) {
		return pricing.PricingData{}, &FetchError{Style: style, Method: method, Err: err}
	}

	profile, ok := pricing.DefaultProfile(method)
	if !ok {
		return pricing.PricingData{}, fmt.Errorf("%w: unknown method %q", pricing.ErrInvalidRequest, method)
	}
	data := pricing.PricingData{Style: style, Method: method}

	err := s.db.QueryRowContext(ctx, `SELECT blank_cost FROM styles WHERE style = ?`, style).Scan(&data.BlankCost)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.PricingData{}, fmt.Errorf("%w: %s", ErrNotFound, style)
	}
	if err != nil {
		return fail(fmt.Errorf("select blank cost: %w", err))
	}

	var override profilePayload
	err = s.db.QueryRowContext(ctx, `
		SELECT unit_name, default_baseline, ltm_threshold, ltm_fee, rounding
		FROM method_profiles
		WHERE style = ? AND method = ?
	`, style, method).Scan(&override.UnitName, &override.DefaultBaseline, &override.LTMThreshold, &override.LTMFee, &override.Rounding)
	switch {
	case err == nil:
		profile = applyProfile(profile, override)
	case errors.Is(err, sql.ErrNoRows):
	default:
		return fail(fmt.Errorf("select method profile: %w", err))
	}
	data.Profile = profile

	tiers, err := s.loadTiers(ctx, style, method)
	if err != nil {
		return fail(err)
	}
	if len(tiers) == 0 {
		return pricing.PricingData{}, fmt.Errorf("%w: %s has no %s tiers", ErrNotFound, style, method)
	}
	data.Tiers = tiers

	if err := s.loadRows(ctx, &data); err != nil {
		return fail(err)
	}
	if err := checkCosts(data); err != nil {
		return fail(err)
	}
	return data, nil
}

func (s *SQLSource) loadTiers(ctx context.Context, style string, method pricing.Method) (pricing.TierTable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT label, min_qty, max_qty, margin_denominator
		FROM pricing_tiers
		WHERE style = ? AND method = ?
		ORDER BY min_qty
	`, style, method)
	if err != nil {
		return nil, fmt.Errorf("query pricing tiers: %w", err)
	}
	defer rows.Close()

	var tiers pricing.TierTable
	for rows.Next() {
		var (
			t      pricing.Tier
			maxQty sql.NullInt64
		)
		if err := rows.Scan(&t.Label, &t.MinQty, &maxQty, &t.MarginDenominator); err != nil {
			return nil, fmt.Errorf("scan pricing tier: %w", err)
		}
		if maxQty.Valid {
			t.MaxQty = int(maxQty.Int64)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing tiers: %w", err)
	}
	return tiers, nil
}

func (s *SQLSource) loadRows(ctx context.Context, data *pricing.PricingData) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT component, tier_label, baseline_units, base_cost, increment_cost, increment_size
		FROM cost_rows
		WHERE style = ? AND method = ?
		ORDER BY component, id
	`, data.Style, data.Method)
	if err != nil {
		return fmt.Errorf("query cost rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			component string
			r         pricing.CostRow
		)
		if err := rows.Scan(&component, &r.TierLabel, &r.BaselineUnits, &r.BaseCost, &r.IncrementCost, &r.IncrementSize); err != nil {
			return fmt.Errorf("scan cost row: %w", err)
		}
		if component == "" {
			data.Rows = append(data.Rows, r)
			continue
		}
		if data.AddonRows == nil {
			data.AddonRows = make(map[string][]pricing.CostRow)
		}
		data.AddonRows[component] = append(data.AddonRows[component], r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate cost rows: %w", err)
	}
	return nil
}

// UpdateBlankCost sets the blank cost for style.
func (s *SQLSource) UpdateBlankCost(ctx context.Context, style string, cost float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return fmt.Errorf("%w: blank cost must be a non-negative number", pricing.ErrInvalidRequest)
	}
	style = NormalizeStyle(style)

	res, err := s.db.ExecContext(ctx, `
		UPDATE styles
		SET blank_cost = ?, updated_at = CURRENT_TIMESTAMP
		WHERE style = ?
	`, cost, style)
	if err != nil {
		return fmt.Errorf("update blank cost: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update blank cost rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, style)
	}
	return nil
}
