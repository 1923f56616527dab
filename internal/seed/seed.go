package seed

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/pricing"
)

// Config contains the values required by startup seed.
type Config struct {
	// Data is seeded in order. Nil means catalog.Fixtures().
	Data []pricing.PricingData
	// ResetBlankCosts overwrites blank costs that were changed since seeding.
	ResetBlankCosts bool
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	data := cfg.Data
	if data == nil {
		data = catalog.Fixtures()
	}

	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, d := range data {
		if err := seedPricingData(tx, d, cfg.ResetBlankCosts, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, fmt.Errorf("seed %s/%s: %w", d.Style, d.Method, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedPricingData(tx *sql.Tx, d pricing.PricingData, resetBlank bool, stats *Stats) error {
	style := catalog.NormalizeStyle(d.Style)

	if err := ensureStyle(tx, style, d.BlankCost, resetBlank, stats); err != nil {
		return err
	}
	if err := ensureProfile(tx, style, d.Method, d.Profile, stats); err != nil {
		return err
	}
	for _, tier := range d.Tiers {
		if err := ensureTier(tx, style, d.Method, tier, stats); err != nil {
			return err
		}
	}
	for _, row := range d.Rows {
		if err := ensureCostRow(tx, style, d.Method, "", row, stats); err != nil {
			return err
		}
	}

	components := make([]string, 0, len(d.AddonRows))
	for c := range d.AddonRows {
		components = append(components, c)
	}
	sort.Strings(components)
	for _, c := range components {
		for _, row := range d.AddonRows[c] {
			if err := ensureCostRow(tx, style, d.Method, c, row, stats); err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureStyle(tx *sql.Tx, style string, blankCost float64, reset bool, stats *Stats) error {
	var current float64
	err := tx.QueryRow(`SELECT blank_cost FROM styles WHERE style = ?`, style).Scan(&current)
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.Exec(`INSERT INTO styles (style, blank_cost) VALUES (?, ?)`, style, blankCost); err != nil {
			return fmt.Errorf("insert style: %w", err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check style existence: %w", err)
	}

	if !reset || current == blankCost {
		return nil
	}
	if _, err := tx.Exec(`UPDATE styles SET blank_cost = ?, updated_at = CURRENT_TIMESTAMP WHERE style = ?`, blankCost, style); err != nil {
		return fmt.Errorf("reset blank cost: %w", err)
	}
	stats.Updates++
	return nil
}

func ensureProfile(tx *sql.Tx, style string, method pricing.Method, p pricing.Profile, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM method_profiles WHERE style = ? AND method = ?)`, style, method).Scan(&exists); err != nil {
		return fmt.Errorf("check method profile existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO method_profiles (style, method, unit_name, default_baseline, ltm_threshold, ltm_fee, rounding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, style, method, p.UnitName, p.DefaultBaseline, p.LTM.ThresholdQty, p.LTM.FlatFee, string(p.Rounding)); err != nil {
		return fmt.Errorf("insert method profile: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureTier(tx *sql.Tx, style string, method pricing.Method, tier pricing.Tier, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1
			FROM pricing_tiers
			WHERE style = ? AND method = ? AND label = ?
		)
	`, style, method, tier.Label).Scan(&exists); err != nil {
		return fmt.Errorf("check tier existence: %w", err)
	}
	if exists {
		return nil
	}

	var maxQty sql.NullInt64
	if !tier.Unbounded() {
		maxQty = sql.NullInt64{Int64: int64(tier.MaxQty), Valid: true}
	}
	if _, err := tx.Exec(`
		INSERT INTO pricing_tiers (style, method, label, min_qty, max_qty, margin_denominator)
		VALUES (?, ?, ?, ?, ?, ?)
	`, style, method, tier.Label, tier.MinQty, maxQty, tier.MarginDenominator); err != nil {
		return fmt.Errorf("insert tier %s: %w", tier.Label, err)
	}
	stats.Inserts++
	return nil
}

func ensureCostRow(tx *sql.Tx, style string, method pricing.Method, component string, row pricing.CostRow, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1
			FROM cost_rows
			WHERE style = ? AND method = ? AND component = ? AND tier_label = ? AND baseline_units = ?
		)
	`, style, method, component, row.TierLabel, row.BaselineUnits).Scan(&exists); err != nil {
		return fmt.Errorf("check cost row existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO cost_rows (style, method, component, tier_label, baseline_units, base_cost, increment_cost, increment_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, style, method, component, row.TierLabel, row.BaselineUnits, row.BaseCost, row.IncrementCost, row.IncrementSize); err != nil {
		return fmt.Errorf("insert cost row %s/%g: %w", row.TierLabel, row.BaselineUnits, err)
	}
	stats.Inserts++
	return nil
}
