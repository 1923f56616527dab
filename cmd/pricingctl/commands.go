package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/consistency"
	"github.com/Simplici0/decoquote/internal/db"
	"github.com/Simplici0/decoquote/internal/logger"
	"github.com/Simplici0/decoquote/internal/migrations"
	"github.com/Simplici0/decoquote/internal/pricetable"
	"github.com/Simplici0/decoquote/internal/pricing"
	"github.com/Simplici0/decoquote/internal/quote"
	"github.com/Simplici0/decoquote/internal/seed"
)

type rootOptions struct {
	dbPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "pricingctl",
		Short:        "Inspect and verify decoration pricing",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite catalog to read (default: built-in fixtures)")

	cmd.AddCommand(newTableCmd(opts), newVerifyCmd(opts))
	return cmd
}

// env is the wiring shared by the subcommands.
type env struct {
	db     *sql.DB
	source catalog.Source
}

func openEnv(opts *rootOptions) (*env, error) {
	path := opts.dbPath
	if path == "" {
		path = ":memory:"
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(database); err != nil {
		database.Close()
		return nil, err
	}

	e := &env{db: database}
	if opts.dbPath == "" {
		if _, err := seed.Run(database, seed.Config{}); err != nil {
			database.Close()
			return nil, err
		}
	}
	e.source = catalog.NewSQLSource(database)
	return e, nil
}

func (e *env) Close() error { return e.db.Close() }

func newTableCmd(opts *rootOptions) *cobra.Command {
	var (
		style, method, quantities string
		asJSON                    bool
	)

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the pricing table for a style and method",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := pricing.ParseMethod(method)
			if err != nil {
				return err
			}
			qtys, err := parseQuantities(quantities)
			if err != nil {
				return err
			}

			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			data, err := catalog.NewViewCache(e.source).Get(cmd.Context(), style, m)
			if err != nil {
				return err
			}
			table, err := pricetable.Generate(data, qtys)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			}
			return pricetable.Render(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().StringVar(&style, "style", catalog.StyleCap, "style number")
	cmd.Flags().StringVar(&method, "method", string(pricing.CapEmbroidery), "decoration method")
	cmd.Flags().StringVar(&quantities, "quantities", "", "comma-separated quantities (default: first quantity of each tier)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a text table")
	return cmd
}

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	var quantities string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check golden cap prices and cross-call-site agreement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			qtys, err := parseQuantities(quantities)
			if err != nil {
				return err
			}

			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			return runVerify(cmd.Context(), cmd.OutOrStdout(), e, qtys)
		},
	}
	cmd.Flags().StringVar(&quantities, "quantities", "", "comma-separated quantities (default: 1,23,24,47,48,71,72,144)")
	return cmd
}

// openScratch returns an empty in-memory database for the quotes the snapshot
// site saves, so verify never writes to the --db store.
func openScratch() (*sql.DB, error) {
	scratch, err := db.Open(":memory:")
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(scratch); err != nil {
		scratch.Close()
		return nil, err
	}
	return scratch, nil
}

func runVerify(ctx context.Context, out io.Writer, e *env, quantities []int) error {
	scratch, err := openScratch()
	if err != nil {
		return fmt.Errorf("open scratch quote store: %w", err)
	}
	defer scratch.Close()

	views := catalog.NewViewCache(e.source)
	pricer := quote.NewPricer(views)
	svc := quote.NewService(pricer, quote.NewStore(scratch), nil, logger.Discard())
	sites := consistency.Standard(pricer, svc, views)

	failed := false
	for _, site := range sites {
		for _, f := range consistency.RunGoldenCases(ctx, site, consistency.CapGoldenCases) {
			failed = true
			fmt.Fprintf(out, "GOLDEN FAIL %s\n", f)
		}
	}

	for _, fx := range catalog.Fixtures() {
		report, err := consistency.Verify(ctx, sites, fx.Style, fx.Method, quantities)
		if err != nil {
			return err
		}
		if report.OK() {
			fmt.Fprintf(out, "ok   %s %s (%d sites x %d quantities)\n", report.Style, report.Method, len(report.Sites), len(report.Quantities))
			continue
		}
		failed = true
		for _, m := range report.Mismatches {
			fmt.Fprintf(out, "FAIL %s %s %s\n", report.Style, report.Method, m)
		}
	}

	if failed {
		return errors.New("pricing call sites disagree")
	}
	return nil
}

func parseQuantities(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid quantity %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}
