package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/db"
	"github.com/Simplici0/decoquote/internal/migrations"
	"github.com/Simplici0/decoquote/internal/pricing"
	"github.com/Simplici0/decoquote/internal/seed"
)

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, migrations.Up(database))
	_, err = seed.Run(database, seed.Config{})
	require.NoError(t, err)
	return database
}

func TestSQLSource_LoadMatchesFixtures(t *testing.T) {
	src := catalog.NewSQLSource(seededDB(t))

	for _, want := range catalog.Fixtures() {
		got, err := src.Load(context.Background(), want.Style, want.Method)
		require.NoError(t, err, "%s/%s", want.Style, want.Method)
		require.Equal(t, want.BlankCost, got.BlankCost)
		require.Equal(t, want.Tiers, got.Tiers)
		require.ElementsMatch(t, want.Rows, got.Rows)
		require.Equal(t, want.Profile, got.Profile)
		require.Equal(t, len(want.AddonRows), len(got.AddonRows))
		for id, rows := range want.AddonRows {
			require.ElementsMatch(t, rows, got.AddonRows[id])
		}
	}
}

func TestSQLSource_PricesLikeFixture(t *testing.T) {
	src := catalog.NewSQLSource(seededDB(t))

	data, err := src.Load(context.Background(), "c112", pricing.CapEmbroidery)
	require.NoError(t, err)

	fromDB, err := pricing.Compute(data, pricing.Request{Quantity: 30})
	require.NoError(t, err)
	fromFixture, err := pricing.Compute(catalog.CapFixture(), pricing.Request{Quantity: 30})
	require.NoError(t, err)
	require.Equal(t, fromFixture, fromDB)
}

func TestSQLSource_NotFound(t *testing.T) {
	src := catalog.NewSQLSource(seededDB(t))

	_, err := src.Load(context.Background(), "NOPE", pricing.CapEmbroidery)
	require.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = src.Load(context.Background(), catalog.StyleCap, pricing.DTF)
	require.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = src.Load(context.Background(), catalog.StyleCap, pricing.Method("foil"))
	require.ErrorIs(t, err, pricing.ErrInvalidRequest)
}

func TestSQLSource_UpdateBlankCost(t *testing.T) {
	database := seededDB(t)
	src := catalog.NewSQLSource(database)
	ctx := context.Background()

	require.NoError(t, src.UpdateBlankCost(ctx, "c112", 6.5))
	data, err := src.Load(ctx, catalog.StyleCap, pricing.CapEmbroidery)
	require.NoError(t, err)
	require.Equal(t, 6.5, data.BlankCost)

	require.ErrorIs(t, src.UpdateBlankCost(ctx, "NOPE", 1), catalog.ErrNotFound)
	require.ErrorIs(t, src.UpdateBlankCost(ctx, catalog.StyleCap, -1), pricing.ErrInvalidRequest)
}

func TestSQLSource_NegativeCostRowIsFetchError(t *testing.T) {
	database := seededDB(t)
	_, err := database.Exec(`UPDATE cost_rows SET base_cost = -1 WHERE style = ? AND method = ? AND component = ''`,
		catalog.StyleCap, pricing.CapEmbroidery)
	require.NoError(t, err)

	_, err = catalog.NewSQLSource(database).Load(context.Background(), catalog.StyleCap, pricing.CapEmbroidery)
	require.ErrorIs(t, err, catalog.ErrUpstreamFetch)
	require.NotErrorIs(t, err, catalog.ErrNotFound)
}

func TestSQLSource_QueryFailureIsFetchError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`SELECT blank_cost FROM styles`).WillReturnError(errors.New("database is locked"))

	_, err = catalog.NewSQLSource(conn).Load(context.Background(), catalog.StyleCap, pricing.CapEmbroidery)
	require.ErrorIs(t, err, catalog.ErrUpstreamFetch)

	var fe *catalog.FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, catalog.StyleCap, fe.Style)
	require.Equal(t, pricing.CapEmbroidery, fe.Method)
	require.NoError(t, mock.ExpectationsWereMet())
}
