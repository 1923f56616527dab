package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/decoquote/internal/db"
	"github.com/Simplici0/decoquote/internal/migrations"
	"github.com/Simplici0/decoquote/internal/seed"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTableCommand(t *testing.T) {
	out, err := run(t, "table", "--style", "c112", "--method", "cap-embroidery")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "C112 cap-embroidery\n"), out)
	require.Contains(t, out, "78.00")
	require.Contains(t, out, "1440.00")
}

func TestTableCommandJSON(t *testing.T) {
	out, err := run(t, "table", "--style", "C112", "--method", "cap-embroidery", "--quantities", "30", "--json")
	require.NoError(t, err)
	require.Contains(t, out, `"unit_price": 24`)
	require.Contains(t, out, `"order_total": 720`)
}

func TestTableCommandErrors(t *testing.T) {
	_, err := run(t, "table", "--method", "foil")
	require.Error(t, err)

	_, err = run(t, "table", "--quantities", "1,zero")
	require.Error(t, err)

	_, err = run(t, "table", "--style", "NOPE")
	require.Error(t, err)
}

func TestVerifyCommand(t *testing.T) {
	out, err := run(t, "verify")
	require.NoError(t, err, out)
	require.NotContains(t, out, "FAIL")
	require.Contains(t, out, "ok   C112 cap-embroidery (4 sites x 8 quantities)")
}

func TestVerifyCommandLeavesQuoteStoreUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	database, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(database))
	_, err = seed.Run(database, seed.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Close())

	out, err := run(t, "verify", "--db", path)
	require.NoError(t, err, out)
	require.Contains(t, out, "ok   C112 cap-embroidery")

	database, err = db.Open(path)
	require.NoError(t, err)
	defer database.Close()

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM quotes`).Scan(&count))
	require.Zero(t, count)
}

func TestParseQuantities(t *testing.T) {
	got, err := parseQuantities(" 1, 24 ,72")
	require.NoError(t, err)
	require.Equal(t, []int{1, 24, 72}, got)

	got, err = parseQuantities("")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = parseQuantities("0")
	require.Error(t, err)
}
