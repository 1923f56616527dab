package quote

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/db"
	"github.com/Simplici0/decoquote/internal/migrations"
	"github.com/Simplici0/decoquote/internal/pricing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func fixturePricer() (*Pricer, *catalog.ViewCache) {
	vc := catalog.NewViewCache(catalog.NewStaticSource(catalog.Fixtures()...))
	return NewPricer(vc), vc
}

type downSource struct{}

func (downSource) Load(_ context.Context, style string, method pricing.Method) (pricing.PricingData, error) {
	return pricing.PricingData{}, &catalog.FetchError{Style: style, Method: method, Err: errors.New("upstream timeout")}
}
