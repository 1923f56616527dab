package quote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/decoquote/internal/pricing"
)

// ErrNotFound is returned when a quote ID does not exist.
var ErrNotFound = errors.New("quote: not found")

const timeLayout = "2006-01-02 15:04:05"

// Quote is a saved quote. Breakdown is the snapshot taken at save time and is
// never recomputed.
type Quote struct {
	ID            string            `json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	Title         string            `json:"title"`
	Notes         string            `json:"notes,omitempty"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Style         string            `json:"style"`
	Method        pricing.Method    `json:"method"`
	Request       pricing.Request   `json:"request"`
	Breakdown     pricing.Breakdown `json:"breakdown"`
}

// Summary is one row of the quote list.
type Summary struct {
	ID         string         `json:"id"`
	CreatedAt  string         `json:"created_at"`
	Title      string         `json:"title"`
	Style      string         `json:"style"`
	Method     pricing.Method `json:"method"`
	Quantity   int            `json:"quantity"`
	UnitPrice  float64        `json:"unit_price"`
	OrderTotal float64        `json:"order_total"`
}

// Store persists quotes in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore returns a store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts q.
func (s *Store) Create(ctx context.Context, q Quote) error {
	requestJSON, err := json.Marshal(q.Request)
	if err != nil {
		return fmt.Errorf("marshal quote request: %w", err)
	}
	breakdownJSON, err := json.Marshal(q.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal quote breakdown: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (
			id, created_at, title, notes, customer_email, style, method,
			quantity, unit_price, order_total, request_json, breakdown_json
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		q.ID, q.CreatedAt.UTC().Format(timeLayout), q.Title, q.Notes, q.CustomerEmail, q.Style, string(q.Method),
		q.Breakdown.Quantity, q.Breakdown.UnitPrice, q.Breakdown.OrderTotal, string(requestJSON), string(breakdownJSON),
	); err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// Get reads a quote and its stored snapshot.
func (s *Store) Get(ctx context.Context, id string) (Quote, error) {
	var (
		q                          Quote
		createdAt                  string
		requestJSON, breakdownJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, title, notes, customer_email, style, method, request_json, breakdown_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &createdAt, &q.Title, &q.Notes, &q.CustomerEmail, &q.Style, &q.Method, &requestJSON, &breakdownJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("select quote: %w", err)
	}

	q.CreatedAt = parseTime(createdAt)
	if err := json.Unmarshal([]byte(requestJSON), &q.Request); err != nil {
		return Quote{}, fmt.Errorf("decode quote request: %w", err)
	}
	if err := json.Unmarshal([]byte(breakdownJSON), &q.Breakdown); err != nil {
		return Quote{}, fmt.Errorf("decode quote breakdown: %w", err)
	}
	return q, nil
}

// List returns quotes newest first, filtered by title, notes or style when
// query is not empty.
func (s *Store) List(ctx context.Context, query string) ([]Summary, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id,
			created_at,
			COALESCE(title, ''),
			style,
			method,
			quantity,
			unit_price,
			order_total
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ? OR style LIKE ?)
		ORDER BY datetime(created_at) DESC, rowid DESC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]Summary, 0)
	for rows.Next() {
		var item Summary
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &item.Style, &item.Method, &item.Quantity, &item.UnitPrice, &item.OrderTotal); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
