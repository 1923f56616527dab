package quote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Simplici0/decoquote/internal/events"
	"github.com/Simplici0/decoquote/internal/pricing"
)

// SaveRequest is a quote to price and persist.
type SaveRequest struct {
	Title         string          `json:"title"`
	Notes         string          `json:"notes"`
	CustomerEmail string          `json:"customer_email"`
	Style         string          `json:"style"`
	Method        pricing.Method  `json:"method"`
	Request       pricing.Request `json:"request"`
}

// Service saves and reads quotes.
type Service struct {
	pricer    *Pricer
	store     *Store
	publisher events.Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewService wires a service. A nil publisher drops events.
func NewService(pricer *Pricer, store *Store, publisher events.Publisher, log logrus.FieldLogger) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Service{pricer: pricer, store: store, publisher: publisher, log: log, now: time.Now}
}

// Save prices req and stores the result with its breakdown. Nothing is stored
// when pricing fails. Event publishing is best effort.
func (s *Service) Save(ctx context.Context, req SaveRequest) (Quote, error) {
	if strings.TrimSpace(req.Style) == "" {
		return Quote{}, fmt.Errorf("%w: style is required", pricing.ErrInvalidRequest)
	}
	method, err := pricing.ParseMethod(string(req.Method))
	if err != nil {
		return Quote{}, err
	}

	b, err := s.pricer.Price(ctx, req.Style, method, req.Request)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		ID:            uuid.NewString(),
		CreatedAt:     s.now().UTC().Truncate(time.Second),
		Title:         strings.TrimSpace(req.Title),
		Notes:         strings.TrimSpace(req.Notes),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Style:         b.Style,
		Method:        method,
		Request:       req.Request,
		Breakdown:     b,
	}
	if err := s.store.Create(ctx, q); err != nil {
		return Quote{}, err
	}

	entry := s.log.WithFields(logrus.Fields{
		"quote_id": q.ID,
		"style":    q.Style,
		"method":   q.Method,
		"quantity": b.Quantity,
	})
	entry.WithField("unit_price", b.UnitPrice).Info("quote saved")

	if err := s.publisher.PublishQuoteSaved(ctx, events.QuoteSaved{
		QuoteID:    q.ID,
		Style:      q.Style,
		Method:     string(q.Method),
		Quantity:   b.Quantity,
		Tier:       b.Tier,
		UnitPrice:  b.UnitPrice,
		OrderTotal: b.OrderTotal,
	}); err != nil {
		entry.WithError(err).Warn("publish quote saved event")
	}
	return q, nil
}

// Get returns the stored quote without recomputing its price.
func (s *Service) Get(ctx context.Context, id string) (Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.store.Get(ctx, id)
}

// List returns quote summaries matching query.
func (s *Service) List(ctx context.Context, query string) ([]Summary, error) {
	return s.store.List(ctx, strings.TrimSpace(query))
}
