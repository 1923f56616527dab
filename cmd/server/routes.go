package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Simplici0/decoquote/internal/cache"
	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/quote"
)

// blankCostUpdater is implemented by catalogs that can be edited locally.
type blankCostUpdater interface {
	UpdateBlankCost(ctx context.Context, style string, cost float64) error
}

type server struct {
	db         *sql.DB
	log        logrus.FieldLogger
	redis      *cache.Client
	views      *catalog.ViewCache
	blankCosts blankCostUpdater
	pricer     *quote.Pricer
	quotes     *quote.Service
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/quick-quote", s.handleQuickQuote)
		r.Post("/price", s.handlePrice)
		r.Get("/pricing-table", s.handlePricingTable)

		r.Get("/quotes", s.handleQuotesList)
		r.Post("/quotes", s.handleQuoteCreate)
		r.Get("/quotes/{id}", s.handleQuoteDetail)
		r.Get("/quotes/{id}/text", s.handleQuoteText)

		r.Put("/admin/styles/{style}/blank-cost", s.handleBlankCostUpdate)
	})

	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}
