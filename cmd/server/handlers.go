package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Simplici0/decoquote/internal/cache"
	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/db"
	"github.com/Simplici0/decoquote/internal/pricetable"
	"github.com/Simplici0/decoquote/internal/pricing"
	"github.com/Simplici0/decoquote/internal/quote"
)

type quickQuoteRequest struct {
	Style    string `json:"style"`
	Method   string `json:"method"`
	Quantity int    `json:"quantity"`
}

type priceRequest struct {
	Style  string `json:"style"`
	Method string `json:"method"`
	pricing.Request
}

type blankCostRequest struct {
	BlankCost *float64 `json:"blank_cost"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"database": "ok"}
	code := http.StatusOK
	if err := db.Health(ctx, s.db); err != nil {
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if s.redis != nil {
		status["redis"] = "ok"
		if err := s.redis.Health(ctx); err != nil {
			status["redis"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, status)
}

func (s *server) handleQuickQuote(w http.ResponseWriter, r *http.Request) {
	var req quickQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, s.log, err, "")
		return
	}
	method, err := pricing.ParseMethod(req.Method)
	if err != nil {
		writeServiceError(w, s.log, err, "")
		return
	}

	b, err := s.pricer.QuickQuote(r.Context(), req.Style, method, req.Quantity)
	if err != nil {
		writeServiceError(w, s.log, err, "failed to price quick quote")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, s.log, err, "")
		return
	}
	method, err := pricing.ParseMethod(req.Method)
	if err != nil {
		writeServiceError(w, s.log, err, "")
		return
	}

	b, err := s.pricer.Price(r.Context(), req.Style, method, req.Request)
	if err != nil {
		writeServiceError(w, s.log, err, "failed to price request")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *server) handlePricingTable(w http.ResponseWriter, r *http.Request) {
	style := catalog.NormalizeStyle(r.URL.Query().Get("style"))
	method, err := pricing.ParseMethod(r.URL.Query().Get("method"))
	if err != nil {
		writeServiceError(w, s.log, err, "")
		return
	}

	data, err := s.views.Get(r.Context(), style, method)
	if err != nil {
		writeServiceError(w, s.log, err, "failed to load pricing data")
		return
	}
	table, err := pricetable.Generate(data, nil)
	if err != nil {
		writeServiceError(w, s.log, err, "failed to build pricing table")
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := pricetable.Render(w, table); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"style": table.Style, "method": table.Method}).Warn("write pricing table")
		}
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.quotes.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, s.log, err, "failed to load quotes")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var req quote.SaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, s.log, err, "")
		return
	}

	saved, err := s.quotes.Save(r.Context(), req)
	if err != nil {
		writeServiceError(w, s.log, err, "failed to save quote")
		return
	}
	w.Header().Set("Location", "/api/quotes/"+saved.ID)
	writeJSON(w, http.StatusCreated, saved)
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, s.log, err, "failed to load quote")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, s.log, err, "failed to load quote")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(quote.FormatText(q)))
}

func (s *server) handleBlankCostUpdate(w http.ResponseWriter, r *http.Request) {
	if s.blankCosts == nil {
		writeError(w, http.StatusNotImplemented, "blank costs are managed by the upstream catalog")
		return
	}

	var req blankCostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, s.log, err, "")
		return
	}
	if req.BlankCost == nil {
		writeError(w, http.StatusBadRequest, "blank_cost is required")
		return
	}

	style := catalog.NormalizeStyle(chi.URLParam(r, "style"))
	if strings.TrimSpace(style) == "" {
		writeError(w, http.StatusBadRequest, "style is required")
		return
	}
	if err := s.blankCosts.UpdateBlankCost(r.Context(), style, *req.BlankCost); err != nil {
		writeServiceError(w, s.log, err, "failed to update blank cost")
		return
	}

	s.views.InvalidateStyle(style)
	if s.redis != nil {
		if err := s.redis.DeleteByPrefix(r.Context(), cache.Key(cache.KeyPrefixCatalog, style)+":"); err != nil {
			s.log.WithError(err).WithField("style", style).Warn("purge cached catalog entries")
		}
	}
	s.log.WithField("style", style).WithField("blank_cost", *req.BlankCost).Info("blank cost updated")
	w.WriteHeader(http.StatusNoContent)
}
