package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/pricing"
	"github.com/Simplici0/decoquote/internal/quote"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: http.StatusText(status), Message: message})
}

// writeServiceError maps domain errors to HTTP statuses. Pricing pipeline
// failures are 422 so clients block submission instead of retrying.
func writeServiceError(w http.ResponseWriter, log logrus.FieldLogger, err error, internalMessage string) {
	switch {
	case errors.Is(err, quote.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pricing.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrUpstreamFetch):
		log.WithError(err).Warn("pricing unavailable")
		writeError(w, http.StatusServiceUnavailable, "pricing unavailable, try again shortly")
	case errors.Is(err, pricing.ErrConfiguration),
		errors.Is(err, pricing.ErrInvalidMargin),
		errors.Is(err, pricing.ErrMissingTierData):
		log.WithError(err).Error("pricing data error")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.WithError(err).Error(internalMessage)
		writeError(w, http.StatusInternalServerError, internalMessage)
	}
}

func decodeJSON(r *http.Request, dest any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", pricing.ErrInvalidRequest, err)
	}
	return nil
}
