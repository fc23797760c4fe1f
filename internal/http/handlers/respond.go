// Package handlers exposes the site catalog, quotes and bookings over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/heritage-connect/internal/catalog"
	"github.com/wolfman30/heritage-connect/internal/chat"
	"github.com/wolfman30/heritage-connect/internal/intent"
	"github.com/wolfman30/heritage-connect/internal/pricing"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

const (
	MsgTextRequired = "Text is required"
	MsgServerError  = "Server error"
	maxBodyBytes    = 64 << 10
)

// WriteJSON encodes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// JSONError writes {"error": msg}.
func JSONError(w http.ResponseWriter, msg string, status int) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// WriteError maps domain errors to client errors. Anything unrecognised is
// logged and reported as a generic server error.
func WriteError(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, intent.ErrInvalidInput):
		JSONError(w, MsgTextRequired, http.StatusBadRequest)
	case errors.Is(err, pricing.ErrInvalidQuantity):
		JSONError(w, "Tickets must be at least 1", http.StatusBadRequest)
	case errors.Is(err, pricing.ErrInvalidVisitorType):
		JSONError(w, "Visitor type must be domestic or foreign", http.StatusBadRequest)
	case errors.Is(err, chat.ErrUnknownPill):
		JSONError(w, "Unknown quick action", http.StatusBadRequest)
	case errors.Is(err, catalog.ErrSiteNotFound):
		JSONError(w, "Site not found", http.StatusNotFound)
	default:
		if logger == nil {
			logger = logging.Default()
		}
		logger.Error("request failed", "error", err)
		JSONError(w, MsgServerError, http.StatusInternalServerError)
	}
}

// DecodeJSON reads a bounded JSON body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
