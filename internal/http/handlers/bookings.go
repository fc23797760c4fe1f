package handlers

import (
	"net/http"

	"github.com/wolfman30/heritage-connect/internal/chat"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

// BookingRequest is the body of POST /quotes and POST /bookings.
type BookingRequest struct {
	chat.Selection
	SessionID string `json:"session_id"`
}

// BookingsHandler prices and confirms ticket selections.
type BookingsHandler struct {
	chat   *chat.Service
	logger *logging.Logger
}

func NewBookingsHandler(svc *chat.Service, logger *logging.Logger) *BookingsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingsHandler{chat: svc, logger: logger}
}

// Quote handles POST /quotes.
func (h *BookingsHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		JSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.chat.Quote(r.Context(), req.SessionID, req.Selection)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Confirm handles POST /bookings.
func (h *BookingsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		JSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.chat.Confirm(r.Context(), req.SessionID, req.Selection)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, res)
}
