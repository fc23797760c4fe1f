package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/heritage-connect/internal/chat"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

// SitesHandler serves the catalog and external site search.
type SitesHandler struct {
	chat   *chat.Service
	logger *logging.Logger
}

func NewSitesHandler(svc *chat.Service, logger *logging.Logger) *SitesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SitesHandler{chat: svc, logger: logger}
}

// List handles GET /sites.
func (h *SitesHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"sites":   h.chat.Catalog().Sites(),
		"weekend": h.chat.IsWeekend(),
	})
}

// Get handles GET /sites/{id}.
func (h *SitesHandler) Get(w http.ResponseWriter, r *http.Request) {
	site, err := h.chat.Catalog().Get(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, site)
}

// Search handles GET /sites/search?q=&session=. Lookup failures come back as
// advisory messages with status 200.
func (h *SitesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		JSONError(w, "Query is required", http.StatusBadRequest)
		return
	}
	res, err := h.chat.Search(r.Context(), r.URL.Query().Get("session"), query)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
