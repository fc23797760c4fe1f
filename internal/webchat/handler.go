// Package webchat serves the chat widget: the JSON chat endpoint, session
// history and a WebSocket for live conversations.
package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/heritage-connect/internal/chat"
	"github.com/wolfman30/heritage-connect/internal/http/handlers"
	"github.com/wolfman30/heritage-connect/internal/intent"
	"github.com/wolfman30/heritage-connect/internal/transcript"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

const (
	historyLimit   = 100
	wsHistoryLimit = 50
)

// Handler manages web chat connections and messages.
type Handler struct {
	chat   *chat.Service
	logger *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*websocket.Conn // sessionID -> active connection
}

// InboundMessage is what the widget sends over the socket.
type InboundMessage struct {
	Type   string `json:"type"` // "message", "action", "select", "ping"
	Text   string `json:"text,omitempty"`
	Action string `json:"action,omitempty"`
	SiteID string `json:"site_id,omitempty"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string               `json:"type"` // "session", "history", "message", "pong", "error"
	SessionID string               `json:"session_id,omitempty"`
	Intent    intent.Intent        `json:"intent,omitempty"`
	Text      string               `json:"text,omitempty"`
	Messages  []transcript.Message `json:"messages,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
}

// ActionRequest is the body of POST /chat/actions. Action is a quick pill
// name, or "select" together with SiteID.
type ActionRequest struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	SiteID    string `json:"site_id"`
}

const actionSelect = "select"

// NewHandler creates a web chat handler.
func NewHandler(svc *chat.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		chat:     svc,
		logger:   logger,
		sessions: make(map[string]*websocket.Conn),
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleMessage handles POST /chat.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		handlers.JSONError(w, handlers.MsgTextRequired, http.StatusBadRequest)
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)

	res, err := h.chat.Reply(r.Context(), req.SessionID, req.Text)
	if err != nil {
		handlers.WriteError(w, h.logger, err)
		return
	}
	h.push(req.SessionID, OutboundMessage{Type: "message", Intent: res.Intent, Messages: res.Messages})
	handlers.WriteJSON(w, http.StatusOK, res)
}

// HandleAction handles POST /chat/actions for quick pills and site picks.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		handlers.JSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.action(r.Context(), strings.TrimSpace(req.SessionID), req.Action, req.SiteID)
	if err != nil {
		handlers.WriteError(w, h.logger, err)
		return
	}
	h.push(res.SessionID, OutboundMessage{Type: "message", Intent: res.Intent, Messages: res.Messages})
	handlers.WriteJSON(w, http.StatusOK, res)
}

// HandleStart handles POST /chat/sessions: it opens a session and records
// the greeting.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	sessionID := generateSessionID()
	msgs, err := h.chat.Welcome(r.Context(), sessionID)
	if err != nil {
		handlers.WriteError(w, h.logger, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, map[string]any{
		"session_id": sessionID,
		"messages":   msgs,
	})
}

// HandleHistory handles GET /chat/history?session=.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		handlers.JSONError(w, "session parameter required", http.StatusBadRequest)
		return
	}

	msgs, err := h.chat.History(r.Context(), sessionID, historyLimit)
	if err != nil {
		h.logger.Error("webchat: failed to load history", "error", err, "session_id", sessionID)
		handlers.JSONError(w, handlers.MsgServerError, http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []transcript.Message{}
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()
	// server read/write timeouts would otherwise close idle sockets
	_ = conn.SetDeadline(time.Time{})

	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})

	if msgs, err := h.chat.History(ctx, sessionID, wsHistoryLimit); err != nil {
		h.logger.Warn("webchat: history unavailable", "session_id", sessionID, "error", err)
	} else if len(msgs) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: msgs})
	} else if welcome, err := h.chat.Welcome(ctx, sessionID); err == nil && len(welcome) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "message", Messages: welcome})
	}

	h.mu.Lock()
	h.sessions[sessionID] = conn
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[sessionID] == conn {
			delete(h.sessions, sessionID)
		}
		h.mu.Unlock()
	}()

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		var (
			res chat.Result
			err error
		)
		switch msg.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		case "message":
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			res, err = h.chat.Reply(ctx, sessionID, msg.Text)
		case "action":
			res, err = h.action(ctx, sessionID, msg.Action, "")
		case "select":
			res, err = h.action(ctx, sessionID, actionSelect, msg.SiteID)
		default:
			continue
		}

		if err != nil {
			h.logger.Error("webchat: message failed", "session_id", sessionID, "error", err)
			_ = websocket.JSON.Send(conn, OutboundMessage{
				Type: "error",
				Text: "Sorry, something went wrong. Please try again.",
			})
			continue
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "message", Intent: res.Intent, Messages: res.Messages})
	}
}

func (h *Handler) action(ctx context.Context, sessionID, action, siteID string) (chat.Result, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == actionSelect {
		return h.chat.SiteCard(ctx, sessionID, siteID)
	}
	return h.chat.QuickAction(ctx, sessionID, chat.Pill(action))
}

// push forwards messages produced over HTTP to the session's open socket.
func (h *Handler) push(sessionID string, msg OutboundMessage) {
	if sessionID == "" || len(msg.Messages) == 0 {
		return
	}
	h.mu.RLock()
	conn, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := websocket.JSON.Send(conn, msg); err != nil {
		h.logger.Debug("webchat: push failed", "session_id", sessionID, "error", err)
	}
}
