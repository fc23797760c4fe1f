// Package transcript keeps the append-only chat log of a widget session.
package transcript

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/heritage-connect/internal/catalog"
	"github.com/wolfman30/heritage-connect/internal/pricing"
)

// ErrSessionRequired is returned when no session id is given.
var ErrSessionRequired = errors.New("transcript: session id required")

// Sender is who wrote a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Kind selects how the widget renders a message.
type Kind string

const (
	KindText           Kind = "text"
	KindSiteCard       Kind = "site-card"
	KindSiteOptions    Kind = "site-options"
	KindBookingSummary Kind = "booking-summary"
)

// Message is one entry of the session log. Payload fields are set according
// to Kind.
type Message struct {
	ID        string         `json:"id"`
	Sender    Sender         `json:"from"`
	Kind      Kind           `json:"type"`
	Text      string         `json:"text,omitempty"`
	Site      *catalog.Site  `json:"site,omitempty"`
	Sites     []catalog.Site `json:"sites,omitempty"`
	Quote     *pricing.Quote `json:"quote,omitempty"`
	BookingID string         `json:"booking_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Store appends to and reads session logs. There is no update or delete.
type Store interface {
	Append(ctx context.Context, sessionID string, msg Message) (Message, error)
	List(ctx context.Context, sessionID string, limit int64) ([]Message, error)
}

// Text builds a plain text message.
func Text(from Sender, text string) Message {
	return Message{Sender: from, Kind: KindText, Text: text}
}

// SiteCard builds an assistant site-detail card.
func SiteCard(site catalog.Site) Message {
	return Message{Sender: SenderAssistant, Kind: KindSiteCard, Site: &site}
}

// SiteOptions builds an assistant quick-pick list.
func SiteOptions(sites []catalog.Site) Message {
	return Message{Sender: SenderAssistant, Kind: KindSiteOptions, Sites: sites}
}

// BookingSummary builds an assistant summary card for a quote.
func BookingSummary(site catalog.Site, quote pricing.Quote) Message {
	return Message{Sender: SenderAssistant, Kind: KindBookingSummary, Site: &site, Quote: &quote}
}

// tail returns at most the last limit messages; limit <= 0 returns all.
func tail(msgs []Message, limit int64) []Message {
	if limit > 0 && int64(len(msgs)) > limit {
		msgs = msgs[int64(len(msgs))-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
