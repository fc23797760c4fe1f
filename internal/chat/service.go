// Package chat drives the booking assistant conversation: it classifies
// free text, prices selections, confirms bookings and records everything in
// the session transcript.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/heritage-connect/internal/booking"
	"github.com/wolfman30/heritage-connect/internal/catalog"
	"github.com/wolfman30/heritage-connect/internal/intent"
	"github.com/wolfman30/heritage-connect/internal/observability/metrics"
	"github.com/wolfman30/heritage-connect/internal/pricing"
	"github.com/wolfman30/heritage-connect/internal/transcript"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

// ErrUnknownPill is returned for a quick action the widget does not have.
var ErrUnknownPill = errors.New("chat: unknown quick action")

// historyScanLimit bounds how far back a session is searched for an
// externally fetched site.
const historyScanLimit = 200

// SiteFinder looks up a site that is not in the local catalog. A nil site
// with a nil error means nothing matched.
type SiteFinder interface {
	FindSite(ctx context.Context, query string) (*catalog.Site, error)
}

// Selection is what the visitor picked in the booking card.
type Selection struct {
	SiteID      string `json:"site_id"`
	VisitorType string `json:"visitor_type"`
	Tickets     int    `json:"tickets"`
}

// Result is the outcome of a chat operation. Messages holds what was
// appended to the transcript, in order.
type Result struct {
	intent.Reply
	SessionID string               `json:"session_id,omitempty"`
	Messages  []transcript.Message `json:"messages,omitempty"`
}

// QuoteResult pairs a priced selection with the site it was priced for.
type QuoteResult struct {
	Site      catalog.Site         `json:"site"`
	Quote     pricing.Quote        `json:"quote"`
	SessionID string               `json:"session_id,omitempty"`
	Messages  []transcript.Message `json:"messages,omitempty"`
}

// BookingResult is a confirmed booking plus the confirmation message.
type BookingResult struct {
	booking.Booking
	SessionID string               `json:"session_id,omitempty"`
	Messages  []transcript.Message `json:"messages,omitempty"`
}

// Service is safe for concurrent use; the catalog is never mutated.
type Service struct {
	catalog    *catalog.Catalog
	classifier *intent.Classifier
	clock      pricing.Clock
	store      transcript.Store
	finder     SiteFinder
	metrics    *metrics.ChatMetrics
	logger     *logging.Logger
	money      rupees
}

// Option configures a Service.
type Option func(*Service)

// WithTranscript sets where session messages are recorded.
func WithTranscript(store transcript.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithSiteFinder enables external site search.
func WithSiteFinder(finder SiteFinder) Option {
	return func(s *Service) { s.finder = finder }
}

// WithClock pins the clock used for the weekend check.
func WithClock(clock pricing.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func WithMetrics(m *metrics.ChatMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(logger *logging.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClassifier replaces the default classifier built over the catalog.
func WithClassifier(c *intent.Classifier) Option {
	return func(s *Service) { s.classifier = c }
}

// NewService builds a chat service over cat. Without WithTranscript the
// service keeps an in-memory transcript with no expiry.
func NewService(cat *catalog.Catalog, opts ...Option) *Service {
	if cat == nil {
		cat = catalog.Default()
	}
	s := &Service{
		catalog: cat,
		clock:   pricing.NewClock(nil),
		money:   newRupees(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.classifier == nil {
		s.classifier = intent.NewClassifier(cat)
	}
	if s.store == nil {
		s.store = transcript.NewMemoryStore(0)
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	return s
}

// Catalog returns the startup catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// IsWeekend reports the weekend flag the service prices with right now.
func (s *Service) IsWeekend() bool { return s.clock.IsWeekend() }

// Reply classifies text and records the exchange when sessionID is set.
func (s *Service) Reply(ctx context.Context, sessionID, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, intent.ErrInvalidInput
	}

	weekend := s.clock.IsWeekend()
	reply, err := s.classifier.Classify(text, weekend)
	if err != nil {
		return Result{}, err
	}
	s.metrics.ObserveIntent(string(reply.Intent), weekend)

	out := []transcript.Message{
		transcript.Text(transcript.SenderUser, text),
		transcript.Text(transcript.SenderAssistant, reply.Text),
	}
	switch reply.Intent {
	case intent.IntentComboSite, intent.IntentSiteDetail:
		if site, err := s.catalog.Get(reply.SiteID); err == nil {
			out = append(out, transcript.SiteCard(site))
		}
	case intent.IntentBooking:
		if reply.SiteID != "" {
			if site, err := s.catalog.Get(reply.SiteID); err == nil {
				out = append(out, transcript.SiteCard(site))
			}
		}
		out = append(out, transcript.SiteOptions(s.catalog.Sites()))
	case intent.IntentFallback:
		if s.finder != nil && !mentionsTopic(text) {
			found := s.discover(ctx, text)
			out = append(out, found.msg)
			if found.site != nil {
				reply.SiteID, reply.SiteName = found.site.ID, found.site.Name
			}
		}
	}

	recorded, err := s.record(ctx, sessionID, out...)
	if err != nil {
		return Result{}, err
	}
	return Result{Reply: reply, SessionID: sessionID, Messages: recorded}, nil
}

// Welcome records the greeting if the session has no messages yet.
func (s *Service) Welcome(ctx context.Context, sessionID string) ([]transcript.Message, error) {
	if sessionID == "" {
		return []transcript.Message{transcript.Text(transcript.SenderAssistant, WelcomeText)}, nil
	}
	existing, err := s.store.List(ctx, sessionID, 1)
	if err != nil {
		return nil, fmt.Errorf("chat: load session: %w", err)
	}
	if len(existing) > 0 {
		return nil, nil
	}
	return s.record(ctx, sessionID, transcript.Text(transcript.SenderAssistant, WelcomeText))
}

// History returns the last limit messages of a session.
func (s *Service) History(ctx context.Context, sessionID string, limit int64) ([]transcript.Message, error) {
	msgs, err := s.store.List(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("chat: history: %w", err)
	}
	return msgs, nil
}

// QuickAction handles a quick pill or the Book Tickets button.
func (s *Service) QuickAction(ctx context.Context, sessionID string, pill Pill) (Result, error) {
	var out []transcript.Message
	switch pill {
	case PillBook:
		out = append(out,
			transcript.Text(transcript.SenderUser, BookTicketsText),
			transcript.SiteOptions(s.catalog.Sites()),
		)
	case PillPopular:
		out = append(out, transcript.SiteOptions(s.catalog.Sites()))
	case PillTimings:
		out = append(out, transcript.Text(transcript.SenderAssistant, pillTimingsText))
	case PillOffers:
		out = append(out, transcript.Text(transcript.SenderAssistant, pillOffersText))
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownPill, pill)
	}

	recorded, err := s.record(ctx, sessionID, out...)
	if err != nil {
		return Result{}, err
	}
	return Result{SessionID: sessionID, Messages: recorded}, nil
}

// SiteCard records the visitor picking a site from the options list.
func (s *Service) SiteCard(ctx context.Context, sessionID, siteID string) (Result, error) {
	site, err := s.resolveSite(ctx, sessionID, siteID)
	if err != nil {
		return Result{}, err
	}
	recorded, err := s.record(ctx, sessionID,
		transcript.Text(transcript.SenderUser, fmt.Sprintf(showDetailsTemplate, site.Name)),
		transcript.SiteCard(site),
	)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Reply:     intent.Reply{Intent: intent.IntentSiteDetail, SiteID: site.ID, SiteName: site.Name},
		SessionID: sessionID,
		Messages:  recorded,
	}, nil
}

// Search looks a site up externally. Failures never surface as errors; the
// visitor gets an advisory message instead.
func (s *Service) Search(ctx context.Context, sessionID, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, intent.ErrInvalidInput
	}

	found := s.discover(ctx, query)
	recorded, err := s.record(ctx, sessionID, found.msg)
	if err != nil {
		return Result{}, err
	}
	result := Result{SessionID: sessionID, Messages: recorded}
	if found.site != nil {
		result.Reply = intent.Reply{Intent: intent.IntentSiteDetail, SiteID: found.site.ID, SiteName: found.site.Name}
	} else {
		result.Reply = intent.Reply{Intent: intent.IntentFallback, Text: found.msg.Text}
	}
	return result, nil
}

// Quote prices a selection and records a booking summary.
func (s *Service) Quote(ctx context.Context, sessionID string, sel Selection) (QuoteResult, error) {
	site, quote, err := s.price(ctx, sessionID, sel)
	if err != nil {
		return QuoteResult{}, err
	}
	s.metrics.ObserveQuote(site.ID, site.External, quote.DiscountApplied())

	summary := transcript.BookingSummary(site, quote)
	summary.Text = s.money.summary(site.Name, quote)
	recorded, err := s.record(ctx, sessionID, summary)
	if err != nil {
		return QuoteResult{}, err
	}
	return QuoteResult{Site: site, Quote: quote, SessionID: sessionID, Messages: recorded}, nil
}

// Confirm re-prices the selection, issues a booking id and records the
// confirmation.
func (s *Service) Confirm(ctx context.Context, sessionID string, sel Selection) (BookingResult, error) {
	site, quote, err := s.price(ctx, sessionID, sel)
	if err != nil {
		return BookingResult{}, err
	}

	b := booking.New(site, quote, s.clock.Today())
	s.metrics.ObserveBooking(site.ID, site.External, string(quote.VisitorType))
	s.logger.Info("chat: booking confirmed",
		"booking_id", b.ID,
		"site_id", site.ID,
		"tickets", quote.Tickets,
		"final_total", quote.FinalTotal,
	)

	msg := transcript.Text(transcript.SenderAssistant, fmt.Sprintf(confirmedTemplate, site.Name, b.ID))
	msg.BookingID = b.ID
	recorded, err := s.record(ctx, sessionID, msg)
	if err != nil {
		return BookingResult{}, err
	}
	return BookingResult{Booking: b, SessionID: sessionID, Messages: recorded}, nil
}

func (s *Service) price(ctx context.Context, sessionID string, sel Selection) (catalog.Site, pricing.Quote, error) {
	visitor, err := pricing.ParseVisitorType(sel.VisitorType)
	if err != nil {
		return catalog.Site{}, pricing.Quote{}, err
	}
	if sel.Tickets < 1 {
		return catalog.Site{}, pricing.Quote{}, fmt.Errorf("chat: %d tickets: %w", sel.Tickets, pricing.ErrInvalidQuantity)
	}
	site, err := s.resolveSite(ctx, sessionID, sel.SiteID)
	if err != nil {
		return catalog.Site{}, pricing.Quote{}, err
	}
	quote, err := pricing.Compute(site, visitor, sel.Tickets, s.clock.IsWeekend())
	if err != nil {
		return catalog.Site{}, pricing.Quote{}, err
	}
	return site, quote, nil
}

// resolveSite finds siteID in the catalog, then among externally fetched
// sites already shown in this session.
func (s *Service) resolveSite(ctx context.Context, sessionID, siteID string) (catalog.Site, error) {
	site, err := s.catalog.Get(siteID)
	if err == nil || sessionID == "" || !errors.Is(err, catalog.ErrSiteNotFound) {
		return site, err
	}

	msgs, listErr := s.store.List(ctx, sessionID, historyScanLimit)
	if listErr != nil {
		s.logger.Warn("chat: session scan failed", "session_id", sessionID, "error", listErr)
		return catalog.Site{}, err
	}
	var external []catalog.Site
	for _, m := range msgs {
		if m.Kind == transcript.KindSiteCard && m.Site != nil && m.Site.External {
			external = append(external, *m.Site)
		}
	}
	if len(external) == 0 {
		return catalog.Site{}, err
	}
	return s.catalog.With(external...).Get(siteID)
}

// topicWords mark free text that is about booking, timings or offers rather
// than a site name, so it is never sent to the external lookup.
var topicWords = []string{"book", "time", "offer"}

func mentionsTopic(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range topicWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

type discovery struct {
	site *catalog.Site
	msg  transcript.Message
}

// discover resolves query to a site card, trying the catalog before the
// external lookup. A miss or a failed lookup yields an advisory instead.
func (s *Service) discover(ctx context.Context, query string) discovery {
	if local, ok := s.localMatch(query); ok {
		return discovery{site: &local, msg: transcript.SiteCard(local)}
	}
	site, outcome := s.lookup(ctx, query)
	switch outcome {
	case "found":
		return discovery{site: site, msg: transcript.SiteCard(*site)}
	case "not_found":
		return discovery{msg: transcript.Text(transcript.SenderAssistant, NoMatchAdvisory)}
	default:
		return discovery{msg: transcript.Text(transcript.SenderAssistant, LookupDownAdvisory)}
	}
}

func (s *Service) localMatch(query string) (catalog.Site, bool) {
	if site, ok := s.catalog.FindByName(query); ok {
		return site, true
	}
	if kw, ok := s.classifier.DetectSite(strings.ToLower(query)); ok {
		if site, err := s.catalog.Get(kw.SiteID); err == nil {
			return site, true
		}
	}
	return catalog.Site{}, false
}

func (s *Service) lookup(ctx context.Context, query string) (*catalog.Site, string) {
	if s.finder == nil {
		return nil, "disabled"
	}
	start := time.Now()
	site, err := s.finder.FindSite(ctx, query)
	outcome := "found"
	switch {
	case err != nil:
		outcome = "error"
		s.logger.Warn("chat: site lookup failed", "query", query, "error", err)
	case site == nil:
		outcome = "not_found"
	}
	s.metrics.ObserveLookup(outcome, time.Since(start).Seconds())
	return site, outcome
}

// record appends msgs to the session log. Without a session the messages are
// returned unrecorded.
func (s *Service) record(ctx context.Context, sessionID string, msgs ...transcript.Message) ([]transcript.Message, error) {
	if sessionID == "" {
		return msgs, nil
	}
	out := make([]transcript.Message, 0, len(msgs))
	for _, m := range msgs {
		saved, err := s.store.Append(ctx, sessionID, m)
		if err != nil {
			return nil, fmt.Errorf("chat: record %s message: %w", m.Kind, err)
		}
		out = append(out, saved)
	}
	return out, nil
}
