// Package intent maps free-text chat input to canned reply templates using an
// ordered table of keyword rules.
package intent

import (
	"errors"
	"strings"

	"github.com/wolfman30/heritage-connect/internal/catalog"
)

// ErrInvalidInput is returned for empty or blank text.
var ErrInvalidInput = errors.New("text is required")

// Intent identifies which reply template a rule selected.
type Intent string

const (
	IntentComboSite    Intent = "combo_site"
	IntentCombo        Intent = "combo"
	IntentSiteDetail   Intent = "site_detail"
	IntentBooking      Intent = "booking"
	IntentTimings      Intent = "timings"
	IntentPopularSites Intent = "popular_sites"
	IntentOffers       Intent = "offers"
	IntentFallback     Intent = "fallback"
)

// Reply is the classifier output.
type Reply struct {
	Intent Intent `json:"intent"`
	Text   string `json:"reply"`
	// SiteID and SiteName are set when the text mentions a known monument.
	SiteID   string `json:"site_id,omitempty"`
	SiteName string `json:"site_name,omitempty"`
	// ComboAvailable reports the weekend branch taken by the combo templates.
	ComboAvailable bool `json:"combo_available,omitempty"`
}

// Input is what each rule sees.
type Input struct {
	Text      string
	Lower     string
	SiteID    string
	SiteName  string
	Weekend   bool
	SiteNames []string
}

// HasSite reports whether a monument keyword was found.
func (in Input) HasSite() bool { return in.SiteID != "" }

// Rule pairs a predicate with the template it renders.
type Rule struct {
	Intent Intent
	Match  func(Input) bool
	Render func(Input) string
}

// Rules is the ordered table. Evaluation stops at the first match; the last
// rule always matches.
var Rules = []Rule{
	{
		Intent: IntentComboSite,
		Match: func(in Input) bool {
			return strings.Contains(in.Lower, comboPhrase) && in.HasSite()
		},
		Render: func(in Input) string {
			if in.Weekend {
				return comboSiteConfirmed(in.SiteName)
			}
			return comboSiteWeekday(in.SiteName)
		},
	},
	{
		Intent: IntentCombo,
		Match: func(in Input) bool {
			return strings.Contains(in.Lower, comboKeyword)
		},
		Render: func(in Input) string {
			if in.Weekend {
				return comboPrompt(in.SiteNames)
			}
			return comboWeekday
		},
	},
	{
		Intent: IntentSiteDetail,
		Match: func(in Input) bool {
			return in.HasSite() && !strings.Contains(in.Lower, bookKeyword)
		},
		Render: func(in Input) string { return siteDetail(in.SiteName) },
	},
	{
		Intent: IntentBooking,
		Match: func(in Input) bool {
			return strings.Contains(in.Lower, bookKeyword)
		},
		Render: func(in Input) string { return bookingPrompt(in.SiteNames) },
	},
	{
		Intent: IntentTimings,
		Match:  func(in Input) bool { return containsAny(in.Lower, timingKeywords) },
		Render: func(Input) string { return TimingsText },
	},
	{
		Intent: IntentPopularSites,
		Match:  func(in Input) bool { return containsAny(in.Lower, popularKeywords) },
		Render: func(Input) string { return PopularSitesText },
	},
	{
		Intent: IntentOffers,
		Match:  func(in Input) bool { return containsAny(in.Lower, offerKeywords) },
		Render: func(Input) string { return OffersText },
	},
	{
		Intent: IntentFallback,
		Match:  func(Input) bool { return true },
		Render: func(in Input) string { return fallback(in.Text) },
	},
}

// Classifier resolves monument keywords against a catalog and runs the rule
// table. It holds no mutable state.
type Classifier struct {
	catalog  *catalog.Catalog
	keywords []SiteKeyword
	rules    []Rule
}

// Option customises a Classifier.
type Option func(*Classifier)

// WithSiteKeywords replaces the monument keyword table. Order is priority.
func WithSiteKeywords(keywords []SiteKeyword) Option {
	return func(c *Classifier) {
		c.keywords = append([]SiteKeyword(nil), keywords...)
	}
}

// NewClassifier builds a classifier over the given catalog.
func NewClassifier(cat *catalog.Catalog, opts ...Option) *Classifier {
	c := &Classifier{
		catalog:  cat,
		keywords: DefaultSiteKeywords,
		rules:    Rules,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DetectSite returns the first monument keyword found in lower-cased text.
func (c *Classifier) DetectSite(lower string) (SiteKeyword, bool) {
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw.Keyword) {
			return kw, true
		}
	}
	return SiteKeyword{}, false
}

// Classify selects the reply template for text. isWeekend only affects the
// combo templates.
func (c *Classifier) Classify(text string, isWeekend bool) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrInvalidInput
	}

	in := Input{
		Text:      text,
		Lower:     strings.ToLower(text),
		Weekend:   isWeekend,
		SiteNames: c.catalog.Names(),
	}
	if kw, ok := c.DetectSite(in.Lower); ok {
		in.SiteID = kw.SiteID
		in.SiteName = unknownSite
		if site, err := c.catalog.Get(kw.SiteID); err == nil {
			in.SiteName = site.Name
		}
	}

	for _, rule := range c.rules {
		if !rule.Match(in) {
			continue
		}
		reply := Reply{
			Intent:   rule.Intent,
			Text:     rule.Render(in),
			SiteID:   in.SiteID,
			SiteName: in.SiteName,
		}
		if rule.Intent == IntentComboSite || rule.Intent == IntentCombo {
			reply.ComboAvailable = isWeekend
		}
		return reply, nil
	}
	// unreachable while the fallback rule is last
	return Reply{Intent: IntentFallback, Text: fallback(text)}, nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
