// Package pricing computes ticket totals and the weekend combo discount.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/wolfman30/heritage-connect/internal/catalog"
)

var (
	// ErrInvalidQuantity is returned when fewer than one ticket is requested.
	ErrInvalidQuantity = errors.New("ticket count must be at least 1")

	// ErrInvalidVisitorType is returned for an unrecognised visitor type.
	ErrInvalidVisitorType = errors.New("visitor type must be domestic or foreign")
)

const (
	// WeekendDiscountRate is the Weekend Combo discount.
	WeekendDiscountRate = 0.15
	// WeekendMinTickets is the smallest selection the combo applies to.
	WeekendMinTickets = 2
)

// VisitorType selects the price tier.
type VisitorType string

const (
	VisitorDomestic VisitorType = "domestic"
	VisitorForeign  VisitorType = "foreign"
)

// ParseVisitorType accepts "domestic", "foreign" and the widget's "indian"
// alias, case-insensitively. Empty input means domestic.
func ParseVisitorType(raw string) (VisitorType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "domestic", "indian":
		return VisitorDomestic, nil
	case "foreign", "international":
		return VisitorForeign, nil
	}
	return "", fmt.Errorf("pricing: %q: %w", raw, ErrInvalidVisitorType)
}

// Quote is the priced breakdown of a ticket selection in whole rupees.
// FinalTotal always equals BaseTotal minus Discount.
type Quote struct {
	SiteID      string      `json:"site_id"`
	VisitorType VisitorType `json:"visitor_type"`
	Tickets     int         `json:"tickets"`
	UnitPrice   int         `json:"unit_price"`
	BaseTotal   int         `json:"base_total"`
	Discount    int         `json:"discount"`
	FinalTotal  int         `json:"final_total"`
	Weekend     bool        `json:"weekend"`
}

// DiscountApplied reports whether the weekend combo reduced the total.
func (q Quote) DiscountApplied() bool { return q.Discount > 0 }

// UnitPrice returns the site's price for the visitor type. Anything other
// than domestic is charged the foreign price.
func UnitPrice(site catalog.Site, visitor VisitorType) int {
	if visitor == VisitorDomestic {
		return site.PriceDomestic
	}
	return site.PriceForeign
}

// Compute prices tickets for site. The discount is 15% of the base total on a
// weekend with two or more tickets; the final total is rounded half-up.
func Compute(site catalog.Site, visitor VisitorType, tickets int, isWeekend bool) (Quote, error) {
	if tickets < 1 {
		return Quote{}, fmt.Errorf("pricing: %d tickets: %w", tickets, ErrInvalidQuantity)
	}

	unit := UnitPrice(site, visitor)
	base := unit * tickets

	var rawDiscount float64
	if isWeekend && tickets >= WeekendMinTickets {
		rawDiscount = float64(base) * WeekendDiscountRate
	}
	final := roundHalfUp(float64(base) - rawDiscount)

	return Quote{
		SiteID:      site.ID,
		VisitorType: visitor,
		Tickets:     tickets,
		UnitPrice:   unit,
		BaseTotal:   base,
		Discount:    base - final,
		FinalTotal:  final,
		Weekend:     isWeekend,
	}, nil
}

// ClampTickets raises counts below one to one, matching the widget's stepper.
func ClampTickets(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// IsWeekend reports whether t falls on Saturday or Sunday in loc. A nil loc
// uses t's own location.
func IsWeekend(t time.Time, loc *time.Location) bool {
	if loc != nil {
		t = t.In(loc)
	}
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

func roundHalfUp(v float64) int {
	// float error on values like 127.49999999 must not flip the result
	return int(math.Floor(v + 0.5 + 1e-9))
}
