package chat

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wolfman30/heritage-connect/internal/pricing"
)

const (
	WelcomeText = "🙏 Namaste! Welcome to Heritage India Ticket Booking.\n\n" +
		"I can help you:\n" +
		"• Book tickets instantly\n" +
		"• Explore famous heritage sites\n" +
		"• Get best prices & offers\n\n" +
		"How can I assist you today?"

	BookTicketsText = "I want to book tickets"

	NoMatchAdvisory     = "Could not find a matching site. Try another name or use the quick buttons."
	LookupDownAdvisory  = "Some sites may not load right now. Core booking still works."
	pillTimingsText     = "General timings:\n• Most monuments: 9:00 AM – 5:30 PM\n• Taj Mahal: 6:00 AM – 7:00 PM (closed Friday)"
	pillOffersText      = "Current offers:\n• Weekend Combo: 15% off on 2+ tickets (Sat–Sun)\n• Family Pack: Save on 4+ tickets\n• Student discounts at select sites."
	showDetailsTemplate = "Show details for %s"
	confirmedTemplate   = "✅ Your booking is confirmed for %s. Your booking ID is %s."
)

// Pill is one of the widget's quick action buttons.
type Pill string

const (
	PillBook    Pill = "book"
	PillPopular Pill = "popular"
	PillTimings Pill = "timings"
	PillOffers  Pill = "offers"
)

// rupees formats whole rupee amounts with Indian digit grouping.
type rupees struct {
	p *message.Printer
}

func newRupees() rupees {
	return rupees{p: message.NewPrinter(language.MustParse("en-IN"))}
}

func (r rupees) format(amount int) string {
	return r.p.Sprintf("₹%d", amount)
}

// summary renders the booking-summary card as plain text for clients that
// do not draw the card.
func (r rupees) summary(siteName string, q pricing.Quote) string {
	var b strings.Builder
	b.WriteString(siteName)
	b.WriteString("\n")
	b.WriteString(r.p.Sprintf("Base fare (%d × %s): %s", q.Tickets, r.format(q.UnitPrice), r.format(q.BaseTotal)))
	if q.DiscountApplied() {
		b.WriteString("\n")
		b.WriteString(r.p.Sprintf("Weekend Combo (%d%% off): -%s", int(pricing.WeekendDiscountRate*100), r.format(q.Discount)))
	}
	b.WriteString("\n")
	b.WriteString("Total: ")
	b.WriteString(r.format(q.FinalTotal))
	return b.String()
}
