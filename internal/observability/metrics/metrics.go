package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// ChatMetrics exposes counters/histograms for the booking assistant.
type ChatMetrics struct {
	intentsTotal   *prometheus.CounterVec
	quotesTotal    *prometheus.CounterVec
	bookingsTotal  *prometheus.CounterVec
	lookupsTotal   *prometheus.CounterVec
	lookupDuration prometheus.Histogram
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		intentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "chat",
			Name:      "intents_total",
			Help:      "Classified chat messages by intent",
		}, []string{"intent", "weekend"}),
		quotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "pricing",
			Name:      "quotes_total",
			Help:      "Ticket quotes by site and whether the weekend combo applied",
		}, []string{"site", "discounted"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "booking",
			Name:      "confirmed_total",
			Help:      "Confirmed bookings by site and visitor type",
		}, []string{"site", "visitor_type"}),
		lookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "lookup",
			Name:      "requests_total",
			Help:      "External site lookups by outcome",
		}, []string{"outcome"}),
		lookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heritage",
			Subsystem: "lookup",
			Name:      "duration_seconds",
			Help:      "Latency of external site lookups",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.intentsTotal, m.quotesTotal, m.bookingsTotal, m.lookupsTotal, m.lookupDuration)
	return m
}

func (m *ChatMetrics) ObserveIntent(intent string, weekend bool) {
	if m == nil {
		return
	}
	m.intentsTotal.WithLabelValues(intent, strconv.FormatBool(weekend)).Inc()
}

// externalSiteLabel stands in for every site fetched from the lookup
// service so the site label stays bounded by the catalog.
const externalSiteLabel = "external"

func siteLabel(siteID string, external bool) string {
	if external {
		return externalSiteLabel
	}
	return siteID
}

func (m *ChatMetrics) ObserveQuote(siteID string, external, discounted bool) {
	if m == nil {
		return
	}
	m.quotesTotal.WithLabelValues(siteLabel(siteID, external), strconv.FormatBool(discounted)).Inc()
}

func (m *ChatMetrics) ObserveBooking(siteID string, external bool, visitorType string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(siteLabel(siteID, external), visitorType).Inc()
}

// ObserveLookup records an outcome of "found", "not_found" or "error".
func (m *ChatMetrics) ObserveLookup(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.lookupsTotal.WithLabelValues(outcome).Inc()
	m.lookupDuration.Observe(seconds)
}
