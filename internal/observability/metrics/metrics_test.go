package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveIntent("timings", false)
	m.ObserveIntent("timings", false)
	m.ObserveIntent("combo_site", true)
	m.ObserveQuote("taj", false, true)
	m.ObserveBooking("taj", false, "domestic")
	m.ObserveLookup("error", 0.25)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.intentsTotal.WithLabelValues("timings", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.intentsTotal.WithLabelValues("combo_site", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.quotesTotal.WithLabelValues("taj", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("taj", "domestic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookupsTotal.WithLabelValues("error")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var histogram *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "heritage_lookup_duration_seconds" {
			histogram = f
		}
	}
	require.NotNil(t, histogram)
	require.Len(t, histogram.GetMetric(), 1)
	assert.Equal(t, uint64(1), histogram.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestChatMetricsCollapseExternalSites(t *testing.T) {
	m := NewChatMetrics(prometheus.NewRegistry())

	m.ObserveQuote("konark-sun-temple", true, false)
	m.ObserveQuote("ellora-caves", true, false)
	m.ObserveBooking("konark-sun-temple", true, "foreign")
	m.ObserveBooking("ellora-caves", true, "foreign")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.quotesTotal.WithLabelValues("external", "false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("external", "foreign")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.quotesTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.bookingsTotal))
}

func TestChatMetricsNilSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveIntent("fallback", false)
	m.ObserveQuote("taj", false, false)
	m.ObserveBooking("taj", false, "foreign")
	m.ObserveLookup("found", 0.1)
}
