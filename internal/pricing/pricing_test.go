package pricing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/heritage-connect/internal/catalog"
)

func mustSite(t *testing.T, id string) catalog.Site {
	t.Helper()
	s, err := catalog.Default().Get(id)
	require.NoError(t, err)
	return s
}

func TestCompute_TajDomesticWeekendPair(t *testing.T) {
	q, err := Compute(mustSite(t, "taj"), VisitorDomestic, 2, true)
	require.NoError(t, err)
	assert.Equal(t, 50, q.UnitPrice)
	assert.Equal(t, 100, q.BaseTotal)
	assert.Equal(t, 15, q.Discount)
	assert.Equal(t, 85, q.FinalTotal)
	assert.True(t, q.DiscountApplied())
}

func TestCompute_TajForeignSingleWeekend(t *testing.T) {
	q, err := Compute(mustSite(t, "taj"), VisitorForeign, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 1300, q.UnitPrice)
	assert.Equal(t, 1300, q.BaseTotal)
	assert.Zero(t, q.Discount)
	assert.Equal(t, 1300, q.FinalTotal)
	assert.False(t, q.DiscountApplied())
}

func TestCompute_HalfRupeeRoundsUp(t *testing.T) {
	// 3 x 50 = 150, 15% = 22.5, 127.5 rounds to 128
	q, err := Compute(mustSite(t, "hawa"), VisitorDomestic, 3, true)
	require.NoError(t, err)
	assert.Equal(t, 150, q.BaseTotal)
	assert.Equal(t, 128, q.FinalTotal)
	assert.Equal(t, 22, q.Discount)
}

func TestCompute_Properties(t *testing.T) {
	for _, site := range catalog.Default().Sites() {
		for _, visitor := range []VisitorType{VisitorDomestic, VisitorForeign} {
			for tickets := 1; tickets <= 25; tickets++ {
				for _, weekend := range []bool{true, false} {
					q, err := Compute(site, visitor, tickets, weekend)
					require.NoError(t, err)

					assert.Equal(t, q.UnitPrice*tickets, q.BaseTotal)
					assert.Equal(t, q.BaseTotal-q.Discount, q.FinalTotal)

					if !weekend || tickets < 2 {
						assert.Zero(t, q.Discount, "%s %s %d weekend=%v", site.ID, visitor, tickets, weekend)
						continue
					}
					want := float64(q.BaseTotal) * WeekendDiscountRate
					assert.LessOrEqual(t, math.Abs(float64(q.Discount)-want), 0.5,
						"%s %s %d: discount %d vs %.2f", site.ID, visitor, tickets, q.Discount, want)
				}
			}
		}
	}
}

func TestCompute_InvalidQuantity(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		_, err := Compute(mustSite(t, "qutub"), VisitorDomestic, n, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidQuantity))
	}
}

func TestUnitPriceByVisitor(t *testing.T) {
	qutub := mustSite(t, "qutub")
	assert.Equal(t, 40, UnitPrice(qutub, VisitorDomestic))
	assert.Equal(t, 600, UnitPrice(qutub, VisitorForeign))
}

func TestParseVisitorType(t *testing.T) {
	tests := map[string]VisitorType{
		"":          VisitorDomestic,
		"domestic":  VisitorDomestic,
		"Indian":    VisitorDomestic,
		" FOREIGN ": VisitorForeign,
	}
	for raw, want := range tests {
		got, err := ParseVisitorType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseVisitorType("martian")
	assert.True(t, errors.Is(err, ErrInvalidVisitorType))
}

func TestClampTickets(t *testing.T) {
	assert.Equal(t, 1, ClampTickets(-3))
	assert.Equal(t, 1, ClampTickets(0))
	assert.Equal(t, 4, ClampTickets(4))
}

func TestIsWeekend(t *testing.T) {
	// 2026-10-17 is a Saturday
	sat := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	sun := sat.AddDate(0, 0, 1)
	mon := sat.AddDate(0, 0, 2)
	tue := sat.AddDate(0, 0, 3)
	fri := sat.AddDate(0, 0, -1)

	assert.True(t, IsWeekend(sat, nil))
	assert.True(t, IsWeekend(sun, nil))
	assert.False(t, IsWeekend(mon, nil))
	assert.False(t, IsWeekend(tue, nil))
	assert.False(t, IsWeekend(fri, nil))
}

func TestIsWeekend_UsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	// Friday 20:00 UTC is already Saturday 01:30 in Kolkata
	fridayNightUTC := time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)

	assert.False(t, IsWeekend(fridayNightUTC, time.UTC))
	assert.True(t, IsWeekend(fridayNightUTC, kolkata))
}

func TestClock(t *testing.T) {
	sat := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	assert.True(t, FixedClock(sat).IsWeekend())
	assert.False(t, FixedClock(sat.AddDate(0, 0, 3)).IsWeekend())

	c := NewClock(nil)
	assert.Equal(t, time.Local, c.Location)
	assert.NotNil(t, c.Now)
}
