package booking

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/heritage-connect/internal/catalog"
	"github.com/wolfman30/heritage-connect/internal/pricing"
)

var idPattern = regexp.MustCompile(`^HRT-[A-Z0-9]{6}$`)

func TestGenerateID_Pattern(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		require.Regexp(t, idPattern, id)
	}
}

func TestGenerateID_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		seen[GenerateID()] = struct{}{}
	}
	// 36^6 possibilities; a handful of collisions would still pass
	assert.Greater(t, len(seen), 190)
}

func TestFallbackSuffix(t *testing.T) {
	assert.Regexp(t, idPattern, idPrefix+fallbackSuffix())
}

func TestNew(t *testing.T) {
	site, err := catalog.Default().Get("hawa")
	require.NoError(t, err)
	quote, err := pricing.Compute(site, pricing.VisitorForeign, 2, false)
	require.NoError(t, err)

	now := time.Date(2026, 10, 13, 10, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	b := New(site, quote, now)

	assert.Regexp(t, idPattern, b.ID)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, "Hawa Mahal", b.Site.Name)
	assert.Equal(t, 400, b.Quote.FinalTotal)
	assert.Equal(t, time.UTC, b.CreatedAt.Location())
	assert.True(t, b.CreatedAt.Equal(now))
}
