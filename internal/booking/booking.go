// Package booking issues display-only booking confirmations.
package booking

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/heritage-connect/internal/catalog"
	"github.com/wolfman30/heritage-connect/internal/pricing"
)

const (
	idPrefix   = "HRT-"
	idLength   = 6
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// StatusConfirmed is the only status a booking ever has.
const StatusConfirmed = "confirmed"

// Booking is created once on explicit confirmation and never changed.
type Booking struct {
	ID        string        `json:"booking_id"`
	Site      catalog.Site  `json:"site"`
	Quote     pricing.Quote `json:"quote"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// New confirms a priced selection.
func New(site catalog.Site, quote pricing.Quote, now time.Time) Booking {
	return Booking{
		ID:        GenerateID(),
		Site:      site,
		Quote:     quote,
		Status:    StatusConfirmed,
		CreatedAt: now.UTC(),
	}
}

// GenerateID returns "HRT-" followed by six upper-case alphanumerics. IDs are
// not checked for uniqueness.
func GenerateID() string {
	buf := make([]byte, idLength)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return idPrefix + fallbackSuffix()
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return idPrefix + string(buf)
}

// fallbackSuffix draws from a random UUID when the system source fails.
func fallbackSuffix() string {
	u := uuid.New()
	out := make([]byte, idLength)
	for i := range out {
		out[i] = idAlphabet[int(u[i])%len(idAlphabet)]
	}
	return string(out)
}
