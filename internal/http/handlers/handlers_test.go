package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/heritage-connect/internal/catalog"
	"github.com/wolfman30/heritage-connect/internal/chat"
	"github.com/wolfman30/heritage-connect/internal/intent"
	"github.com/wolfman30/heritage-connect/internal/lookup"
	"github.com/wolfman30/heritage-connect/internal/pricing"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

var saturday = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

type finderFunc func(ctx context.Context, query string) (*catalog.Site, error)

func (f finderFunc) FindSite(ctx context.Context, query string) (*catalog.Site, error) {
	return f(ctx, query)
}

func testLogger() *logging.Logger {
	return logging.NewWithWriter("error", &bytes.Buffer{})
}

func newTestRouter(t *testing.T, finder chat.SiteFinder) http.Handler {
	t.Helper()
	opts := []chat.Option{
		chat.WithClock(pricing.FixedClock(saturday)),
		chat.WithLogger(testLogger()),
	}
	if finder != nil {
		opts = append(opts, chat.WithSiteFinder(finder))
	}
	svc := chat.NewService(catalog.Default(), opts...)
	sites := NewSitesHandler(svc, testLogger())
	bookings := NewBookingsHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Get("/sites", sites.List)
	r.Get("/sites/search", sites.Search)
	r.Get("/sites/{id}", sites.Get)
	r.Post("/quotes", bookings.Quote)
	r.Post("/bookings", bookings.Confirm)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, "oops", http.StatusTeapot)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"oops"}`, rec.Body.String())
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{intent.ErrInvalidInput, http.StatusBadRequest, MsgTextRequired},
		{fmt.Errorf("wrap: %w", pricing.ErrInvalidQuantity), http.StatusBadRequest, "Tickets must be at least 1"},
		{pricing.ErrInvalidVisitorType, http.StatusBadRequest, "Visitor type must be domestic or foreign"},
		{chat.ErrUnknownPill, http.StatusBadRequest, "Unknown quick action"},
		{fmt.Errorf("catalog: %q: %w", "x", catalog.ErrSiteNotFound), http.StatusNotFound, "Site not found"},
		{errors.New("redis: connection refused"), http.StatusInternalServerError, MsgServerError},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, testLogger(), tt.err)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestSitesList(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/sites", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Sites   []catalog.Site `json:"sites"`
		Weekend bool           `json:"weekend"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Sites, 3)
	assert.Equal(t, "taj", body.Sites[0].ID)
	assert.True(t, body.Weekend)
}

func TestSitesGet(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/sites/qutub", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var site catalog.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &site))
	assert.Equal(t, "Qutub Minar", site.Name)
	assert.Equal(t, 600, site.PriceForeign)

	rec = do(t, h, http.MethodGet, "/sites/red-fort", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSitesSearch(t *testing.T) {
	failing := finderFunc(func(context.Context, string) (*catalog.Site, error) {
		return nil, lookup.ErrLookupFailed
	})
	h := newTestRouter(t, failing)

	rec := do(t, h, http.MethodGet, "/sites/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/sites/search?q=Konark&session=s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res chat.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Messages, 1)
	assert.Equal(t, chat.LookupDownAdvisory, res.Messages[0].Text)
}

func TestQuoteEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/quotes", `{"site_id":"taj","visitor_type":"domestic","tickets":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res chat.QuoteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 150, res.Quote.BaseTotal)
	assert.Equal(t, 22, res.Quote.Discount)
	assert.Equal(t, 128, res.Quote.FinalTotal)

	rec = do(t, h, http.MethodPost, "/quotes", `{"site_id":"taj","tickets":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/quotes", `{"site_id":"atlantis","tickets":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/quotes", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/bookings", `{"site_id":"qutub","visitor_type":"foreign","tickets":1,"session_id":"s1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res chat.BookingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Regexp(t, `^HRT-[A-Z0-9]{6}$`, res.ID)
	assert.Equal(t, "confirmed", res.Status)
	assert.Equal(t, 600, res.Quote.FinalTotal)
	assert.Equal(t, "s1", res.SessionID)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, res.Messages[0].Text, "Qutub Minar")
}
