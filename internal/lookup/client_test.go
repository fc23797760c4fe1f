package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

const searchBody = `{"query":{"search":[
	{"pageid":1,"title":"List of monuments in Delhi"},
	{"pageid":2,"title":"Red Fort","snippet":"historic fort"},
	{"pageid":3,"title":"Government of Delhi"},
	{"pageid":4,"title":"Red Fort Trials"},
	{"pageid":5,"title":"Lahori Gate"},
	{"pageid":6,"title":"Chandni Chowk"},
	{"pageid":7,"title":"Delhi Gate"},
	{"pageid":8,"title":"Salimgarh Fort"}
]}}`

const detailsBody = `{"query":{"pages":{"2":{
	"pageid":2,
	"title":"Red Fort",
	"extract":"The Red Fort is a historic fort.",
	"thumbnail":{"source":"https://upload.example/redfort.jpg"},
	"coordinates":[{"lat":28.6562,"lon":77.241}]
}}}}`

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "json", q.Get("format"))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("list") == "search":
			assert.Equal(t, "red fort India", q.Get("srsearch"))
			assert.Equal(t, "10", q.Get("srlimit"))
			_, _ = w.Write([]byte(searchBody))
		case q.Get("titles") == "Red Fort":
			assert.Equal(t, "600", q.Get("pithumbsize"))
			_, _ = w.Write([]byte(detailsBody))
		default:
			_, _ = w.Write([]byte(`{"query":{"pages":{"-1":{"title":"Nowhere","missing":""}}}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearch_FiltersAndLimits(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL, time.Second, WithLogger(logging.New("error")))

	got, err := c.Search(context.Background(), "  red fort ")
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "Red Fort", got[0].Title)
	for _, cand := range got {
		assert.NotContains(t, cand.Title, "List of")
		assert.NotContains(t, cand.Title, "Government of")
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", time.Second)
	got, err := c.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDetails_BuildsExternalSite(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL, time.Second)

	site, err := c.Details(context.Background(), "Red Fort")
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "red-fort", site.ID)
	assert.Equal(t, "Red Fort", site.Name)
	assert.Equal(t, "28.66, 77.24", site.City)
	assert.Equal(t, "https://upload.example/redfort.jpg", site.Image)
	assert.Equal(t, 50, site.PriceDomestic)
	assert.Equal(t, 500, site.PriceForeign)
	assert.True(t, site.External)
}

func TestDetails_MissingPage(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL, time.Second)

	site, err := c.Details(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Nil(t, site)
}

func TestFindSite(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL, time.Second)

	site, err := c.FindSite(context.Background(), "red fort")
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "Red Fort", site.Name)
}

func TestFindSite_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"search":[]}}`))
	}))
	defer srv.Close()

	site, err := NewClient(srv.URL, time.Second).FindSite(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Nil(t, site)
}

func TestLookupFailures(t *testing.T) {
	badStatus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer badStatus.Close()

	badJSON := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer badJSON.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	for name, url := range map[string]string{"status": badStatus.URL, "json": badJSON.URL, "transport": closedURL} {
		t.Run(name, func(t *testing.T) {
			_, err := NewClient(url, time.Second).Search(context.Background(), "red fort")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrLookupFailed))
		})
	}
}

func TestCache_AvoidsSecondRequest(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	c := NewClient(srv.URL, time.Second, WithCache(rdb, time.Hour))
	ctx := context.Background()

	first, err := c.FindSite(ctx, "red fort")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))

	second, err := c.FindSite(ctx, "Red Fort")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits), "second lookup should be served from cache")
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.External)

	assert.True(t, mr.Exists(cachePrefix+"search:red fort"))
	assert.Equal(t, time.Hour, mr.TTL(cachePrefix+"details:Red Fort"))
}
