// Package lookup searches an external encyclopedia for heritage sites that are
// not in the local catalog. Everything here is best effort; callers treat
// errors as advisory.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/heritage-connect/internal/catalog"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

// ErrLookupFailed wraps every transport or decoding failure.
var ErrLookupFailed = errors.New("site lookup failed")

const (
	searchLimit    = 10
	maxCandidates  = 5
	thumbnailWidth = 600
	cachePrefix    = "site_lookup:"
)

// Candidate is a search hit.
type Candidate struct {
	PageID  int    `json:"pageid"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Client talks to a MediaWiki action API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	cache      *redis.Client
	cacheTTL   time.Duration
	tracer     trace.Tracer
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCache stores results in Redis for ttl. A nil client disables caching.
func WithCache(client *redis.Client, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = client
		c.cacheTTL = ttl
	}
}

// NewClient creates a lookup client for baseURL, e.g.
// "https://en.wikipedia.org/w/api.php".
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "?"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.Default(),
		tracer:     otel.Tracer("heritage.internal.lookup"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Query struct {
		Search []Candidate `json:"search"`
	} `json:"query"`
}

// Search returns up to five candidate pages for query. Listing pages and
// government pages are dropped.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	cacheKey := cachePrefix + "search:" + strings.ToLower(query)
	var cached []Candidate
	if c.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	ctx, span := c.tracer.Start(ctx, "lookup.search", trace.WithAttributes(attribute.String("lookup.query", query)))
	defer span.End()

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query+" India")
	params.Set("format", "json")
	params.Set("origin", "*")
	params.Set("srlimit", fmt.Sprint(searchLimit))

	var resp searchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := make([]Candidate, 0, maxCandidates)
	for _, hit := range resp.Query.Search {
		title := strings.ToLower(hit.Title)
		if strings.Contains(title, "list of") || strings.Contains(title, "government of") {
			continue
		}
		out = append(out, hit)
		if len(out) == maxCandidates {
			break
		}
	}
	c.cacheSet(ctx, cacheKey, out)
	return out, nil
}

type detailsResponse struct {
	Query struct {
		Pages map[string]page `json:"pages"`
	} `json:"query"`
}

type page struct {
	PageID    int     `json:"pageid"`
	Title     string  `json:"title"`
	Extract   string  `json:"extract"`
	Missing   *string `json:"missing,omitempty"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail,omitempty"`
	Coordinates []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coordinates,omitempty"`
}

// Details fetches a page and turns it into a priced site with external
// defaults. It returns nil, nil when the page does not exist.
func (c *Client) Details(ctx context.Context, title string) (*catalog.Site, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	cacheKey := cachePrefix + "details:" + title
	var cached catalog.Site
	if c.cacheGet(ctx, cacheKey, &cached) {
		cached.External = true
		return &cached, nil
	}

	ctx, span := c.tracer.Start(ctx, "lookup.details", trace.WithAttributes(attribute.String("lookup.title", title)))
	defer span.End()

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|pageimages|coordinates")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("format", "json")
	params.Set("origin", "*")
	params.Set("titles", title)
	params.Set("piprop", "thumbnail")
	params.Set("pithumbsize", fmt.Sprint(thumbnailWidth))

	var resp detailsResponse
	if err := c.get(ctx, params, &resp); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var found *page
	for _, p := range resp.Query.Pages {
		p := p
		found = &p
		break
	}
	if found == nil || found.Missing != nil || found.Title == "" {
		return nil, nil
	}

	city := ""
	if len(found.Coordinates) > 0 {
		city = fmt.Sprintf("%.2f, %.2f", found.Coordinates[0].Lat, found.Coordinates[0].Lon)
	}
	image := ""
	if found.Thumbnail != nil {
		image = found.Thumbnail.Source
	}
	site := catalog.ExternalSite(found.Title, city, image)
	site.ID = catalog.ExternalID(title)

	c.cacheSet(ctx, cacheKey, site)
	return &site, nil
}

// FindSite searches for query and returns details of the first usable hit,
// or nil when nothing matched.
func (c *Client) FindSite(ctx context.Context, query string) (*catalog.Site, error) {
	candidates, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return c.Details(ctx, candidates[0].Title)
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("lookup: create request: %w: %w", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "heritage-connect/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lookup: request failed: %w: %w", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("lookup: status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), ErrLookupFailed)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lookup: decode response: %w: %w", ErrLookupFailed, err)
	}
	return nil
}

func (c *Client) cacheGet(ctx context.Context, key string, out any) bool {
	if c.cache == nil {
		return false
	}
	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("lookup: cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

func (c *Client) cacheSet(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.logger.Debug("lookup: cache write failed", "key", key, "error", err)
	}
}
