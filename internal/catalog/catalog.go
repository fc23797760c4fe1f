// Package catalog holds the immutable set of heritage sites the assistant can
// price and book.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrSiteNotFound is returned when a site id is not in the catalog.
	ErrSiteNotFound = errors.New("site not found")

	// ErrInvalidSite is returned when a catalog entry fails validation.
	ErrInvalidSite = errors.New("invalid site")
)

// Site is a heritage monument with display metadata and two ticket prices in
// whole rupees.
type Site struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	City          string  `json:"city" yaml:"city"`
	Tagline       string  `json:"tagline" yaml:"tagline"`
	Rating        float64 `json:"rating" yaml:"rating"`
	Visitors      string  `json:"visitors" yaml:"visitors"`
	Timings       string  `json:"timings" yaml:"timings"`
	Image         string  `json:"image" yaml:"image"`
	PriceDomestic int     `json:"price_domestic" yaml:"price_domestic"`
	PriceForeign  int     `json:"price_foreign" yaml:"price_foreign"`
	// External marks sites fetched from the lookup service rather than the
	// startup catalog.
	External bool `json:"external,omitempty" yaml:"-"`
}

func (s Site) validate() error {
	switch {
	case strings.TrimSpace(s.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidSite)
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: %s: name is required", ErrInvalidSite, s.ID)
	case s.Rating < 0 || s.Rating > 5:
		return fmt.Errorf("%w: %s: rating %.1f outside 0-5", ErrInvalidSite, s.ID, s.Rating)
	case s.PriceDomestic < 0 || s.PriceForeign < 0:
		return fmt.Errorf("%w: %s: negative price", ErrInvalidSite, s.ID)
	}
	return nil
}

// Catalog is an ordered, read-only collection of sites. The zero value is an
// empty catalog. A Catalog is never modified after construction, so it is
// safe to share between goroutines.
type Catalog struct {
	sites []Site
	byID  map[string]int
}

// New validates sites and builds a catalog preserving their order.
func New(sites []Site) (*Catalog, error) {
	c := &Catalog{
		sites: make([]Site, 0, len(sites)),
		byID:  make(map[string]int, len(sites)),
	}
	for _, s := range sites {
		if err := s.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidSite, s.ID)
		}
		c.byID[s.ID] = len(c.sites)
		c.sites = append(c.sites, s)
	}
	return c, nil
}

type catalogFile struct {
	Sites []Site `yaml:"sites"`
}

// LoadFile reads a YAML catalog of the form `sites: [...]`.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(file.Sites) == 0 {
		return nil, fmt.Errorf("catalog: %s has no sites", path)
	}
	c, err := New(file.Sites)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Len returns the number of sites.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.sites)
}

// Sites returns a copy of the sites in catalog order.
func (c *Catalog) Sites() []Site {
	if c == nil {
		return nil
	}
	out := make([]Site, len(c.sites))
	copy(out, c.sites)
	return out
}

// Get returns the site with the given id.
func (c *Catalog) Get(id string) (Site, error) {
	if c != nil {
		if idx, ok := c.byID[strings.TrimSpace(id)]; ok {
			return c.sites[idx], nil
		}
	}
	return Site{}, fmt.Errorf("catalog: %q: %w", id, ErrSiteNotFound)
}

// FindByName matches a display name case-insensitively.
func (c *Catalog) FindByName(name string) (Site, bool) {
	if c == nil {
		return Site{}, false
	}
	name = strings.TrimSpace(name)
	for _, s := range c.sites {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Site{}, false
}

// Names returns the display names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.sites))
	for _, s := range c.sites {
		names = append(names, s.Name)
	}
	return names
}

// With returns a new catalog with extra sites appended. Sites whose id is
// already present are skipped so local entries always win. The receiver is
// left untouched.
func (c *Catalog) With(extra ...Site) *Catalog {
	out := &Catalog{
		sites: c.Sites(),
		byID:  make(map[string]int, c.Len()+len(extra)),
	}
	for i, s := range out.sites {
		out.byID[s.ID] = i
	}
	for _, s := range extra {
		if _, dup := out.byID[s.ID]; dup || s.validate() != nil {
			continue
		}
		out.byID[s.ID] = len(out.sites)
		out.sites = append(out.sites, s)
	}
	return out
}
