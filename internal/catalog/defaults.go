package catalog

import "strings"

// DefaultSites is the built-in catalog used when no catalog file is configured.
func DefaultSites() []Site {
	return []Site{
		{
			ID:            "taj",
			Name:          "Taj Mahal",
			City:          "Agra, Uttar Pradesh",
			Tagline:       "UNESCO World Heritage Site - Symbol of eternal love",
			Rating:        4.9,
			Visitors:      "8M+ yearly",
			Timings:       "6:00 AM - 7:00 PM",
			Image:         "https://images.unsplash.com/photo-1571731566141-0b724e7e30b9?w=800&h=500&fit=crop",
			PriceDomestic: 50,
			PriceForeign:  1300,
		},
		{
			ID:            "qutub",
			Name:          "Qutub Minar",
			City:          "Delhi",
			Tagline:       "World's tallest brick minaret",
			Rating:        4.5,
			Visitors:      "2.5M+ yearly",
			Timings:       "7:00 AM - 5:00 PM",
			Image:         "https://images.unsplash.com/photo-1667849521212-e9843b89f322?w=800&h=500&fit=crop",
			PriceDomestic: 40,
			PriceForeign:  600,
		},
		{
			ID:            "hawa",
			Name:          "Hawa Mahal",
			City:          "Jaipur, Rajasthan",
			Tagline:       "The Palace of Winds - Icon of the Pink City",
			Rating:        4.7,
			Visitors:      "2M+ yearly",
			Timings:       "9:00 AM - 5:00 PM",
			Image:         "https://images.unsplash.com/photo-1695395550316-8995ae9d35ff?w=800&h=500&fit=crop",
			PriceDomestic: 50,
			PriceForeign:  200,
		},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultSites())
	if err != nil {
		panic(err)
	}
	return c
}

const fallbackImage = "https://images.unsplash.com/photo-1571896349840-0d7119f78c2d?w=800&h=500&fit=crop"

// ExternalSite fills the display and price defaults for a site found through
// the lookup service. Empty city and image fall back to generic values.
func ExternalSite(title, city, image string) Site {
	if strings.TrimSpace(city) == "" {
		city = "India"
	}
	if strings.TrimSpace(image) == "" {
		image = fallbackImage
	}
	return Site{
		ID:            ExternalID(title),
		Name:          title,
		City:          city,
		Tagline:       "Historic attraction",
		Rating:        4.5,
		Visitors:      "1M+ yearly",
		Timings:       "9:00 AM - 5:00 PM",
		Image:         image,
		PriceDomestic: 50,
		PriceForeign:  500,
		External:      true,
	}
}

// ExternalID derives a site id from a page title: lower-case, whitespace runs
// replaced by a single dash.
func ExternalID(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}
