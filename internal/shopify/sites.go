package shopify

import (
	"net/url"
	"strings"
)

// SiteConfig carries per-store quirks for known boutiques.
type SiteConfig struct {
	Name string
	// BaseURL overrides the scheme+host derived from the input URL for
	// stores that require a www prefix.
	BaseURL string
	// BestSellerCollection is the collection handle whose order reflects
	// store-curated popularity.
	BestSellerCollection string
}

// siteConfigs lists the boutiques the weekly scrape tracks. Unknown
// Shopify stores still work; they just get domain-derived defaults.
var siteConfigs = map[string]SiteConfig{
	"classicwhimsy.com":       {Name: "Classic Whimsy", BestSellerCollection: "best-sellers"},
	"jamiekay.com":            {Name: "Jamie Kay", BestSellerCollection: "best-sellers"},
	"shrimpandgritskids.com":  {Name: "Shrimp and Grits Kids", BestSellerCollection: "best-sellers"},
	"gigiandmax.com":          {Name: "Gigi and Max", BaseURL: "https://www.gigiandmax.com", BestSellerCollection: "best-sellers"},
	"stitchyfish.com":         {Name: "Stitchy Fish", BestSellerCollection: "best-sellers"},
	"littlebearsmocks.com":    {Name: "Little Bear Smocks", BestSellerCollection: "best-sellers"},
	"zuccinikids.com":         {Name: "Zuccini Kids", BestSellerCollection: "best-sellers"},
	"marienicoleclothing.com": {Name: "Marie Nicole Clothing", BestSellerCollection: "best-sellers"},
	"morninglavender.com":     {Name: "Morning Lavender", BestSellerCollection: "best-sellers"},
	"matildajaneclothing.com": {Name: "Matilda Jane Clothing", BestSellerCollection: "best-sellers"},
}

// Sites returns the domains of all configured boutiques.
func Sites() []string {
	out := make([]string, 0, len(siteConfigs))
	for domain := range siteConfigs {
		out = append(out, domain)
	}
	return out
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

func configFor(rawURL string) SiteConfig {
	domain := domainOf(rawURL)
	if cfg, ok := siteConfigs[domain]; ok {
		return cfg
	}
	return SiteConfig{Name: domain, BestSellerCollection: "best-sellers"}
}

func baseURLOf(rawURL string) string {
	cfg := configFor(rawURL)
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}

// collectionOf extracts a collection handle from a storefront URL, or ""
// when the URL does not point into /collections/.
func collectionOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := u.Path
	if i := strings.Index(path, "/collections/"); i >= 0 {
		rest := path[i+len("/collections/"):]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}
	return ""
}
