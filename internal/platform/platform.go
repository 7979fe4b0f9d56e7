package platform

import (
	"context"
	"encoding/json"

	"github.com/trendmuse/trendmuse/internal/models"
)

type RequestType int

const (
	ScanRequest RequestType = iota
	BestSellersRequest
	ProductDetailRequest
)

// Request is the site-neutral description of one scrape operation.
type Request struct {
	Type       RequestType
	URL        string
	Collection string
	Page       int
	MaxItems   int
	Category   string
}

// Result is what a strategy hands back on success.
type Result struct {
	Items      []models.FashionItem
	TotalFound int
	Strategy   string
	Raw        json.RawMessage
}

// ScanOpts narrows a site scan.
type ScanOpts struct {
	MaxItems int
	Category string
}

// Strategy is one way of getting products out of a site (storefront API,
// static HTML, headless browser). Scrapers chain strategies and fall back.
type Strategy interface {
	Name() string
	Execute(ctx context.Context, req Request) (*Result, error)
}

// Scraper is a family of sites that share an extraction approach.
type Scraper interface {
	// Supports reports whether this scraper can handle the given URL.
	Supports(url string) bool
	Scan(ctx context.Context, url string, opts ScanOpts) ([]models.FashionItem, error)
	BestSellers(ctx context.Context, url string, limit int) ([]models.FashionItem, error)
	ProductDetail(ctx context.Context, url string) (*models.FashionItem, error)
}
