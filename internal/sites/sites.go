// Package sites scrapes boutiques that do not expose a Shopify
// storefront API, using per-site CSS selector profiles over rendered
// listing pages.
package sites

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/trendmuse/trendmuse/internal/httputil"
	"github.com/trendmuse/trendmuse/internal/models"
	"github.com/trendmuse/trendmuse/internal/normalize"
	"github.com/trendmuse/trendmuse/internal/platform"
)

// Selectors names the CSS hooks for one site's product listing markup.
type Selectors struct {
	Item          string
	Name          string
	Price         string
	OriginalPrice string
	Link          string
	Image         string
}

// genericSelectors covers the common boutique theme conventions and is
// the fallback when no per-site profile exists.
var genericSelectors = Selectors{
	Item:          "[data-testid='product'], .product-card, .product-item, article.product",
	Name:          ".product-name, .product-title, h3, h2",
	Price:         ".price, .product-price, [data-testid='price']",
	OriginalPrice: ".price--compare, .original-price, .was-price, s",
	Link:          "a",
	Image:         "img",
}

// siteProfiles maps a domain to its selector profile and best-seller
// listing path.
type siteProfile struct {
	Name           string
	BestSellerPath string
	Selectors      Selectors
}

var siteProfiles = map[string]siteProfile{
	"zara.com": {
		Name:           "ZARA",
		BestSellerPath: "/us/en/kids-bestsellers-l5916.html",
		Selectors: Selectors{
			Item:          ".product-grid-product",
			Name:          ".product-grid-product-info__name",
			Price:         ".money-amount__main",
			OriginalPrice: ".money-amount__main--old",
			Link:          "a.product-link",
			Image:         "img.media-image__image",
		},
	},
	"tullabee.com": {
		Name:           "Tullabee",
		BestSellerPath: "/collections/best-sellers",
		Selectors: Selectors{
			Item:  ".product-card, .grid__item",
			Name:  ".product-card__title, .product-title",
			Price: ".price-item--regular, .price",
			Link:  "a[href*='/products/']",
			Image: "img",
		},
	},
}

var priceExpr = regexp.MustCompile(`[\d,]+(?:\.\d{1,2})?`)

// ParsePrice extracts a numeric amount from display text like
// "$58.50", "USD 1,299.00" or "from $24".
func ParsePrice(text string) float64 {
	m := priceExpr.FindString(text)
	if m == "" {
		return 0
	}
	m = strings.ReplaceAll(m, ",", "")
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// Scraper implements platform.Scraper for the configured selector sites.
type Scraper struct {
	client *http.Client
}

func NewScraper(client *http.Client) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scraper{client: client}
}

// Supports claims only domains with a selector profile; everything
// else falls through to the Shopify catch-all.
func (s *Scraper) Supports(rawURL string) bool {
	_, ok := siteProfiles[domainOf(rawURL)]
	return ok
}

func (s *Scraper) Scan(ctx context.Context, rawURL string, opts platform.ScanOpts) ([]models.FashionItem, error) {
	if opts.MaxItems <= 0 {
		opts.MaxItems = 20
	}
	items, err := s.scanPage(ctx, rawURL, opts.MaxItems)
	if err != nil {
		return nil, err
	}
	if opts.Category != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.Category == opts.Category {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	return items, nil
}

// BestSellers scans the site's curated best-seller listing. Listing
// order is the ranking.
func (s *Scraper) BestSellers(ctx context.Context, rawURL string, limit int) ([]models.FashionItem, error) {
	if limit <= 0 {
		limit = 50
	}
	profile, ok := siteProfiles[domainOf(rawURL)]
	if !ok {
		return nil, fmt.Errorf("no selector profile for %s", rawURL)
	}
	pageURL := rawURL
	if u, err := url.Parse(rawURL); err == nil && (u.Path == "" || u.Path == "/") {
		pageURL = u.Scheme + "://" + u.Host + profile.BestSellerPath
	}
	return s.scanPage(ctx, pageURL, limit)
}

func (s *Scraper) ProductDetail(ctx context.Context, rawURL string) (*models.FashionItem, error) {
	items, err := s.scanPage(ctx, rawURL, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no product found at %s", rawURL)
	}
	return &items[0], nil
}

func (s *Scraper) scanPage(ctx context.Context, pageURL string, maxItems int) ([]models.FashionItem, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	domain := domainOf(pageURL)
	profile, ok := siteProfiles[domain]
	sel := genericSelectors
	brand := domain
	if ok {
		sel = profile.Selectors
		brand = profile.Name
	}

	fields := ExtractListing(doc, sel, pageURL, brand)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no products matched selectors on %s", pageURL)
	}
	if maxItems > 0 && len(fields) > maxItems {
		fields = fields[:maxItems]
	}

	items, _ := normalize.Batch(fields, time.Now())
	platform.ReportProgress(ctx, fmt.Sprintf("Found %d products on %s", len(items), domain))
	return items, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range httputil.BrowserHeaders() {
		req.Header[k] = v
	}

	resp, err := httputil.DoWithRetry(s.client, req, 2)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// ExtractListing walks the product grid and maps each card to raw
// fields for normalisation.
func ExtractListing(doc *goquery.Document, sel Selectors, pageURL, brand string) []normalize.Fields {
	base, _ := url.Parse(pageURL)
	domain := domainOf(pageURL)

	var out []normalize.Fields
	doc.Find(sel.Item).Each(func(i int, card *goquery.Selection) {
		name := strings.TrimSpace(card.Find(sel.Name).First().Text())
		if name == "" {
			return
		}

		f := normalize.Fields{
			Name:   name,
			Brand:  brand,
			Source: domain,
			Price:  ParsePrice(card.Find(sel.Price).First().Text()),
		}
		if sel.OriginalPrice != "" {
			f.OriginalPrice = ParsePrice(card.Find(sel.OriginalPrice).First().Text())
		}

		if href, ok := card.Find(sel.Link).First().Attr("href"); ok {
			f.ProductURL = absoluteURL(base, href)
		}
		if src, ok := card.Find(sel.Image).First().Attr("src"); ok {
			f.ImageURL = absoluteURL(base, src)
		} else if src, ok := card.Find(sel.Image).First().Attr("data-src"); ok {
			f.ImageURL = absoluteURL(base, src)
		}

		f.Category = categoryFromName(name)
		out = append(out, f)
	})
	return out
}

func absoluteURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func categoryFromName(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "dress") || strings.Contains(n, "romper") || strings.Contains(n, "gown"):
		return models.CategoryDress
	case strings.Contains(n, "swim") || strings.Contains(n, "rashguard"):
		return models.CategorySwimwear
	case strings.Contains(n, "jacket") || strings.Contains(n, "cardigan"):
		return models.CategoryJacket
	case strings.Contains(n, "coat"):
		return models.CategoryCoat
	case strings.Contains(n, "pant") || strings.Contains(n, "legging") || strings.Contains(n, "short") || strings.Contains(n, "jean"):
		return models.CategoryPants
	case strings.Contains(n, "skirt") || strings.Contains(n, "skort"):
		return models.CategorySkirt
	case strings.Contains(n, "top") || strings.Contains(n, "tee") || strings.Contains(n, "shirt") || strings.Contains(n, "blouse") || strings.Contains(n, "sweater"):
		return models.CategoryTop
	case strings.Contains(n, "shoe") || strings.Contains(n, "sandal") || strings.Contains(n, "boot") || strings.Contains(n, "sneaker"):
		return models.CategoryShoes
	case strings.Contains(n, "bow") || strings.Contains(n, "headband") || strings.Contains(n, "hat") || strings.Contains(n, "sock"):
		return models.CategoryAccessories
	default:
		return ""
	}
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Domains lists every site with a selector profile.
func Domains() []string {
	out := make([]string, 0, len(siteProfiles))
	for d := range siteProfiles {
		out = append(out, d)
	}
	return out
}
