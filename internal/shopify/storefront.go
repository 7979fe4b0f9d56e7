package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/trendmuse/trendmuse/internal/httputil"
	"github.com/trendmuse/trendmuse/internal/models"
	"github.com/trendmuse/trendmuse/internal/normalize"
	"github.com/trendmuse/trendmuse/internal/platform"
)

// StorefrontStrategy reads the public Shopify storefront JSON API:
// /products.json for whole stores, /collections/{handle}/products.json
// for curated collections.
type StorefrontStrategy struct {
	client *http.Client
}

func NewStorefrontStrategy(client *http.Client) *StorefrontStrategy {
	return &StorefrontStrategy{client: client}
}

func (s *StorefrontStrategy) Name() string { return "storefront" }

func (s *StorefrontStrategy) Execute(ctx context.Context, req platform.Request) (*platform.Result, error) {
	switch req.Type {
	case platform.ScanRequest, platform.BestSellersRequest:
		return s.listProducts(ctx, req)
	case platform.ProductDetailRequest:
		return s.productDetail(ctx, req)
	default:
		return nil, fmt.Errorf("storefront strategy does not support request type %d", req.Type)
	}
}

func (s *StorefrontStrategy) listProducts(ctx context.Context, req platform.Request) (*platform.Result, error) {
	base := baseURLOf(req.URL)

	collection := req.Collection
	if collection == "" {
		collection = collectionOf(req.URL)
	}

	limit := req.MaxItems
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	endpoint := fmt.Sprintf("%s/products.json?limit=%d&page=%d", base, limit, page)
	if collection != "" {
		endpoint = fmt.Sprintf("%s/collections/%s/products.json?limit=%d&page=%d", base, collection, limit, page)
	}

	body, err := s.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Products []storefrontProduct `json:"products"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode products.json: %w", err)
	}
	if len(payload.Products) == 0 {
		return nil, fmt.Errorf("no products in %s", endpoint)
	}

	items := s.toItems(payload.Products, req)
	return &platform.Result{
		Items:      items,
		TotalFound: len(items),
		Strategy:   s.Name(),
		Raw:        body,
	}, nil
}

func (s *StorefrontStrategy) productDetail(ctx context.Context, req platform.Request) (*platform.Result, error) {
	// A product page URL plus ".json" returns {"product": {...}}.
	endpoint := strings.TrimSuffix(req.URL, "/") + ".json"
	body, err := s.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Product storefrontProduct `json:"product"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode product json: %w", err)
	}
	if payload.Product.Title == "" {
		return nil, fmt.Errorf("no product in %s", endpoint)
	}

	items := s.toItems([]storefrontProduct{payload.Product}, req)
	if len(items) == 0 {
		return nil, fmt.Errorf("product in %s failed validation", endpoint)
	}
	return &platform.Result{Items: items, TotalFound: 1, Strategy: s.Name()}, nil
}

func (s *StorefrontStrategy) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range httputil.StorefrontJSONHeaders() {
		httpReq.Header[k] = v
	}

	resp, err := httputil.DoWithRetry(s.client, httpReq, 2)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storefront API returned %d for %s", resp.StatusCode, endpoint)
	}
	return httputil.ReadBody(resp)
}

func (s *StorefrontStrategy) toItems(products []storefrontProduct, req platform.Request) []models.FashionItem {
	base := baseURLOf(req.URL)
	cfg := configFor(req.URL)
	domain := domainOf(req.URL)
	now := time.Now()

	fields := make([]normalize.Fields, 0, len(products))
	for _, p := range products {
		f := p.fields(base, domain, cfg.Name)
		if req.Category != "" && f.Category != req.Category {
			continue
		}
		fields = append(fields, f)
	}

	items, _ := normalize.Batch(fields, now)
	return items
}

// storefrontProduct mirrors the products.json payload shape.
type storefrontProduct struct {
	ID          json.Number         `json:"id"`
	Title       string              `json:"title"`
	Handle      string              `json:"handle"`
	ProductType string              `json:"product_type"`
	Tags        flexTags            `json:"tags"`
	Variants    []storefrontVariant `json:"variants"`
	Images      []storefrontImage   `json:"images"`
	PublishedAt time.Time           `json:"published_at"`
}

type storefrontVariant struct {
	Price          string `json:"price"`
	CompareAtPrice string `json:"compare_at_price"`
	Option1        string `json:"option1"`
	Available      bool   `json:"available"`
}

type storefrontImage struct {
	Src string `json:"src"`
}

// flexTags accepts both the array form (/products.json) and the
// comma-joined string form (admin payloads).
type flexTags []string

func (t *flexTags) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = nil
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	*t = parts
	return nil
}

func (p storefrontProduct) fields(base, domain, brand string) normalize.Fields {
	return normalize.Fields{
		ID:            "shopify-" + p.ID.String(),
		Name:          p.Title,
		Price:         p.price(),
		OriginalPrice: p.compareAtPrice(),
		ImageURL:      p.imageURL(),
		ProductURL:    base + "/products/" + p.Handle,
		Category:      mapCategory(p.ProductType, p.Tags),
		Brand:         brand,
		Source:        domain,
		Colors:        p.colors(),
		Tags:          cleanTags(p.Tags),
	}
}

func (p storefrontProduct) price() float64 {
	for _, v := range p.Variants {
		if f, err := strconv.ParseFloat(v.Price, 64); err == nil && f > 0 {
			return f
		}
	}
	return 0
}

func (p storefrontProduct) compareAtPrice() float64 {
	for _, v := range p.Variants {
		if f, err := strconv.ParseFloat(v.CompareAtPrice, 64); err == nil && f > 0 {
			return f
		}
	}
	return 0
}

func (p storefrontProduct) imageURL() string {
	if len(p.Images) > 0 {
		return p.Images[0].Src
	}
	return ""
}

var colorKeywords = []string{
	"pink", "blue", "red", "white", "black", "green", "yellow",
	"purple", "gray", "grey", "navy", "cream", "ivory", "coral",
	"lavender", "sage", "blush", "beige",
}

// colors pulls color names from color_ tags and variant options.
func (p storefrontProduct) colors() []string {
	var colors []string
	seen := map[string]bool{}
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c != "" && !seen[strings.ToLower(c)] && len(colors) < 5 {
			seen[strings.ToLower(c)] = true
			colors = append(colors, c)
		}
	}

	for _, tag := range p.Tags {
		if rest, ok := strings.CutPrefix(strings.ToLower(tag), "color_"); ok {
			add(rest)
		}
	}
	for _, v := range p.Variants {
		lower := strings.ToLower(v.Option1)
		for _, kw := range colorKeywords {
			if strings.Contains(lower, kw) {
				add(v.Option1)
				break
			}
		}
	}
	return colors
}

var skipTagPrefixes = []string{"feed-", "supplier-", "return_", "season_", "color_"}

func cleanTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		skip := false
		for _, p := range skipTagPrefixes {
			if strings.HasPrefix(lower, p) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		clean := strings.ReplaceAll(tag, "_", " ")
		if len(clean) > 2 {
			out = append(out, clean)
		}
		if len(out) == 10 {
			break
		}
	}
	return out
}

// mapCategory maps a Shopify product type (plus tag hints) onto a
// canonical category.
func mapCategory(productType string, tags []string) string {
	pt := strings.ToLower(productType)
	haystack := pt
	for _, t := range tags {
		haystack += " " + strings.ToLower(t)
	}

	switch {
	case strings.Contains(haystack, "dress") || strings.Contains(haystack, "gown"):
		return models.CategoryDress
	case strings.Contains(pt, "top") || strings.Contains(pt, "shirt") || strings.Contains(pt, "blouse"):
		return models.CategoryTop
	case strings.Contains(pt, "pant") || strings.Contains(pt, "short") || strings.Contains(pt, "legging"):
		return models.CategoryPants
	case strings.Contains(pt, "skirt"):
		return models.CategorySkirt
	case strings.Contains(pt, "jacket"):
		return models.CategoryJacket
	case strings.Contains(pt, "coat"):
		return models.CategoryCoat
	case strings.Contains(pt, "shoe") || strings.Contains(pt, "footwear") || strings.Contains(pt, "boot"):
		return models.CategoryShoes
	case strings.Contains(pt, "swim"):
		return models.CategorySwimwear
	case strings.Contains(pt, "active") || strings.Contains(pt, "athletic"):
		return models.CategoryActivewear
	case strings.Contains(pt, "accessor") || strings.Contains(pt, "bow") || strings.Contains(pt, "bag") || strings.Contains(pt, "hat"):
		return models.CategoryAccessories
	default:
		return ""
	}
}
