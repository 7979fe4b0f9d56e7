package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/trendmuse/trendmuse/internal/httputil"
	"github.com/trendmuse/trendmuse/internal/models"
	"github.com/trendmuse/trendmuse/internal/normalize"
	"github.com/trendmuse/trendmuse/internal/platform"
)

// JSONLDStrategy fetches raw HTML and extracts schema.org Product data
// from JSON-LD script tags. Works on themes that block products.json.
type JSONLDStrategy struct {
	client *http.Client
}

func NewJSONLDStrategy(client *http.Client) *JSONLDStrategy {
	return &JSONLDStrategy{client: client}
}

func (s *JSONLDStrategy) Name() string { return "jsonld" }

func (s *JSONLDStrategy) Execute(ctx context.Context, req platform.Request) (*platform.Result, error) {
	pageURL := req.URL
	if req.Type == platform.BestSellersRequest && collectionOf(pageURL) == "" {
		pageURL = baseURLOf(req.URL) + "/collections/" + configFor(req.URL).BestSellerCollection
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range httputil.BrowserHeaders() {
		httpReq.Header[k] = v
	}

	resp, err := httputil.DoWithRetry(s.client, httpReq, 2)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	items := ExtractJSONLD(string(body), req.URL)
	if len(items) == 0 {
		return nil, fmt.Errorf("no JSON-LD product data in %s", pageURL)
	}
	if req.MaxItems > 0 && len(items) > req.MaxItems {
		items = items[:req.MaxItems]
	}

	return &platform.Result{
		Items:      items,
		TotalFound: len(items),
		Strategy:   s.Name(),
	}, nil
}

// ExtractJSONLD walks an HTML document and collects every schema.org
// Product found in application/ld+json script tags.
func ExtractJSONLD(htmlContent, sourceURL string) []models.FashionItem {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var fields []normalize.Fields
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			for _, attr := range n.Attr {
				if attr.Key == "type" && attr.Val == "application/ld+json" && n.FirstChild != nil {
					fields = append(fields, parseJSONLD(n.FirstChild.Data, sourceURL)...)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	items, _ := normalize.Batch(fields, time.Now())
	return items
}

type ldItem struct {
	Type            string      `json:"@type"`
	Name            string      `json:"name"`
	URL             string      `json:"url"`
	Image           any         `json:"image"`
	Brand           *ldBrand    `json:"brand"`
	Offers          *ldOffer    `json:"offers"`
	AggregateRating *ldRating   `json:"aggregateRating"`
	ItemListElement []ldElement `json:"itemListElement"`
}

type ldBrand struct {
	Name string `json:"name"`
}

type ldOffer struct {
	Price         json.Number `json:"price"`
	PriceCurrency string      `json:"priceCurrency"`
}

type ldRating struct {
	RatingValue json.Number `json:"ratingValue"`
	ReviewCount json.Number `json:"reviewCount"`
}

type ldElement struct {
	Item *ldItem `json:"item"`
}

func parseJSONLD(data, sourceURL string) []normalize.Fields {
	data = strings.TrimSpace(data)

	var item ldItem
	if err := json.Unmarshal([]byte(data), &item); err == nil {
		if f, ok := ldFields(&item, sourceURL); ok {
			return []normalize.Fields{f}
		}
		if item.Type == "ItemList" {
			var out []normalize.Fields
			for _, elem := range item.ItemListElement {
				if elem.Item != nil {
					if f, ok := ldFields(elem.Item, sourceURL); ok {
						out = append(out, f)
					}
				}
			}
			return out
		}
	}

	var items []ldItem
	if err := json.Unmarshal([]byte(data), &items); err == nil {
		var out []normalize.Fields
		for i := range items {
			if f, ok := ldFields(&items[i], sourceURL); ok {
				out = append(out, f)
			}
		}
		return out
	}

	return nil
}

func ldFields(item *ldItem, sourceURL string) (normalize.Fields, bool) {
	if item.Type != "Product" {
		return normalize.Fields{}, false
	}

	f := normalize.Fields{
		Name:       item.Name,
		ProductURL: item.URL,
		Source:     domainOf(sourceURL),
		Brand:      configFor(sourceURL).Name,
	}
	if item.Brand != nil && item.Brand.Name != "" {
		f.Brand = item.Brand.Name
	}
	if item.Offers != nil {
		if price, err := item.Offers.Price.Float64(); err == nil {
			f.Price = price
		}
		f.Currency = item.Offers.PriceCurrency
	}
	if item.AggregateRating != nil {
		if r, err := item.AggregateRating.RatingValue.Float64(); err == nil {
			f.Rating = &r
		}
		if rc, err := item.AggregateRating.ReviewCount.Int64(); err == nil {
			f.ReviewsCount = int(rc)
		}
	}
	switch img := item.Image.(type) {
	case string:
		f.ImageURL = img
	case []any:
		if len(img) > 0 {
			if s, ok := img[0].(string); ok {
				f.ImageURL = s
			}
		}
	}

	return f, true
}
