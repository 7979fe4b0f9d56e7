// Package normalize turns raw scraped field sets into canonical
// FashionItem records. Each scraper produces a Fields value in whatever
// shape its site allows; Normalize fills defaults, validates the few
// fields that cannot be defaulted, and never touches anything else.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trendmuse/trendmuse/internal/models"
)

// neutralRating is used when a site exposes no rating at all. A missing
// rating says nothing about the product, so it maps to the midpoint
// rather than to the worst possible score.
const neutralRating = 2.5

// Fields is the raw, per-site field set before normalization.
// Pointer fields distinguish "absent" from "zero": a store that shows no
// rating widget is not a store full of zero-star products.
type Fields struct {
	ID            string
	Name          string
	Price         float64
	OriginalPrice float64
	Currency      string
	ImageURL      string
	ProductURL    string
	Category      string
	Brand         string
	Source        string
	ReviewsCount  int
	Rating        *float64
	SalesCount    int
	Colors        []string
	Tags          []string
	ScrapedAt     time.Time
}

// ValidationError reports a raw record that cannot be normalized.
// The record is skipped; batch processing continues.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product record: %s %s", e.Field, e.Reason)
}

// Normalize produces a complete FashionItem from raw fields. It is a pure
// function of its inputs: now is injected so that re-running a scrape
// fixture yields identical records.
func Normalize(f Fields, now time.Time) (models.FashionItem, error) {
	if strings.TrimSpace(f.ProductURL) == "" {
		return models.FashionItem{}, &ValidationError{Field: "product_url", Reason: "is required"}
	}
	if f.Price < 0 {
		return models.FashionItem{}, &ValidationError{Field: "price", Reason: "is negative"}
	}
	if f.OriginalPrice > 0 && f.OriginalPrice < f.Price {
		return models.FashionItem{}, &ValidationError{Field: "original_price", Reason: "is below current price"}
	}
	if f.ReviewsCount < 0 || f.SalesCount < 0 {
		return models.FashionItem{}, &ValidationError{Field: "counts", Reason: "are negative"}
	}

	item := models.FashionItem{
		ID:            f.ID,
		Name:          strings.TrimSpace(f.Name),
		Price:         f.Price,
		OriginalPrice: f.OriginalPrice,
		Currency:      f.Currency,
		ImageURL:      f.ImageURL,
		ProductURL:    f.ProductURL,
		Category:      strings.ToLower(strings.TrimSpace(f.Category)),
		Brand:         strings.TrimSpace(f.Brand),
		Source:        strings.TrimSpace(f.Source),
		ReviewsCount:  f.ReviewsCount,
		SalesCount:    f.SalesCount,
		Colors:        lowered(f.Colors),
		Tags:          lowered(f.Tags),
		ScrapedAt:     f.ScrapedAt,
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Name == "" {
		item.Name = "unknown"
	}
	if item.Currency == "" {
		item.Currency = "USD"
	}
	if item.Category == "" {
		item.Category = "other"
	}
	if item.Brand == "" {
		if item.Source != "" {
			item.Brand = item.Source
		} else {
			item.Brand = "unknown"
		}
	}
	if item.Source == "" {
		item.Source = "unknown"
	}
	if f.Rating == nil {
		item.Rating = neutralRating
	} else {
		item.Rating = clampRating(*f.Rating)
	}
	if item.ScrapedAt.IsZero() {
		item.ScrapedAt = now
	}

	return item, nil
}

// Batch normalizes a slice of raw records, skipping invalid ones.
// The returned errors line up with the skipped records only; a bad record
// never aborts the rest of the batch.
func Batch(fs []Fields, now time.Time) ([]models.FashionItem, []error) {
	items := make([]models.FashionItem, 0, len(fs))
	var errs []error
	for i, f := range fs {
		item, err := Normalize(f, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		items = append(items, item)
	}
	return items, errs
}

func clampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

func lowered(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
