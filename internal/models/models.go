package models

import "time"

// TrendLevel buckets a trend score into a coarse direction label.
type TrendLevel string

const (
	LevelHot       TrendLevel = "hot"
	LevelRising    TrendLevel = "rising"
	LevelStable    TrendLevel = "stable"
	LevelDeclining TrendLevel = "declining"
)

// Canonical category values. Category stays an open string so that
// site-specific product types survive, but scrapers map onto these
// when they can.
const (
	CategoryDress       = "dress"
	CategoryTop         = "top"
	CategoryPants       = "pants"
	CategorySkirt       = "skirt"
	CategoryJacket      = "jacket"
	CategoryCoat        = "coat"
	CategoryShoes       = "shoes"
	CategoryAccessories = "accessories"
	CategorySwimwear    = "swimwear"
	CategoryActivewear  = "activewear"
)

// FashionItem is one scraped product in canonical form.
// TrendScore and TrendLevel are derived from the other fields and can be
// recomputed at any time; they are cached here for display only.
type FashionItem struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	OriginalPrice float64    `json:"original_price,omitempty"`
	Currency      string     `json:"currency"`
	ImageURL      string     `json:"image_url,omitempty"`
	ProductURL    string     `json:"product_url" gorm:"uniqueIndex"`
	Category      string     `json:"category,omitempty"`
	Brand         string     `json:"brand,omitempty"`
	Source        string     `json:"source"`
	ReviewsCount  int        `json:"reviews_count,omitempty"`
	Rating        float64    `json:"rating,omitempty"`
	SalesCount    int        `json:"sales_count,omitempty"`
	Colors        []string   `json:"colors,omitempty" gorm:"serializer:json"`
	Tags          []string   `json:"tags,omitempty" gorm:"serializer:json"`
	TrendScore    float64    `json:"trend_score"`
	TrendLevel    TrendLevel `json:"trend_level"`
	ScrapedAt     time.Time  `json:"scraped_at"`
}

// OnSale reports whether the item carries a real markdown.
func (f FashionItem) OnSale() bool {
	return f.OriginalPrice > f.Price && f.Price > 0
}

// ScanResult is what a site scan returns to its caller.
type ScanResult struct {
	SourceURL  string        `json:"source_url"`
	Items      []FashionItem `json:"items"`
	TotalFound int           `json:"total_found"`
	Duration   time.Duration `json:"scan_duration"`
	Strategy   string        `json:"strategy,omitempty"`
}

// InterestPoint is one week of keyword interest.
type InterestPoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// ExternalSignal is a trend observation that is not derived from a scraped
// product: a keyword interest series, an editorial mention count, or a
// best-seller ranking entry.
type ExternalSignal struct {
	Name      string          `json:"name"`
	Score     float64         `json:"score"`
	Direction TrendLevel      `json:"direction"`
	Source    string          `json:"source"`
	ChangePct float64         `json:"change_pct,omitempty"`
	Series    []InterestPoint `json:"weekly_data,omitempty"`
}
