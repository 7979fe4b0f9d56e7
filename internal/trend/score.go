// Package trend holds the scoring, aggregation, and multi-source merge
// logic behind the dashboard. Everything here is a pure computation over
// already-materialized records: no I/O, no clocks, no hidden state.
package trend

import (
	"fmt"
	"math"
	"time"

	"github.com/trendmuse/trendmuse/internal/models"
)

// Weights is the tunable policy surface of the scorer. The defaults are
// carried over from the heuristics the scrapers were calibrated against;
// they must sum to 1.0.
type Weights struct {
	Reviews  float64
	Rating   float64
	Sales    float64
	Discount float64
	Recency  float64
}

// Policy bundles scoring weights, saturation constants, and the fixed
// level thresholds. Thresholds are policy, not derived statistics.
type Policy struct {
	Weights Weights

	// ReviewSaturation and SalesSaturation clamp the volume signals so a
	// single viral product cannot dominate the scale.
	ReviewSaturation int
	SalesSaturation  int

	// RecencyWindow is how long a scrape keeps contributing freshness.
	RecencyWindow time.Duration

	HotThreshold    float64
	RisingThreshold float64
	StableThreshold float64
}

// DefaultPolicy returns the stock scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{
			Reviews:  0.25,
			Rating:   0.20,
			Sales:    0.30,
			Discount: 0.10,
			Recency:  0.15,
		},
		ReviewSaturation: 1000,
		SalesSaturation:  5000,
		RecencyWindow:    30 * 24 * time.Hour,
		HotThreshold:     85,
		RisingThreshold:  70,
		StableThreshold:  50,
	}
}

// Validate checks that the weights form a proper weighted average.
func (p Policy) Validate() error {
	sum := p.Weights.Reviews + p.Weights.Rating + p.Weights.Sales + p.Weights.Discount + p.Weights.Recency
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("trend weights must sum to 1.0, got %.4f", sum)
	}
	if p.ReviewSaturation <= 0 || p.SalesSaturation <= 0 {
		return fmt.Errorf("saturation constants must be positive")
	}
	if p.RecencyWindow <= 0 {
		return fmt.Errorf("recency window must be positive")
	}
	return nil
}

// Score computes the 0-100 trend score and its level for one item.
// now is an explicit input so re-scoring the same record with the same
// reference time always yields the same result.
func (p Policy) Score(item models.FashionItem, now time.Time) (float64, models.TrendLevel) {
	reviews := clamp01(float64(item.ReviewsCount) / float64(p.ReviewSaturation))
	rating := clamp01(item.Rating / 5.0)
	sales := clamp01(float64(item.SalesCount) / float64(p.SalesSaturation))

	discount := 0.0
	if item.OriginalPrice > 0 && item.OriginalPrice > item.Price {
		discount = clamp01((item.OriginalPrice - item.Price) / item.OriginalPrice)
	}

	recency := 0.0
	if age := now.Sub(item.ScrapedAt); age < p.RecencyWindow {
		recency = clamp01(1.0 - float64(age)/float64(p.RecencyWindow))
	}

	score := 100 * (reviews*p.Weights.Reviews +
		rating*p.Weights.Rating +
		sales*p.Weights.Sales +
		discount*p.Weights.Discount +
		recency*p.Weights.Recency)

	score = round1(score)
	return score, p.Level(score)
}

// Level maps a score onto its direction bucket using the fixed thresholds.
func (p Policy) Level(score float64) models.TrendLevel {
	switch {
	case score >= p.HotThreshold:
		return models.LevelHot
	case score >= p.RisingThreshold:
		return models.LevelRising
	case score >= p.StableThreshold:
		return models.LevelStable
	default:
		return models.LevelDeclining
	}
}

// ScoreAll returns a copy of items with TrendScore and TrendLevel filled in.
func (p Policy) ScoreAll(items []models.FashionItem, now time.Time) []models.FashionItem {
	out := make([]models.FashionItem, len(items))
	for i, item := range items {
		item.TrendScore, item.TrendLevel = p.Score(item, now)
		out[i] = item
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
