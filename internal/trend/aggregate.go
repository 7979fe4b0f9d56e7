package trend

import (
	"sort"

	"github.com/trendmuse/trendmuse/internal/models"
)

// Dimension selects the grouping key for aggregation.
type Dimension string

const (
	ByCategory Dimension = "category"
	ByColor    Dimension = "color"
	ByTag      Dimension = "tag"
	ByBrand    Dimension = "brand"
	BySource   Dimension = "source"
)

// Dimensions lists the supported grouping keys.
func Dimensions() []Dimension {
	return []Dimension{ByCategory, ByColor, ByTag, ByBrand, BySource}
}

// Aggregate is one group's summary for a dimension: how many members it
// has, its share of all memberships in that dimension, and the unweighted
// mean trend score of its members.
type Aggregate struct {
	Key           string  `json:"key"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
	AvgTrendScore float64 `json:"avg_trend_score"`
}

// AggregateBy groups scored items by the given dimension. Items must
// already carry TrendScore (see Policy.ScoreAll). Multi-valued dimensions
// (color, tag) count an item once per value, so percentages are shares of
// memberships and still sum to 100 within the dimension.
//
// Ordering is deterministic: count descending, then average trend score
// descending, then key ascending.
func AggregateBy(items []models.FashionItem, dim Dimension) []Aggregate {
	counts := make(map[string]int)
	scoreSums := make(map[string]float64)
	total := 0

	for _, item := range items {
		for _, key := range keysFor(item, dim) {
			counts[key]++
			scoreSums[key] += item.TrendScore
			total++
		}
	}
	if total == 0 {
		return []Aggregate{}
	}

	out := make([]Aggregate, 0, len(counts))
	for key, count := range counts {
		out = append(out, Aggregate{
			Key:           key,
			Count:         count,
			Percentage:    round1(float64(count) / float64(total) * 100),
			AvgTrendScore: round1(scoreSums[key] / float64(count)),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].AvgTrendScore != out[j].AvgTrendScore {
			return out[i].AvgTrendScore > out[j].AvgTrendScore
		}
		return out[i].Key < out[j].Key
	})

	return out
}

func keysFor(item models.FashionItem, dim Dimension) []string {
	switch dim {
	case ByCategory:
		return oneKey(item.Category)
	case ByBrand:
		return oneKey(item.Brand)
	case BySource:
		return oneKey(item.Source)
	case ByColor:
		return item.Colors
	case ByTag:
		return item.Tags
	default:
		return nil
	}
}

func oneKey(k string) []string {
	if k == "" {
		return nil
	}
	return []string{k}
}
