package trend

import (
	"sort"
	"strings"

	"github.com/trendmuse/trendmuse/internal/models"
)

// ScoredEntry is one named trend observation on the shared 0-100 scale.
type ScoredEntry struct {
	Name      string            `json:"name"`
	Score     float64           `json:"score"`
	Direction models.TrendLevel `json:"direction"`
}

// Source is one labelled stream of entries handed to Merge.
type Source struct {
	Label   string
	Entries []ScoredEntry
}

// MergedEntry is a ScoredEntry tagged with the source it came from.
type MergedEntry struct {
	Name      string            `json:"name"`
	Score     float64           `json:"score"`
	Direction models.TrendLevel `json:"direction"`
	Source    string            `json:"source"`

	srcOrder int
}

// Merge flattens heterogeneous trend sources into one ranked view.
// Entries must already be on the common scale; use the From* helpers to
// rescale each source kind. Equal scores keep source order, then sort by
// name ascending.
func Merge(sources []Source) []MergedEntry {
	var out []MergedEntry
	for i, src := range sources {
		for _, e := range src.Entries {
			out = append(out, MergedEntry{
				Name:      e.Name,
				Score:     round1(e.Score),
				Direction: e.Direction,
				Source:    src.Label,
				srcOrder:  i,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].srcOrder != out[j].srcOrder {
			return out[i].srcOrder < out[j].srcOrder
		}
		return out[i].Name < out[j].Name
	})

	return out
}

// Search returns merged entries whose name contains the query,
// case-insensitively. No fuzzy matching, no relevance ranking: hits keep
// their merged order.
func Search(query string, entries []MergedEntry) []MergedEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []MergedEntry{}
	}
	out := []MergedEntry{}
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

// FromAggregates adapts dimension aggregates: the average trend score is
// already on the 0-100 scale, direction comes from the level thresholds.
func FromAggregates(label string, aggs []Aggregate, p Policy) Source {
	entries := make([]ScoredEntry, 0, len(aggs))
	for _, a := range aggs {
		entries = append(entries, ScoredEntry{
			Name:      a.Key,
			Score:     a.AvgTrendScore,
			Direction: p.Level(a.AvgTrendScore),
		})
	}
	return Source{Label: label, Entries: entries}
}

// FromSignals adapts external signals, whose scores are used as-is
// (keyword interest is already reported on a 0-100 scale).
func FromSignals(label string, signals []models.ExternalSignal) Source {
	entries := make([]ScoredEntry, 0, len(signals))
	for _, s := range signals {
		entries = append(entries, ScoredEntry{
			Name:      s.Name,
			Score:     s.Score,
			Direction: s.Direction,
		})
	}
	return Source{Label: label, Entries: entries}
}

// FromBestsellers adapts a best-seller list of K items: rank r maps to
// 100*(K-r+1)/K, so rank 1 scores 100 and rank K scores 100/K.
func FromBestsellers(label string, ranked []models.FashionItem, p Policy) Source {
	k := len(ranked)
	entries := make([]ScoredEntry, 0, k)
	for i, item := range ranked {
		score := 100 * float64(k-i) / float64(k)
		entries = append(entries, ScoredEntry{
			Name:      item.Name,
			Score:     score,
			Direction: p.Level(score),
		})
	}
	return Source{Label: label, Entries: entries}
}
