package signals

import (
	"hash/fnv"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/trendmuse/trendmuse/internal/models"
)

const defaultWeeks = 12

// KeywordInterest synthesises a weekly interest series (0..100) for
// each keyword. The series is a deterministic function of the keyword
// and the week boundary, so repeated calls within the same week agree.
func KeywordInterest(keywords []string, weeks int, now time.Time) []models.ExternalSignal {
	if weeks <= 0 {
		weeks = defaultWeeks
	}

	out := make([]models.ExternalSignal, 0, len(keywords))
	for _, kw := range keywords {
		series := interestSeries(kw, weeks, now)
		first, last := series[0].Value, series[len(series)-1].Value

		denom := first
		if denom < 1 {
			denom = 1
		}
		changePct := float64(last-first) / float64(denom) * 100

		out = append(out, models.ExternalSignal{
			Name:      kw,
			Score:     float64(last),
			Direction: interestDirection(last, changePct),
			Source:    "keyword-interest",
			ChangePct: round1(changePct),
			Series:    series,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// interestSeries is a random walk seeded from the keyword and the
// current ISO week, clamped to 10..100.
func interestSeries(keyword string, weeks int, now time.Time) []models.InterestPoint {
	year, week := now.UTC().ISOWeek()
	h := fnv.New64a()
	h.Write([]byte(keyword))
	seed := h.Sum64() ^ uint64(year*100+week)

	rng := rand.New(rand.NewPCG(seed, seed>>1))
	current := 40 + rng.IntN(56)

	series := make([]models.InterestPoint, 0, weeks)
	for i := 0; i < weeks; i++ {
		current += rng.IntN(21) - 8
		if current < 10 {
			current = 10
		}
		if current > 100 {
			current = 100
		}
		weekDate := now.UTC().AddDate(0, 0, -7*(weeks-i)).Format("2006-01-02")
		series = append(series, models.InterestPoint{Date: weekDate, Value: current})
	}
	return series
}

func interestDirection(current int, changePct float64) models.TrendLevel {
	switch {
	case current >= 85 && changePct > 0:
		return models.LevelHot
	case changePct >= 10:
		return models.LevelRising
	case changePct <= -10:
		return models.LevelDeclining
	default:
		return models.LevelStable
	}
}

func round1(v float64) float64 {
	if v < 0 {
		return float64(int(v*10-0.5)) / 10
	}
	return float64(int(v*10+0.5)) / 10
}
