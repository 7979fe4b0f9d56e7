package signals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendmuse/trendmuse/internal/models"
)

func TestCatalogueGroups(t *testing.T) {
	cat := Catalogue()
	require.Len(t, cat, 4)
	assert.Len(t, cat[GroupColors], 6)

	for _, group := range Groups() {
		assert.NotEmpty(t, cat[group], group)
	}
}

func TestHotAndRising(t *testing.T) {
	entries := HotAndRising(80)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.GreaterOrEqual(t, e.Score, 80.0)
		assert.Contains(t, []models.TrendLevel{models.LevelHot, models.LevelRising}, e.Direction)
	}
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Score, entries[i].Score)
	}
}

func TestSearchCatalogue(t *testing.T) {
	hits := SearchCatalogue("LINEN")
	require.NotEmpty(t, hits)
	assert.Equal(t, "Linen", hits[0].Name)

	assert.Empty(t, SearchCatalogue(""))
	assert.Empty(t, SearchCatalogue("zzzzz"))

	// Description text matches too.
	descHits := SearchCatalogue("leopard")
	require.NotEmpty(t, descHits)
	assert.Equal(t, "Mob Wife Aesthetic", descHits[0].Name)
}

func TestKeywordInterestDeterministicWithinWeek(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	a := KeywordInterest([]string{"linen pants", "corset top"}, 12, now)
	b := KeywordInterest([]string{"linen pants", "corset top"}, 12, now.Add(2*time.Hour))
	assert.Equal(t, a, b)

	require.Len(t, a, 2)
	for _, sig := range a {
		require.Len(t, sig.Series, 12)
		for _, pt := range sig.Series {
			assert.GreaterOrEqual(t, pt.Value, 10)
			assert.LessOrEqual(t, pt.Value, 100)
		}
		assert.Equal(t, float64(sig.Series[11].Value), sig.Score)
	}

	// Sorted by current interest, strongest first.
	assert.GreaterOrEqual(t, a[0].Score, a[1].Score)
}

func TestInterestDirection(t *testing.T) {
	assert.Equal(t, models.LevelHot, interestDirection(90, 15))
	assert.Equal(t, models.LevelRising, interestDirection(60, 25))
	assert.Equal(t, models.LevelDeclining, interestDirection(40, -30))
	assert.Equal(t, models.LevelStable, interestDirection(70, 3))
}

func TestCountMentions(t *testing.T) {
	page := `<html><body>
	<nav>linen linen linen</nav>
	<article>
	  <h1>Butter yellow is the color of the season</h1>
	  <p>Designers paired butter yellow linen with crochet details and bows.</p>
	  <p>Expect more linen and sheer layering this summer.</p>
	</article>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	mentions := CountMentions(doc)
	require.NotEmpty(t, mentions)

	counts := map[string]int{}
	for _, m := range mentions {
		counts[m.Term] = m.Count
	}
	assert.Equal(t, 2, counts["butter yellow"])
	assert.Equal(t, 2, counts["linen"], "nav text does not count")
	assert.Equal(t, 1, counts["crochet"])
	assert.Equal(t, 1, counts["sheer"])

	// Strongest mention first.
	assert.Equal(t, 2, mentions[0].Count)
}

func TestScanAllMergesPages(t *testing.T) {
	pageA := `<html><body><article><p>Linen and more linen, plus crochet.</p></article></body></html>`
	pageB := `<html><body><article><p>Crochet bags with bows everywhere.</p></article></body></html>`

	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(pageA)) })
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(pageB)) })
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	sc := NewEditorialScanner(ts.Client())
	sigs, err := sc.ScanAll(context.Background(), []string{ts.URL + "/a", ts.URL + "/b", ts.URL + "/missing"}, 2)
	require.NoError(t, err)

	byName := map[string]models.ExternalSignal{}
	for _, s := range sigs {
		byName[s.Name] = s
	}
	// crochet appears once on each page; counts sum across pages.
	assert.Equal(t, 10.0, byName["crochet"].Score)
	assert.Equal(t, 10.0, byName["linen"].Score)
	assert.Equal(t, 5.0, byName["bows"].Score)
	assert.Equal(t, "editorial", byName["linen"].Source)
}

func TestScanAllAllPagesFail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(ts.Close)

	sc := NewEditorialScanner(ts.Client())
	_, err := sc.ScanAll(context.Background(), []string{ts.URL + "/x"}, 0)
	assert.Error(t, err)
}

func TestMentionSignals(t *testing.T) {
	sigs := MentionSignals([]Mention{
		{Term: "linen", Group: "fabric", Count: 10},
		{Term: "bows", Group: "detail", Count: 30},
	}, "vogue.com")

	require.Len(t, sigs, 2)
	assert.Equal(t, 50.0, sigs[0].Score)
	assert.Equal(t, 100.0, sigs[1].Score, "saturates at the cap")
	assert.Equal(t, "vogue.com", sigs[0].Source)
	assert.Equal(t, models.LevelStable, sigs[0].Direction)
}
