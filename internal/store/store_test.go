package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendmuse/trendmuse/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testItem(id, url string) models.FashionItem {
	return models.FashionItem{
		ID:         id,
		Name:       "Smocked Midi Dress",
		Price:      58.50,
		Currency:   "USD",
		ProductURL: url,
		Category:   models.CategoryDress,
		Brand:      "Classic Whimsy",
		Source:     "classicwhimsy.com",
		ScrapedAt:  time.Now().UTC(),
	}
}

func TestUpsertItemCreatesThenUpdates(t *testing.T) {
	s := testStore(t)

	item := testItem("a1", "https://classicwhimsy.com/products/smocked-midi")
	created, err := s.UpsertItem(item)
	require.NoError(t, err)
	assert.True(t, created)

	// Same URL with a fresh scrape ID refreshes the existing row.
	item.ID = "a2"
	item.Price = 49.00
	created, err = s.UpsertItem(item)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.ItemByURL(item.ProductURL)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ID, "row ID stays stable across scrapes")
	assert.Equal(t, 49.00, got.Price)

	n, err := s.Count(Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPriceHistoryRecordsChanges(t *testing.T) {
	s := testStore(t)
	url := "https://jamiekay.com/products/linen-dress"

	item := testItem("p1", url)
	item.Price = 89.00
	_, err := s.UpsertItem(item)
	require.NoError(t, err)

	// Unchanged price adds no history row.
	_, err = s.UpsertItem(item)
	require.NoError(t, err)

	item.Price = 71.20
	item.OriginalPrice = 89.00
	_, err = s.UpsertItem(item)
	require.NoError(t, err)

	recs, err := s.PriceHistory(url)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 89.00, recs[0].Price)
	assert.Equal(t, 71.20, recs[1].Price)
	assert.Equal(t, 89.00, recs[1].OriginalPrice)
}

func TestItemsFilter(t *testing.T) {
	s := testStore(t)

	a := testItem("f1", "https://classicwhimsy.com/products/a")
	b := testItem("f2", "https://jamiekay.com/products/b")
	b.Source = "jamiekay.com"
	b.Category = models.CategoryTop
	b.Price = 24.00
	c := testItem("f3", "https://classicwhimsy.com/products/c")
	c.Price = 40.00
	c.OriginalPrice = 60.00

	_, err := s.UpsertBatch([]models.FashionItem{a, b, c})
	require.NoError(t, err)

	bySource, err := s.Items(Filter{Source: "jamiekay.com"})
	require.NoError(t, err)
	require.Len(t, bySource, 1)
	assert.Equal(t, "f2", bySource[0].ID)

	onSale, err := s.Items(Filter{OnSale: true})
	require.NoError(t, err)
	require.Len(t, onSale, 1)
	assert.Equal(t, "f3", onSale[0].ID)

	priced, err := s.Items(Filter{MinPrice: 30, MaxPrice: 60})
	require.NoError(t, err)
	assert.Len(t, priced, 2)

	limited, err := s.Items(Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSessions(t *testing.T) {
	s := testStore(t)

	id, err := s.StartSession("classicwhimsy.com", "https://classicwhimsy.com")
	require.NoError(t, err)

	err = s.CompleteSession(id, UpsertCounts{Found: 12, New: 5, Updated: 7}, "")
	require.NoError(t, err)

	sessions, err := s.RecentSessions(5)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "completed", sessions[0].Status)
	assert.Equal(t, 5, sessions[0].ItemsNew)
	assert.NotNil(t, sessions[0].CompletedAt)

	id2, err := s.StartSession("jamiekay.com", "")
	require.NoError(t, err)
	require.NoError(t, s.CompleteSession(id2, UpsertCounts{}, "connection refused"))

	sessions, err = s.RecentSessions(5)
	require.NoError(t, err)
	assert.Equal(t, "failed", sessions[0].Status)
	assert.Equal(t, "connection refused", sessions[0].Error)
}

func TestBestsellerRankMoves(t *testing.T) {
	s := testStore(t)
	src := "classicwhimsy.com"

	first := []models.FashionItem{
		testItem("r1", "https://classicwhimsy.com/products/one"),
		testItem("r2", "https://classicwhimsy.com/products/two"),
		testItem("r3", "https://classicwhimsy.com/products/three"),
	}
	moves, err := s.RecordBestsellers(src, first)
	require.NoError(t, err)
	require.Len(t, moves, 3)
	assert.True(t, moves[0].New)
	assert.Equal(t, 1, moves[0].Rank)

	// Two climbs to first, one drops, a newcomer appears.
	second := []models.FashionItem{
		first[1],
		first[0],
		testItem("r4", "https://classicwhimsy.com/products/four"),
	}
	moves, err = s.RecordBestsellers(src, second)
	require.NoError(t, err)
	require.Len(t, moves, 3)

	assert.Equal(t, 1, moves[0].Rank)
	assert.Equal(t, 2, moves[0].PrevRank)
	assert.Equal(t, 1, moves[0].Delta)

	assert.Equal(t, -1, moves[1].Delta)
	assert.True(t, moves[2].New)

	latest, err := s.LatestBestsellers(src)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, "https://classicwhimsy.com/products/two", latest[0].ProductURL)
}

func TestStats(t *testing.T) {
	s := testStore(t)

	a := testItem("s1", "https://classicwhimsy.com/products/a")
	b := testItem("s2", "https://jamiekay.com/products/b")
	b.Source = "jamiekay.com"
	b.Category = models.CategoryTop
	b.OriginalPrice = 80.00
	_, err := s.UpsertBatch([]models.FashionItem{a, b})
	require.NoError(t, err)

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalProducts)
	assert.Equal(t, 1, st.BySource["classicwhimsy.com"])
	assert.Equal(t, 1, st.BySource["jamiekay.com"])
	assert.Equal(t, 1, st.ByCategory[models.CategoryDress])
	assert.Equal(t, 1, st.OnSale)
	assert.Equal(t, 2, st.NewToday)
	assert.InDelta(t, 58.50, st.AvgPrice, 0.001)
	assert.NotNil(t, st.LastScrapedAt)
}
