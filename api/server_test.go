package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendmuse/trendmuse/internal/models"
	"github.com/trendmuse/trendmuse/internal/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	items := []models.FashionItem{
		{
			ID: "a1", Name: "Smocked Linen Dress", Price: 58.50, Currency: "USD",
			ProductURL: "https://classicwhimsy.com/products/smocked-linen-dress",
			Category:   models.CategoryDress, Brand: "Classic Whimsy", Source: "classicwhimsy.com",
			Colors: []string{"pink"}, Tags: []string{"smocked"}, Rating: 4.8, ReviewsCount: 120,
			ScrapedAt: time.Now().UTC(),
		},
		{
			ID: "a2", Name: "Gingham Bow Top", Price: 24.00, OriginalPrice: 32.00, Currency: "USD",
			ProductURL: "https://jamiekay.com/products/gingham-bow-top",
			Category:   models.CategoryTop, Brand: "Jamie Kay", Source: "jamiekay.com",
			Colors: []string{"blue"}, ScrapedAt: time.Now().UTC(),
		},
	}
	_, err = st.UpsertBatch(items)
	require.NoError(t, err)

	ts := httptest.NewServer(NewServer(st).Handler(""))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestBearerAuth(t *testing.T) {
	st, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ts := httptest.NewServer(NewServer(st).Handler("sekret"))
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/stats", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer sekret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Health stays open without a token.
	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)
	var out map[string]string
	code := getJSON(t, ts.URL+"/healthz", &out)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", out["status"])
}

func TestStatsEndpoint(t *testing.T) {
	ts := testServer(t)
	var out store.Stats
	code := getJSON(t, ts.URL+"/api/stats", &out)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, out.TotalProducts)
	assert.Equal(t, 1, out.OnSale)
}

func TestProductsEndpointFilters(t *testing.T) {
	ts := testServer(t)

	var out struct {
		Total    int                  `json:"total"`
		Products []models.FashionItem `json:"products"`
	}
	code := getJSON(t, ts.URL+"/api/products?source=jamiekay.com", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "Gingham Bow Top", out.Products[0].Name)
	assert.Positive(t, out.Products[0].TrendScore, "products come back scored")

	code = getJSON(t, ts.URL+"/api/products?on_sale=true", &out)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, out.Total)
}

func TestAggregatesEndpoint(t *testing.T) {
	ts := testServer(t)

	var out struct {
		Dimension  string `json:"dimension"`
		Aggregates []struct {
			Key        string  `json:"key"`
			Count      int     `json:"count"`
			Percentage float64 `json:"percentage"`
		} `json:"aggregates"`
	}
	code := getJSON(t, ts.URL+"/api/aggregates/category", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out.Aggregates, 2)

	var sum float64
	for _, a := range out.Aggregates {
		sum += a.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.1)

	var errOut map[string]string
	code = getJSON(t, ts.URL+"/api/aggregates/bogus", &errOut)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSummaryEndpoint(t *testing.T) {
	ts := testServer(t)
	var out map[string]any
	code := getJSON(t, ts.URL+"/api/summary", &out)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, out["total_products"])
	assert.Contains(t, out, "aggregates")
}

func TestDashboardEndpoint(t *testing.T) {
	ts := testServer(t)
	var out struct {
		TopTrends []struct {
			Name   string  `json:"name"`
			Score  float64 `json:"score"`
			Source string  `json:"source"`
		} `json:"top_trends"`
		ColorPalette []any `json:"color_palette"`
	}
	code := getJSON(t, ts.URL+"/api/discovery/dashboard", &out)
	assert.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, out.TopTrends)
	assert.NotEmpty(t, out.ColorPalette)

	for i := 1; i < len(out.TopTrends); i++ {
		assert.GreaterOrEqual(t, out.TopTrends[i-1].Score, out.TopTrends[i].Score)
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts := testServer(t)

	var out struct {
		Total   int `json:"total"`
		Results []struct {
			Name   string `json:"name"`
			Source string `json:"source"`
		} `json:"results"`
	}
	code := getJSON(t, ts.URL+"/api/discovery/search?q=linen", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Positive(t, out.Total)

	names := map[string]bool{}
	for _, r := range out.Results {
		names[r.Name] = true
	}
	assert.True(t, names["Linen"], "catalogue entry matches")

	var errOut map[string]string
	code = getJSON(t, ts.URL+"/api/discovery/search?q=x", &errOut)
	assert.Equal(t, http.StatusBadRequest, code)
}
