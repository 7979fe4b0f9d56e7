package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendmuse/trendmuse/internal/models"
)

func scoredItem(category string, score float64, colors ...string) models.FashionItem {
	return models.FashionItem{
		Category:   category,
		Brand:      "brand",
		Source:     "example.com",
		Colors:     colors,
		TrendScore: score,
	}
}

func TestAggregateByEmptyInput(t *testing.T) {
	assert.Empty(t, AggregateBy(nil, ByCategory))
	assert.Empty(t, AggregateBy([]models.FashionItem{}, ByColor))
}

func TestAggregateByCategory(t *testing.T) {
	items := []models.FashionItem{
		scoredItem(models.CategoryDress, 80),
		scoredItem(models.CategoryDress, 60),
		scoredItem(models.CategoryTop, 90),
		scoredItem(models.CategoryPants, 40),
	}

	aggs := AggregateBy(items, ByCategory)
	require.Len(t, aggs, 3)

	assert.Equal(t, "dress", aggs[0].Key)
	assert.Equal(t, 2, aggs[0].Count)
	assert.Equal(t, 50.0, aggs[0].Percentage)
	assert.Equal(t, 70.0, aggs[0].AvgTrendScore)
}

func TestAggregatePercentagesSumToHundred(t *testing.T) {
	items := []models.FashionItem{
		scoredItem(models.CategoryDress, 80, "pink", "white"),
		scoredItem(models.CategoryTop, 60, "sage green"),
		scoredItem(models.CategoryTop, 70, "pink"),
		scoredItem(models.CategorySkirt, 55, "navy", "white", "pink"),
		scoredItem(models.CategoryShoes, 45),
		scoredItem(models.CategoryCoat, 30),
		scoredItem(models.CategoryCoat, 35),
	}

	for _, dim := range []Dimension{ByCategory, ByColor, BySource} {
		aggs := AggregateBy(items, dim)
		if len(aggs) == 0 {
			continue
		}
		sum := 0.0
		for _, a := range aggs {
			sum += a.Percentage
		}
		assert.InDelta(t, 100.0, sum, 0.1, "dimension %s", dim)
	}
}

func TestAggregateMultiValuedDimension(t *testing.T) {
	items := []models.FashionItem{
		scoredItem(models.CategoryDress, 80, "pink", "white"),
		scoredItem(models.CategoryDress, 60, "pink"),
	}

	aggs := AggregateBy(items, ByColor)
	require.Len(t, aggs, 2)

	assert.Equal(t, "pink", aggs[0].Key)
	assert.Equal(t, 2, aggs[0].Count)
	assert.Equal(t, 70.0, aggs[0].AvgTrendScore)
	assert.Equal(t, "white", aggs[1].Key)
}

func TestAggregateOrderingIsDeterministic(t *testing.T) {
	// Equal counts and equal average scores: ties fall back to key name.
	items := []models.FashionItem{
		scoredItem("dress", 50),
		scoredItem("top", 50),
		scoredItem("coat", 50),
	}

	aggs := AggregateBy(items, ByCategory)
	require.Len(t, aggs, 3)
	assert.Equal(t, "coat", aggs[0].Key)
	assert.Equal(t, "dress", aggs[1].Key)
	assert.Equal(t, "top", aggs[2].Key)
}

func TestAggregateCountTieBrokenByScore(t *testing.T) {
	items := []models.FashionItem{
		scoredItem("dress", 90),
		scoredItem("top", 40),
	}

	aggs := AggregateBy(items, ByCategory)
	require.Len(t, aggs, 2)
	assert.Equal(t, "dress", aggs[0].Key)
	assert.Equal(t, "top", aggs[1].Key)
}

func TestAggregateSkipsItemsWithoutDimensionValue(t *testing.T) {
	items := []models.FashionItem{
		scoredItem(models.CategoryDress, 80, "pink"),
		scoredItem(models.CategoryTop, 60), // no colors
	}

	aggs := AggregateBy(items, ByColor)
	require.Len(t, aggs, 1)
	assert.Equal(t, 100.0, aggs[0].Percentage)
}
