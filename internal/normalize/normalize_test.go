package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func validFields() Fields {
	return Fields{
		Name:       "Smocked Floral Dress",
		Price:      58.50,
		ProductURL: "https://classicwhimsy.com/products/smocked-floral-dress",
		Category:   "Dress",
		Source:     "classicwhimsy.com",
		Colors:     []string{"Pink", " Sage Green "},
		Tags:       []string{"Smocked", "floral"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	item, err := Normalize(validFields(), testNow)
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "USD", item.Currency)
	assert.Equal(t, "dress", item.Category)
	assert.Equal(t, "classicwhimsy.com", item.Brand)
	assert.Equal(t, neutralRating, item.Rating)
	assert.Equal(t, testNow, item.ScrapedAt)
	assert.Equal(t, []string{"pink", "sage green"}, item.Colors)
	assert.Equal(t, []string{"smocked", "floral"}, item.Tags)
}

func TestNormalizeKeepsExplicitZeroRating(t *testing.T) {
	f := validFields()
	zero := 0.0
	f.Rating = &zero

	item, err := Normalize(f, testNow)
	require.NoError(t, err)
	assert.Zero(t, item.Rating)
}

func TestNormalizeClampsRating(t *testing.T) {
	f := validFields()
	high := 9.9
	f.Rating = &high

	item, err := Normalize(f, testNow)
	require.NoError(t, err)
	assert.Equal(t, 5.0, item.Rating)
}

func TestNormalizeRejectsMissingURL(t *testing.T) {
	f := validFields()
	f.ProductURL = "  "

	_, err := Normalize(f, testNow)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "product_url", verr.Field)
}

func TestNormalizeRejectsNegativePrice(t *testing.T) {
	f := validFields()
	f.Price = -1

	_, err := Normalize(f, testNow)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price", verr.Field)
}

func TestNormalizeRejectsOriginalPriceBelowPrice(t *testing.T) {
	f := validFields()
	f.Price = 40
	f.OriginalPrice = 30

	_, err := Normalize(f, testNow)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestBatchSkipsBadRecords(t *testing.T) {
	bad := validFields()
	bad.Price = -5

	items, errs := Batch([]Fields{validFields(), bad, validFields()}, testNow)
	assert.Len(t, items, 2)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "record 1")
}

func TestNormalizeIsDeterministicGivenID(t *testing.T) {
	f := validFields()
	f.ID = "fixed-id"

	a, err := Normalize(f, testNow)
	require.NoError(t, err)
	b, err := Normalize(f, testNow)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
