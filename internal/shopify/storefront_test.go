package shopify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendmuse/trendmuse/internal/models"
)

const productsFixture = `{
  "products": [
    {
      "id": 7234985123,
      "title": "Smocked Floral Midi Dress",
      "handle": "smocked-floral-midi-dress",
      "product_type": "Dresses",
      "tags": ["color_pink", "Smocked", "feed-google", "floral", "season_ss26"],
      "published_at": "2026-08-01T10:00:00Z",
      "variants": [
        {"price": "58.50", "compare_at_price": "78.00", "option1": "Pink", "available": true},
        {"price": "58.50", "compare_at_price": "", "option1": "Navy", "available": false}
      ],
      "images": [{"src": "https://cdn.shopify.com/s/files/dress.jpg"}]
    },
    {
      "id": 7234985999,
      "title": "Gingham Bow Headband",
      "handle": "gingham-bow-headband",
      "product_type": "Accessories",
      "tags": "bow, gingham",
      "variants": [{"price": "14.00", "compare_at_price": "", "option1": "One Size", "available": true}],
      "images": []
    }
  ]
}`

func TestStorefrontPayloadDecodes(t *testing.T) {
	var payload struct {
		Products []storefrontProduct `json:"products"`
	}
	require.NoError(t, json.Unmarshal([]byte(productsFixture), &payload))
	require.Len(t, payload.Products, 2)

	dress := payload.Products[0]
	assert.Equal(t, "Smocked Floral Midi Dress", dress.Title)
	assert.Equal(t, 58.50, dress.price())
	assert.Equal(t, 78.00, dress.compareAtPrice())
	assert.Equal(t, "https://cdn.shopify.com/s/files/dress.jpg", dress.imageURL())

	// String-form tags decode too.
	assert.Equal(t, flexTags{"bow", "gingham"}, payload.Products[1].Tags)
}

func TestStorefrontProductFields(t *testing.T) {
	var payload struct {
		Products []storefrontProduct `json:"products"`
	}
	require.NoError(t, json.Unmarshal([]byte(productsFixture), &payload))

	f := payload.Products[0].fields("https://classicwhimsy.com", "classicwhimsy.com", "Classic Whimsy")
	assert.Equal(t, "shopify-7234985123", f.ID)
	assert.Equal(t, "https://classicwhimsy.com/products/smocked-floral-midi-dress", f.ProductURL)
	assert.Equal(t, models.CategoryDress, f.Category)
	assert.Equal(t, "classicwhimsy.com", f.Source)
	assert.Equal(t, "Classic Whimsy", f.Brand)
	assert.Contains(t, f.Colors, "pink")
	assert.Contains(t, f.Tags, "Smocked")
	assert.NotContains(t, f.Tags, "feed-google")
	assert.NotContains(t, f.Tags, "season_ss26")
}

func TestMapCategory(t *testing.T) {
	cases := []struct {
		productType string
		tags        []string
		want        string
	}{
		{"Dresses", nil, models.CategoryDress},
		{"Knit Top", nil, models.CategoryTop},
		{"Shorts", nil, models.CategoryPants},
		{"", []string{"dress"}, models.CategoryDress},
		{"Footwear", nil, models.CategoryShoes},
		{"Hair Bows", nil, models.CategoryAccessories},
		{"Swimsuit", nil, models.CategorySwimwear},
		{"Mystery", nil, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, mapCategory(c.productType, c.tags), "type=%q", c.productType)
	}
}

func TestSiteHelpers(t *testing.T) {
	assert.Equal(t, "classicwhimsy.com", domainOf("https://www.classicwhimsy.com/collections/best-sellers"))
	assert.Equal(t, "best-sellers", collectionOf("https://classicwhimsy.com/collections/best-sellers"))
	assert.Equal(t, "dresses", collectionOf("https://classicwhimsy.com/collections/dresses/products/x"))
	assert.Empty(t, collectionOf("https://classicwhimsy.com/products/x"))

	// gigiandmax needs its www prefix regardless of input form.
	assert.Equal(t, "https://www.gigiandmax.com", baseURLOf("https://gigiandmax.com/collections/best-sellers"))

	cfg := configFor("https://unknown-boutique.com/collections/all")
	assert.Equal(t, "unknown-boutique.com", cfg.Name)
	assert.Equal(t, "best-sellers", cfg.BestSellerCollection)
}
