package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<!DOCTYPE html>
<html><head>
<script type="application/ld+json">
{
  "@type": "Product",
  "name": "Puff Sleeve Linen Dress",
  "url": "https://jamiekay.com/products/puff-sleeve-linen-dress",
  "image": ["https://cdn.shopify.com/s/files/linen.jpg"],
  "brand": {"name": "Jamie Kay"},
  "offers": {"@type": "Offer", "price": "89.00", "priceCurrency": "NZD"},
  "aggregateRating": {"ratingValue": "4.8", "reviewCount": "132"}
}
</script>
</head><body></body></html>`

const listPage = `<html><head>
<script type="application/ld+json">
{
  "@type": "ItemList",
  "itemListElement": [
    {"@type": "ListItem", "item": {"@type": "Product", "name": "A", "url": "https://jamiekay.com/products/a", "offers": {"price": "10.00"}}},
    {"@type": "ListItem", "item": {"@type": "Product", "name": "B", "url": "https://jamiekay.com/products/b", "offers": {"price": "20.00"}}}
  ]
}
</script>
</head></html>`

func TestExtractJSONLDProduct(t *testing.T) {
	items := ExtractJSONLD(productPage, "https://jamiekay.com/collections/dresses")
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "Puff Sleeve Linen Dress", item.Name)
	assert.Equal(t, 89.00, item.Price)
	assert.Equal(t, "NZD", item.Currency)
	assert.Equal(t, "Jamie Kay", item.Brand)
	assert.Equal(t, "jamiekay.com", item.Source)
	assert.Equal(t, 4.8, item.Rating)
	assert.Equal(t, 132, item.ReviewsCount)
	assert.Equal(t, "https://cdn.shopify.com/s/files/linen.jpg", item.ImageURL)
}

func TestExtractJSONLDItemList(t *testing.T) {
	items := ExtractJSONLD(listPage, "https://jamiekay.com/collections/all")
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "B", items[1].Name)
}

func TestExtractJSONLDIgnoresOtherTypes(t *testing.T) {
	page := `<html><head><script type="application/ld+json">{"@type": "Organization", "name": "Jamie Kay"}</script></head></html>`
	assert.Empty(t, ExtractJSONLD(page, "https://jamiekay.com"))
}
