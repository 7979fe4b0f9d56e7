package sites

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendmuse/trendmuse/internal/models"
)

const listingPage = `<html><body>
<div class="grid">
  <article class="product">
    <h3 class="product-name">Floral Twirl Dress</h3>
    <span class="price">$58.50</span>
    <s>$78.00</s>
    <a href="/products/floral-twirl-dress"><img src="//cdn.example.com/dress.jpg"></a>
  </article>
  <article class="product">
    <h3 class="product-name">Gingham Sun Hat</h3>
    <span class="price">from $14</span>
    <a href="/products/gingham-sun-hat"><img data-src="/images/hat.jpg" src="/images/hat.jpg"></a>
  </article>
  <article class="product">
    <h3 class="product-name"></h3>
    <span class="price">$9.99</span>
  </article>
</div>
</body></html>`

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 58.50, ParsePrice("$58.50"))
	assert.Equal(t, 1299.00, ParsePrice("USD 1,299.00"))
	assert.Equal(t, 24.0, ParsePrice("from $24"))
	assert.Equal(t, 0.0, ParsePrice("Sold out"))
}

func TestExtractListing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingPage))
	require.NoError(t, err)

	fields := ExtractListing(doc, genericSelectors, "https://tinyboutique.example/collections/new", "Tiny Boutique")
	require.Len(t, fields, 2, "nameless card is skipped")

	dress := fields[0]
	assert.Equal(t, "Floral Twirl Dress", dress.Name)
	assert.Equal(t, 58.50, dress.Price)
	assert.Equal(t, 78.00, dress.OriginalPrice)
	assert.Equal(t, "https://tinyboutique.example/products/floral-twirl-dress", dress.ProductURL)
	assert.Equal(t, "https://cdn.example.com/dress.jpg", dress.ImageURL)
	assert.Equal(t, models.CategoryDress, dress.Category)
	assert.Equal(t, "Tiny Boutique", dress.Brand)
	assert.Equal(t, "tinyboutique.example", dress.Source)

	hat := fields[1]
	assert.Equal(t, 14.0, hat.Price)
	assert.Equal(t, models.CategoryAccessories, hat.Category)
}

func TestSupportsOnlyProfiledDomains(t *testing.T) {
	s := NewScraper(nil)
	assert.True(t, s.Supports("https://www.zara.com/us/en/kids"))
	assert.True(t, s.Supports("https://tullabee.com/collections/best-sellers"))
	assert.False(t, s.Supports("https://classicwhimsy.com"))
}

func TestCategoryFromName(t *testing.T) {
	assert.Equal(t, models.CategoryPants, categoryFromName("Pull-On Chambray Shorts"))
	assert.Equal(t, models.CategoryTop, categoryFromName("Puff Sleeve Blouse"))
	assert.Equal(t, "", categoryFromName("Mystery Bundle"))
}
