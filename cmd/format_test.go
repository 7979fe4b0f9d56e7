package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$58.50", formatPrice(58.5, "USD"))
	assert.Equal(t, "$14.00", formatPrice(14, ""))
	assert.Equal(t, "NZ$89.00", formatPrice(89, "NZD"))
	assert.Equal(t, "SEK 120.00", formatPrice(120, "SEK"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long na...", truncate("long name here", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
