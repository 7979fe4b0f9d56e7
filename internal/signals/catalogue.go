// Package signals produces trend observations that do not come from
// scraped products: a curated aesthetic catalogue, keyword interest
// series, and editorial mention counts.
package signals

import (
	"sort"
	"strings"

	"github.com/trendmuse/trendmuse/internal/models"
)

// Entry is one curated trend: an aesthetic, color, silhouette or
// material with an editorial confidence score.
type Entry struct {
	Name        string            `json:"name"`
	Group       string            `json:"group"`
	Score       float64           `json:"score"`
	Direction   models.TrendLevel `json:"direction"`
	Description string            `json:"description,omitempty"`
	Hex         string            `json:"hex,omitempty"`
}

// Catalogue groups.
const (
	GroupAesthetics  = "Aesthetic Trends"
	GroupColors      = "Trending Colors"
	GroupSilhouettes = "Trending Silhouettes"
	GroupMaterials   = "Trending Materials"
)

var catalogue = []Entry{
	{Name: "Quiet Luxury", Group: GroupAesthetics, Score: 92, Direction: models.LevelRising, Description: "Understated elegance with premium fabrics, neutral tones, and minimal branding"},
	{Name: "Coquette", Group: GroupAesthetics, Score: 88, Direction: models.LevelHot, Description: "Feminine, playful style with bows, lace, pink tones, and delicate details"},
	{Name: "Dark Academia", Group: GroupAesthetics, Score: 75, Direction: models.LevelStable, Description: "Scholarly aesthetic with tweed, plaid, earth tones, and structured silhouettes"},
	{Name: "Mob Wife Aesthetic", Group: GroupAesthetics, Score: 85, Direction: models.LevelRising, Description: "Bold, luxurious look with fur, leopard print, gold jewelry, and dramatic makeup"},
	{Name: "Coastal Cowgirl", Group: GroupAesthetics, Score: 70, Direction: models.LevelDeclining, Description: "Western meets beachy with denim, cowboy boots, and sun-bleached tones"},

	{Name: "Butter Yellow", Group: GroupColors, Score: 90, Direction: models.LevelHot, Hex: "#F5E6A3", Description: "Soft, warm yellow dominating spring runways"},
	{Name: "Cherry Red", Group: GroupColors, Score: 87, Direction: models.LevelHot, Hex: "#C41E3A", Description: "Bold cherry and burgundy red across all categories"},
	{Name: "Sage Green", Group: GroupColors, Score: 78, Direction: models.LevelStable, Hex: "#9CAF88", Description: "Muted green continuing its multi-season run"},
	{Name: "Espresso Brown", Group: GroupColors, Score: 82, Direction: models.LevelRising, Hex: "#4E3629", Description: "Rich brown tones replacing black as the new neutral"},
	{Name: "Powder Blue", Group: GroupColors, Score: 74, Direction: models.LevelRising, Hex: "#B0C4DE", Description: "Soft blue emerging for spring and summer collections"},
	{Name: "Hot Pink", Group: GroupColors, Score: 65, Direction: models.LevelDeclining, Hex: "#FF69B4", Description: "Barbiecore fading but pink remains relevant"},

	{Name: "Wide-Leg Pants", Group: GroupSilhouettes, Score: 88, Direction: models.LevelStable, Description: "Replacing skinny jeans across casual and formal wear"},
	{Name: "Maxi Everything", Group: GroupSilhouettes, Score: 85, Direction: models.LevelRising, Description: "Maxi skirts, dresses, and coats on the rise"},
	{Name: "Oversized Blazers", Group: GroupSilhouettes, Score: 80, Direction: models.LevelStable, Description: "Relaxed tailoring continues to dominate"},
	{Name: "Sheer & Mesh", Group: GroupSilhouettes, Score: 82, Direction: models.LevelHot, Description: "Transparency trending from runway to street"},
	{Name: "Corset Tops", Group: GroupSilhouettes, Score: 72, Direction: models.LevelStable, Description: "Structured bodices as everyday tops"},

	{Name: "Linen", Group: GroupMaterials, Score: 85, Direction: models.LevelRising, Description: "Sustainable, breathable fabric gaining year-round appeal"},
	{Name: "Crochet & Knit", Group: GroupMaterials, Score: 80, Direction: models.LevelStable, Description: "Handmade textures in tops, bags, and dresses"},
	{Name: "Satin & Silk", Group: GroupMaterials, Score: 78, Direction: models.LevelRising, Description: "Luxe fabrics in everyday casual pieces"},
	{Name: "Denim", Group: GroupMaterials, Score: 90, Direction: models.LevelHot, Description: "Denim-on-denim, wide leg, and vintage washes"},
	{Name: "Faux Leather", Group: GroupMaterials, Score: 73, Direction: models.LevelStable, Description: "Vegan leather in jackets, pants, and accessories"},
}

// FashionKeywords is the default keyword pool for interest lookups.
var FashionKeywords = []string{
	"coquette fashion", "quiet luxury", "mob wife aesthetic",
	"coastal grandmother", "dark academia", "cottagecore",
	"Y2K fashion", "gorpcore", "clean girl aesthetic",
	"ballet core", "old money style", "boho chic",
	"minimalist fashion", "vintage denim",
	"linen pants", "maxi skirt", "cargo pants women",
	"oversized blazer", "platform shoes", "pearl accessories",
	"cherry red", "butter yellow", "sage green outfit",
	"mesh top", "sheer dress", "corset top",
	"wide leg jeans", "pleated skirt", "knit vest",
}

// All returns every curated entry in catalogue order.
func All() []Entry {
	out := make([]Entry, len(catalogue))
	copy(out, catalogue)
	return out
}

// Catalogue returns every curated entry grouped by its group name.
func Catalogue() map[string][]Entry {
	out := make(map[string][]Entry, 4)
	for _, e := range catalogue {
		out[e.Group] = append(out[e.Group], e)
	}
	return out
}

// Group returns the curated entries for one group, or nil.
func Group(name string) []Entry {
	var out []Entry
	for _, e := range catalogue {
		if e.Group == name {
			out = append(out, e)
		}
	}
	return out
}

// Groups lists the catalogue group names in display order.
func Groups() []string {
	return []string{GroupAesthetics, GroupColors, GroupSilhouettes, GroupMaterials}
}

// HotAndRising returns entries moving upward with score at or above
// minScore, highest score first.
func HotAndRising(minScore float64) []Entry {
	var out []Entry
	for _, e := range catalogue {
		if e.Score >= minScore && (e.Direction == models.LevelHot || e.Direction == models.LevelRising) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// SearchCatalogue matches the query as a case-insensitive substring of
// an entry's name or description.
func SearchCatalogue(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Entry
	for _, e := range catalogue {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Description), q) {
			out = append(out, e)
		}
	}
	return out
}

// MatchKeywords returns pool keywords containing the query, capped at max.
func MatchKeywords(query string, max int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []string
	for _, kw := range FashionKeywords {
		if strings.Contains(strings.ToLower(kw), q) {
			out = append(out, kw)
			if max > 0 && len(out) >= max {
				break
			}
		}
	}
	return out
}

// AsSignals converts catalogue entries to external signals under the
// given source label.
func AsSignals(entries []Entry, source string) []models.ExternalSignal {
	out := make([]models.ExternalSignal, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.ExternalSignal{
			Name:      e.Name,
			Score:     e.Score,
			Direction: e.Direction,
			Source:    source,
		})
	}
	return out
}
