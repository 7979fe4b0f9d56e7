package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/trendmuse/trendmuse/internal/models"
	"github.com/trendmuse/trendmuse/internal/store"
	"github.com/trendmuse/trendmuse/internal/trend"
)

// printItemsTable prints products in a human-friendly card layout.
func printItemsTable(items []models.FashionItem) {
	for i, item := range items {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, " %d. %s\n", i+1, item.Name)

		priceLine := "    Price: " + formatPrice(item.Price, item.Currency)
		if item.OnSale() {
			priceLine += fmt.Sprintf("  (was %s)", formatPrice(item.OriginalPrice, item.Currency))
		}
		priceLine += "  |  " + item.Brand
		fmt.Fprintln(os.Stdout, priceLine)

		fmt.Fprintf(os.Stdout, "    Trend: %.1f [%s]", item.TrendScore, item.TrendLevel)
		if item.Rating > 0 {
			fmt.Fprintf(os.Stdout, "  |  Rating: %.1f (%d reviews)", item.Rating, item.ReviewsCount)
		}
		fmt.Fprintln(os.Stdout)

		if item.Category != "" || len(item.Colors) > 0 {
			meta := "    "
			if item.Category != "" {
				meta += "Category: " + item.Category
			}
			if len(item.Colors) > 0 {
				if item.Category != "" {
					meta += "  |  "
				}
				meta += "Colors: " + strings.Join(item.Colors, ", ")
			}
			fmt.Fprintln(os.Stdout, meta)
		}
		fmt.Fprintf(os.Stdout, "    %s\n", item.ProductURL)
	}
}

// printRankingTable prints a best-seller list with rank movement arrows.
func printRankingTable(items []models.FashionItem, moves []store.RankMove) {
	moveFor := map[string]store.RankMove{}
	for _, m := range moves {
		moveFor[m.ProductURL] = m
	}

	for i, item := range items {
		marker := "  "
		if m, ok := moveFor[item.ProductURL]; ok {
			switch {
			case m.New:
				marker = " *"
			case m.Delta > 0:
				marker = fmt.Sprintf("+%d", m.Delta)
			case m.Delta < 0:
				marker = fmt.Sprintf("%d", m.Delta)
			}
		}
		fmt.Fprintf(os.Stdout, " %2d. [%2s] %-50s %s  %.1f\n",
			i+1, marker, truncate(item.Name, 50), formatPrice(item.Price, item.Currency), item.TrendScore)
	}
}

// printAggregatesTable prints one dimension's aggregate rows.
func printAggregatesTable(dimension string, aggs []trend.Aggregate) {
	fmt.Fprintf(os.Stdout, "\n%s\n", strings.ToUpper(dimension))
	if len(aggs) == 0 {
		fmt.Fprintln(os.Stdout, "  (no data)")
		return
	}
	fmt.Fprintf(os.Stdout, "  %-28s %6s %8s %8s\n", "KEY", "COUNT", "SHARE", "SCORE")
	for _, a := range aggs {
		fmt.Fprintf(os.Stdout, "  %-28s %6d %7.1f%% %8.1f\n",
			truncate(a.Key, 28), a.Count, a.Percentage, a.AvgTrendScore)
	}
}

// printMergedTable prints cross-source merged trend entries.
func printMergedTable(entries []trend.MergedEntry) {
	fmt.Fprintf(os.Stdout, "  %-36s %6s %-10s %s\n", "TREND", "SCORE", "LEVEL", "SOURCE")
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "  %-36s %6.1f %-10s %s\n",
			truncate(e.Name, 36), e.Score, e.Direction, e.Source)
	}
}

var currencySymbols = map[string]string{
	"USD": "$",
	"NZD": "NZ$",
	"AUD": "A$",
	"GBP": "£",
	"EUR": "€",
}

func formatPrice(v float64, currency string) string {
	sym, ok := currencySymbols[currency]
	if !ok {
		if currency == "" {
			sym = "$"
		} else {
			sym = currency + " "
		}
	}
	return fmt.Sprintf("%s%.2f", sym, v)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
