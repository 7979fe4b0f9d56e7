package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/trendmuse/trendmuse/internal/store"
	"github.com/trendmuse/trendmuse/internal/trend"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Report trends across stored products",
	Long:  "Scores every stored product and aggregates trend data by category, color, tag, brand, or source.",
	RunE:  runTrending,
}

func init() {
	trendingCmd.Flags().String("dimension", "category", "Aggregation dimension: category, color, tag, brand, source, all")
	trendingCmd.Flags().String("source", "", "Restrict to one store")
	trendingCmd.Flags().Int("limit", 0, "Cap rows per dimension (0 = all)")
	trendingCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(trendingCmd)
}

func runTrending(cmd *cobra.Command, args []string) error {
	dimension, _ := cmd.Flags().GetString("dimension")
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	items, err := st.Items(store.Filter{Source: source})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "no stored products; run scan --save or bestsellers first")
		return nil
	}

	policy := trend.DefaultPolicy()
	items = policy.ScoreAll(items, time.Now())

	var dims []trend.Dimension
	if dimension == "all" {
		dims = trend.Dimensions()
	} else {
		dim := trend.Dimension(dimension)
		valid := false
		for _, d := range trend.Dimensions() {
			if d == dim {
				valid = true
			}
		}
		if !valid {
			return fmt.Errorf("unknown dimension %q", dimension)
		}
		dims = []trend.Dimension{dim}
	}

	report := map[string][]trend.Aggregate{}
	for _, dim := range dims {
		aggs := trend.AggregateBy(items, dim)
		if limit > 0 && len(aggs) > limit {
			aggs = aggs[:limit]
		}
		report[string(dim)] = aggs
	}

	if format == "table" {
		for _, dim := range dims {
			printAggregatesTable(string(dim), report[string(dim)])
		}
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
