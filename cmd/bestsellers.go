package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/trendmuse/trendmuse/internal/models"
	"github.com/trendmuse/trendmuse/internal/platform"
	"github.com/trendmuse/trendmuse/internal/shopify"
	"github.com/trendmuse/trendmuse/internal/store"
	"github.com/trendmuse/trendmuse/internal/trend"
	"github.com/trendmuse/trendmuse/internal/ui"
)

var bestsellersCmd = &cobra.Command{
	Use:   "bestsellers [store-url]",
	Short: "Fetch a store's best-seller ranking",
	Long:  "Fetches the curated best-seller collection of one store, or of every configured boutique with --all, and records rank movement.",
	RunE:  runBestsellers,
}

func init() {
	bestsellersCmd.Flags().Int("limit", 50, "Maximum ranked products per store")
	bestsellersCmd.Flags().Bool("all", false, "Scan every configured boutique")
	bestsellersCmd.Flags().String("format", "table", "Output format: json, table")
	bestsellersCmd.Flags().Bool("save", true, "Record rankings in the local database")
	rootCmd.AddCommand(bestsellersCmd)
}

func runBestsellers(cmd *cobra.Command, args []string) error {
	initScrapers()

	limit, _ := cmd.Flags().GetInt("limit")
	all, _ := cmd.Flags().GetBool("all")
	format, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")

	var urls []string
	switch {
	case all:
		for _, domain := range shopify.Sites() {
			urls = append(urls, "https://"+domain)
		}
	case len(args) == 1:
		urls = args
	default:
		return fmt.Errorf("pass a store URL or --all")
	}

	var st *store.Store
	if save {
		var err error
		st, err = openStore()
		if err != nil {
			return err
		}
		defer st.Close()
	}

	policy := trend.DefaultPolicy()
	spin := ui.NewSpinner()
	out := map[string]any{}

	for _, url := range urls {
		scraper, err := platform.Resolve(url)
		if err != nil {
			return err
		}

		spin.Start("Fetching best sellers from " + url + "...")
		ctx := platform.WithProgress(context.Background(), spin.Update)
		items, err := scraper.BestSellers(ctx, url, limit)
		if err != nil {
			spin.Fail(url)
			log.Warn().Err(err).Str("url", url).Msg("best-seller fetch failed")
			continue
		}
		items = policy.ScoreAll(items, time.Now())
		spin.Succeed(fmt.Sprintf("%s: %d ranked products", url, len(items)))

		var moves []store.RankMove
		if st != nil {
			source := sourceOf(items, url)
			moves, err = st.RecordBestsellers(source, items)
			if err != nil {
				return err
			}
			if _, err := st.UpsertBatch(items); err != nil {
				return err
			}
		}

		if format == "table" {
			printRankingTable(items, moves)
		} else {
			out[url] = map[string]any{"items": items, "moves": moves}
		}
	}

	if format != "table" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
	}
	return nil
}

func sourceOf(items []models.FashionItem, fallback string) string {
	if len(items) > 0 && items[0].Source != "" {
		return items[0].Source
	}
	return fallback
}
