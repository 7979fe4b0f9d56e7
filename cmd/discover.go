package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/trendmuse/trendmuse/internal/models"
	"github.com/trendmuse/trendmuse/internal/shopify"
	"github.com/trendmuse/trendmuse/internal/signals"
	"github.com/trendmuse/trendmuse/internal/store"
	"github.com/trendmuse/trendmuse/internal/trend"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Merge trend signals from every source into one ranking",
	Long:  "Combines the curated trend catalogue, keyword interest, stored product aggregates, and best-seller rankings on a shared 0-100 scale.",
	RunE:  runDiscover,
}

func init() {
	discoverCmd.Flags().String("keywords", "", "Comma-separated keywords for interest lookup (default: curated pool sample)")
	discoverCmd.Flags().String("editorial", "", "Comma-separated publication URLs to scan for vocabulary mentions")
	discoverCmd.Flags().Int("limit", 25, "Maximum merged entries shown")
	discoverCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(discoverCmd)
}

// discoverSources assembles the merge inputs from everything the tracker
// knows: external signals plus whatever is in the local database.
func discoverSources(st *store.Store, keywords []string) []trend.Source {
	policy := trend.DefaultPolicy()
	now := time.Now()

	sources := []trend.Source{
		trend.FromSignals("Trend Catalogue", signals.AsSignals(signals.All(), "catalogue")),
		trend.FromSignals("Keyword Interest", signals.KeywordInterest(keywords, 0, now)),
	}

	if st == nil {
		return sources
	}

	items, err := st.Items(store.Filter{})
	if err != nil {
		log.Warn().Err(err).Msg("stored products unavailable")
		return sources
	}
	if len(items) > 0 {
		items = policy.ScoreAll(items, now)
		sources = append(sources,
			trend.FromAggregates("Store Categories", trend.AggregateBy(items, trend.ByCategory), policy),
			trend.FromAggregates("Store Colors", trend.AggregateBy(items, trend.ByColor), policy),
		)
	}

	for _, domain := range shopify.Sites() {
		ranks, err := st.LatestBestsellers(domain)
		if err != nil || len(ranks) == 0 {
			continue
		}
		ranked := make([]models.FashionItem, 0, len(ranks))
		for _, r := range ranks {
			ranked = append(ranked, models.FashionItem{Name: r.Name, ProductURL: r.ProductURL, Source: domain})
		}
		sources = append(sources, trend.FromBestsellers("Best Sellers: "+domain, ranked, policy))
	}

	return sources
}

func runDiscover(cmd *cobra.Command, args []string) error {
	kwFlag, _ := cmd.Flags().GetString("keywords")
	edFlag, _ := cmd.Flags().GetString("editorial")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	keywords := signals.FashionKeywords[:8]
	if kwFlag != "" {
		keywords = nil
		for _, kw := range strings.Split(kwFlag, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}

	st, err := openStore()
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable, merging external sources only")
		st = nil
	} else {
		defer st.Close()
	}

	sources := discoverSources(st, keywords)
	if edFlag != "" {
		var pages []string
		for _, u := range strings.Split(edFlag, ",") {
			if u = strings.TrimSpace(u); u != "" {
				pages = append(pages, u)
			}
		}
		scanner := signals.NewEditorialScanner(buildHTTPClient())
		sigs, err := scanner.ScanAll(cmd.Context(), pages, cfg.MaxConcurrent)
		if err != nil {
			log.Warn().Err(err).Msg("editorial scan failed")
		} else {
			sources = append(sources, trend.FromSignals("Fashion Editorial", sigs))
		}
	}

	merged := trend.Merge(sources)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}

	if format == "table" {
		printMergedTable(merged)
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(merged)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search merged trend data by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 20, "Maximum results")
	searchCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")
	query := args[0]

	st, err := openStore()
	if err != nil {
		st = nil
	} else {
		defer st.Close()
	}

	keywords := signals.MatchKeywords(query, 5)
	merged := trend.Merge(discoverSources(st, keywords))
	hits := trend.Search(query, merged)
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	if format == "table" {
		if len(hits) == 0 {
			fmt.Fprintf(os.Stderr, "no trends match %q\n", query)
			return nil
		}
		printMergedTable(hits)
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(hits)
}
