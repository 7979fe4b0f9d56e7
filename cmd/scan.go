package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/trendmuse/trendmuse/internal/platform"
	"github.com/trendmuse/trendmuse/internal/trend"
	"github.com/trendmuse/trendmuse/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan <store-url>",
	Short: "Scan a boutique store for products",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().Int("limit", 20, "Maximum products to fetch")
	scanCmd.Flags().String("category", "", "Category filter (dress, top, pants, ...)")
	scanCmd.Flags().String("format", "json", "Output format: json, table")
	scanCmd.Flags().Bool("save", false, "Persist results to the local database")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	initScrapers()

	url := args[0]
	limit, _ := cmd.Flags().GetInt("limit")
	category, _ := cmd.Flags().GetString("category")
	format, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")

	scraper, err := platform.Resolve(url)
	if err != nil {
		return err
	}

	spin := ui.NewSpinner()
	spin.Start("Scanning " + url + "...")
	ctx := platform.WithProgress(context.Background(), spin.Update)

	started := time.Now()
	items, err := scraper.Scan(ctx, url, platform.ScanOpts{
		MaxItems: limit,
		Category: category,
	})
	if err != nil {
		spin.Fail("Scan failed")
		return fmt.Errorf("scan %s: %w", url, err)
	}

	policy := trend.DefaultPolicy()
	items = policy.ScoreAll(items, time.Now())
	spin.Succeed(fmt.Sprintf("Found %d products in %s", len(items), time.Since(started).Round(time.Millisecond)))

	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sessionID, err := st.StartSession(url, url)
		if err != nil {
			return err
		}
		counts, upsertErr := st.UpsertBatch(items)
		errMsg := ""
		if upsertErr != nil {
			errMsg = upsertErr.Error()
		}
		if err := st.CompleteSession(sessionID, counts, errMsg); err != nil {
			return err
		}
		if upsertErr != nil {
			return upsertErr
		}
		log.Info().Int("new", counts.New).Int("updated", counts.Updated).Msg("saved scan results")
	}

	switch format {
	case "table":
		printItemsTable(items)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(items)
	}
	return nil
}
