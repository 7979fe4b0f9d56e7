package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics and recent scrape sessions",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().String("format", "table", "Output format: json, table")
	statsCmd.Flags().Int("sessions", 5, "Recent sessions to show")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	sessionLimit, _ := cmd.Flags().GetInt("sessions")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats()
	if err != nil {
		return err
	}
	sessions, err := st.RecentSessions(sessionLimit)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"stats": stats, "sessions": sessions})
	}

	fmt.Printf("Products: %d  (on sale: %d, new today: %d, avg price: $%.2f)\n",
		stats.TotalProducts, stats.OnSale, stats.NewToday, stats.AvgPrice)
	if stats.LastScrapedAt != nil {
		fmt.Printf("Last scraped: %s\n", stats.LastScrapedAt.Format("2006-01-02 15:04"))
	}
	if len(stats.BySource) > 0 {
		fmt.Println("\nBy source:")
		for src, n := range stats.BySource {
			fmt.Printf("  %-30s %d\n", src, n)
		}
	}
	if len(stats.ByCategory) > 0 {
		fmt.Println("\nBy category:")
		for cat, n := range stats.ByCategory {
			fmt.Printf("  %-30s %d\n", cat, n)
		}
	}
	if len(sessions) > 0 {
		fmt.Println("\nRecent sessions:")
		for _, s := range sessions {
			fmt.Printf("  %s %-30s %-9s found=%d new=%d updated=%d\n",
				s.StartedAt.Format("01-02 15:04"), s.Source, s.Status,
				s.ItemsFound, s.ItemsNew, s.ItemsUpdated)
		}
	}
	return nil
}
