package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/trendmuse/trendmuse/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	initScrapers()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting TrendMuse MCP server on stdio...")
	return mcpserver.Serve(st)
}
