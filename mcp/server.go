// Package mcp exposes the trend tracker to AI assistants over the
// Model Context Protocol, on stdio or streamable HTTP.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/trendmuse/trendmuse/internal/store"
)

// Serve starts the MCP stdio server with all tools registered.
func Serve(st *store.Store) error {
	s := server.NewMCPServer(
		"trendmuse",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, st)

	return server.ServeStdio(s)
}
