package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/trendmuse/trendmuse/internal/platform"
	"github.com/trendmuse/trendmuse/internal/signals"
	"github.com/trendmuse/trendmuse/internal/store"
	"github.com/trendmuse/trendmuse/internal/trend"
)

type handlers struct {
	store *store.Store
}

func registerTools(s *server.MCPServer, st *store.Store) {
	h := &handlers{store: st}

	scanTool := mcp.NewTool("scan_site",
		mcp.WithDescription("Scan a boutique fashion store for products and trend scores"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Store or collection URL"),
		),
		mcp.WithString("category",
			mcp.Description("Category filter (dress, top, pants, ...)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum products (default: 20)"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Persist results to the local database"),
		),
	)
	s.AddTool(scanTool, h.handleScanSite)

	bestTool := mcp.NewTool("best_sellers",
		mcp.WithDescription("Fetch a store's curated best-seller ranking"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Store URL"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum ranked products (default: 50)"),
		),
	)
	s.AddTool(bestTool, h.handleBestSellers)

	queryTool := mcp.NewTool("query_products",
		mcp.WithDescription("Query stored products with filters"),
		mcp.WithString("source",
			mcp.Description("Restrict to one store domain"),
		),
		mcp.WithString("category",
			mcp.Description("Category filter"),
		),
		mcp.WithString("brand",
			mcp.Description("Brand filter"),
		),
		mcp.WithBoolean("on_sale",
			mcp.Description("Only discounted products"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum products (default: 20)"),
		),
	)
	s.AddTool(queryTool, h.handleQueryProducts)

	reportTool := mcp.NewTool("trend_report",
		mcp.WithDescription("Aggregate trend data across stored products by category, color, tag, brand, or source"),
		mcp.WithString("dimension",
			mcp.Description("Aggregation dimension (default: category; 'all' for every dimension)"),
		),
		mcp.WithString("source",
			mcp.Description("Restrict to one store domain"),
		),
	)
	s.AddTool(reportTool, h.handleTrendReport)

	discoverTool := mcp.NewTool("discover_trends",
		mcp.WithDescription("Merge curated trends, keyword interest, and stored data into one ranked view"),
		mcp.WithString("keywords",
			mcp.Description("Comma-separated keywords for interest lookup"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum merged entries (default: 25)"),
		),
	)
	s.AddTool(discoverTool, h.handleDiscoverTrends)

	searchTool := mcp.NewTool("search_trends",
		mcp.WithDescription("Search all trend data by name"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text"),
		),
	)
	s.AddTool(searchTool, h.handleSearchTrends)
}

func (h *handlers) handleScanSite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	category := request.GetString("category", "")
	limit := request.GetInt("limit", 20)
	save := request.GetBool("save", false)

	scraper, err := platform.Resolve(url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolve error: %v", err)), nil
	}

	items, err := scraper.Scan(ctx, url, platform.ScanOpts{MaxItems: limit, Category: category})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan error: %v", err)), nil
	}
	items = trend.DefaultPolicy().ScoreAll(items, time.Now())

	if save && h.store != nil {
		if _, err := h.store.UpsertBatch(items); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("save error: %v", err)), nil
		}
	}

	return jsonResult(items)
}

func (h *handlers) handleBestSellers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	limit := request.GetInt("limit", 50)

	scraper, err := platform.Resolve(url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolve error: %v", err)), nil
	}

	items, err := scraper.BestSellers(ctx, url, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("best sellers error: %v", err)), nil
	}
	items = trend.DefaultPolicy().ScoreAll(items, time.Now())

	if h.store != nil && len(items) > 0 {
		source := items[0].Source
		moves, err := h.store.RecordBestsellers(source, items)
		if err == nil {
			return jsonResult(map[string]any{"items": items, "moves": moves})
		}
	}
	return jsonResult(items)
}

func (h *handlers) handleQueryProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("no database configured"), nil
	}
	items, err := h.store.Items(store.Filter{
		Source:   request.GetString("source", ""),
		Category: request.GetString("category", ""),
		Brand:    request.GetString("brand", ""),
		OnSale:   request.GetBool("on_sale", false),
		Limit:    request.GetInt("limit", 20),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query error: %v", err)), nil
	}
	items = trend.DefaultPolicy().ScoreAll(items, time.Now())
	return jsonResult(items)
}

func (h *handlers) handleTrendReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("no database configured"), nil
	}
	dimension := request.GetString("dimension", "category")
	source := request.GetString("source", "")

	items, err := h.store.Items(store.Filter{Source: source})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query error: %v", err)), nil
	}
	policy := trend.DefaultPolicy()
	items = policy.ScoreAll(items, time.Now())

	dims := []trend.Dimension{trend.Dimension(dimension)}
	if dimension == "all" {
		dims = trend.Dimensions()
	}
	report := map[string][]trend.Aggregate{}
	for _, dim := range dims {
		report[string(dim)] = trend.AggregateBy(items, dim)
	}
	return jsonResult(report)
}

func (h *handlers) handleDiscoverTrends(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 25)

	keywords := signals.FashionKeywords[:8]
	if kw := request.GetString("keywords", ""); kw != "" {
		keywords = nil
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
	}

	merged := trend.Merge(h.discoverSources(keywords))
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return jsonResult(merged)
}

func (h *handlers) handleSearchTrends(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	keywords := signals.MatchKeywords(query, 5)
	hits := trend.Search(query, trend.Merge(h.discoverSources(keywords)))
	return jsonResult(hits)
}

// discoverSources mirrors the CLI discovery view: catalogue, keyword
// interest, and whatever product data the database holds.
func (h *handlers) discoverSources(keywords []string) []trend.Source {
	policy := trend.DefaultPolicy()
	now := time.Now()

	sources := []trend.Source{
		trend.FromSignals("Trend Catalogue", signals.AsSignals(signals.All(), "catalogue")),
		trend.FromSignals("Keyword Interest", signals.KeywordInterest(keywords, 0, now)),
	}
	if h.store == nil {
		return sources
	}

	items, err := h.store.Items(store.Filter{})
	if err != nil || len(items) == 0 {
		return sources
	}
	items = policy.ScoreAll(items, now)
	return append(sources,
		trend.FromAggregates("Store Categories", trend.AggregateBy(items, trend.ByCategory), policy),
		trend.FromAggregates("Store Colors", trend.AggregateBy(items, trend.ByColor), policy),
	)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}
