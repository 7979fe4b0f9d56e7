// Package shopify scrapes Shopify-based fashion boutiques through a
// chain of strategies: the storefront JSON API and static JSON-LD pages
// are raced concurrently, with a headless browser as the slow fallback
// for JS-hydrated themes.
package shopify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/trendmuse/trendmuse/internal/models"
	"github.com/trendmuse/trendmuse/internal/platform"
)

const fastStrategyTimeout = 10 * time.Second

// Scraper implements platform.Scraper for Shopify stores.
type Scraper struct {
	fastStrategies []platform.Strategy
	slowStrategies []platform.Strategy
	rateLimiter    *rate.Limiter
	maxConcurrent  int
}

// NewScraper builds the full strategy chain.
func NewScraper(client *http.Client, rateLimiter *rate.Limiter, maxConcurrent int) *Scraper {
	return &Scraper{
		fastStrategies: []platform.Strategy{
			NewStorefrontStrategy(client),
			NewJSONLDStrategy(client),
		},
		slowStrategies: []platform.Strategy{
			NewHeadlessStrategy(),
		},
		rateLimiter:   rateLimiter,
		maxConcurrent: maxConcurrent,
	}
}

// Supports accepts any URL: the storefront API probe is cheap and most
// boutique stores run Shopify, so this scraper acts as the catch-all.
func (s *Scraper) Supports(url string) bool { return true }

func (s *Scraper) Scan(ctx context.Context, url string, opts platform.ScanOpts) ([]models.FashionItem, error) {
	if opts.MaxItems <= 0 {
		opts.MaxItems = 20
	}
	req := platform.Request{
		Type:     platform.ScanRequest,
		URL:      url,
		MaxItems: opts.MaxItems,
		Category: opts.Category,
		Page:     1,
	}
	return s.executeWithFallback(ctx, req)
}

// BestSellers fetches the store's curated best-seller collection in
// collection order, which is the ranking signal the trend tracker records.
func (s *Scraper) BestSellers(ctx context.Context, url string, limit int) ([]models.FashionItem, error) {
	if limit <= 0 {
		limit = 50
	}
	req := platform.Request{
		Type:       platform.BestSellersRequest,
		URL:        url,
		Collection: configFor(url).BestSellerCollection,
		MaxItems:   limit,
		Page:       1,
	}
	return s.executeWithFallback(ctx, req)
}

func (s *Scraper) ProductDetail(ctx context.Context, url string) (*models.FashionItem, error) {
	req := platform.Request{
		Type: platform.ProductDetailRequest,
		URL:  url,
	}
	items, err := s.executeWithFallback(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no product detail found for: %s", url)
	}
	return &items[0], nil
}

// ScanPages fetches multiple catalogue pages concurrently, bounded by the
// scraper's rate limiter and concurrency cap.
func (s *Scraper) ScanPages(ctx context.Context, url string, pages, perPage int) ([]models.FashionItem, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	results := make([][]models.FashionItem, pages)
	for i := 0; i < pages; i++ {
		g.Go(func() error {
			if err := s.rateLimiter.Wait(ctx); err != nil {
				return err
			}
			req := platform.Request{
				Type:     platform.ScanRequest,
				URL:      url,
				MaxItems: perPage,
				Page:     i + 1,
			}
			items, err := s.executeWithFallback(ctx, req)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []models.FashionItem
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// executeWithFallback races the fast strategies, then walks the slow
// ones sequentially. First non-empty result wins.
func (s *Scraper) executeWithFallback(ctx context.Context, req platform.Request) ([]models.FashionItem, error) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type attempt struct {
		items    []models.FashionItem
		strategy string
	}
	resultCh := make(chan attempt, len(s.fastStrategies))

	for _, strat := range s.fastStrategies {
		go func(strat platform.Strategy) {
			if s.rateLimiter != nil {
				if err := s.rateLimiter.Wait(raceCtx); err != nil {
					return
				}
			}
			r, err := strat.Execute(raceCtx, req)
			if err == nil && r != nil && len(r.Items) > 0 {
				resultCh <- attempt{items: r.Items, strategy: strat.Name()}
			}
		}(strat)
	}

	select {
	case r := <-resultCh:
		cancel()
		platform.ReportProgress(ctx, fmt.Sprintf("Found %d products via %s", len(r.items), r.strategy))
		return r.items, nil
	case <-time.After(fastStrategyTimeout):
		cancel()
		platform.ReportProgress(ctx, "Fast strategies timed out, trying headless browser...")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	for _, strat := range s.slowStrategies {
		platform.ReportProgress(ctx, fmt.Sprintf("Trying %s strategy...", strat.Name()))
		result, err := strat.Execute(ctx, req)
		if err == nil && result != nil && len(result.Items) > 0 {
			platform.ReportProgress(ctx, fmt.Sprintf("Found %d products via %s", len(result.Items), strat.Name()))
			return result.Items, nil
		}
	}

	return nil, fmt.Errorf("all strategies exhausted for %s", req.URL)
}
