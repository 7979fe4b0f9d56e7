package signals

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/trendmuse/trendmuse/internal/httputil"
	"github.com/trendmuse/trendmuse/internal/models"
)

// vocabulary is the fashion terminology watched for in editorial copy,
// grouped the same way as the curated catalogue.
var vocabulary = map[string][]string{
	"silhouette": {"wide-leg", "wide leg", "oversized", "maxi", "midi", "cropped", "high-waisted", "a-line", "puff sleeve", "corset", "smocked"},
	"color":      {"butter yellow", "cherry red", "sage green", "espresso", "powder blue", "burgundy", "lavender", "neutral tones"},
	"fabric":     {"linen", "crochet", "satin", "silk", "denim", "tweed", "knit", "mesh", "sheer", "velvet", "seersucker"},
	"style":      {"quiet luxury", "coquette", "dark academia", "cottagecore", "boho", "vintage", "minimalist", "preppy", "western"},
	"detail":     {"bows", "lace", "ruffles", "pearl", "floral", "gingham", "plaid", "leopard print", "embroidered", "scalloped"},
}

// mentionSaturation is the mention count that maps to a score of 100.
const mentionSaturation = 20

// Mention is one vocabulary hit in an editorial page.
type Mention struct {
	Term  string `json:"term"`
	Group string `json:"group"`
	Count int    `json:"count"`
}

// EditorialScanner counts fashion vocabulary mentions on publication
// pages and turns them into trend signals.
type EditorialScanner struct {
	client *http.Client
}

func NewEditorialScanner(client *http.Client) *EditorialScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &EditorialScanner{client: client}
}

// Scan fetches a publication page and returns its vocabulary mentions
// as scored signals, strongest first.
func (e *EditorialScanner) Scan(ctx context.Context, pageURL string) ([]models.ExternalSignal, error) {
	mentions, err := e.scanMentions(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return MentionSignals(mentions, pageURL), nil
}

func (e *EditorialScanner) scanMentions(ctx context.Context, pageURL string) ([]Mention, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range httputil.BrowserHeaders() {
		req.Header[k] = v
	}

	resp, err := httputil.DoWithRetry(e.client, req, 2)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return CountMentions(doc), nil
}

// ScanAll fetches several publication pages concurrently and merges
// their mentions, summing counts for terms seen on multiple pages.
// Pages that fail to fetch are skipped.
func (e *EditorialScanner) ScanAll(ctx context.Context, pageURLs []string, maxConcurrent int) ([]models.ExternalSignal, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	var mu sync.Mutex
	totals := map[string]Mention{}
	var scanned int

	for _, pageURL := range pageURLs {
		g.Go(func() error {
			sigs, err := e.scanMentions(ctx, pageURL)
			if err != nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			scanned++
			for _, m := range sigs {
				t := totals[m.Term]
				t.Term, t.Group = m.Term, m.Group
				t.Count += m.Count
				totals[m.Term] = t
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if scanned == 0 && len(pageURLs) > 0 {
		return nil, fmt.Errorf("no editorial pages could be fetched")
	}

	merged := make([]Mention, 0, len(totals))
	for _, m := range totals {
		merged = append(merged, m)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Count != merged[j].Count {
			return merged[i].Count > merged[j].Count
		}
		return merged[i].Term < merged[j].Term
	})
	return MentionSignals(merged, "editorial"), nil
}

// CountMentions tallies vocabulary hits in the page's article copy.
// Only headline and body text count; navigation and footers do not.
func CountMentions(doc *goquery.Document) []Mention {
	scope := doc.Find("article")
	if scope.Length() == 0 {
		scope = doc.Find("main")
	}

	var b strings.Builder
	if scope.Length() > 0 {
		scope.Each(func(i int, s *goquery.Selection) {
			b.WriteString(s.Text())
			b.WriteByte(' ')
		})
	} else {
		doc.Find("h1, h2, h3, p").Each(func(i int, s *goquery.Selection) {
			b.WriteString(s.Text())
			b.WriteByte(' ')
		})
	}
	text := strings.ToLower(b.String())

	var out []Mention
	for group, terms := range vocabulary {
		for _, term := range terms {
			if n := strings.Count(text, term); n > 0 {
				out = append(out, Mention{Term: term, Group: group, Count: n})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// MentionSignals scores mentions linearly up to the saturation count.
// A single page is a snapshot, so direction is always stable.
func MentionSignals(mentions []Mention, source string) []models.ExternalSignal {
	out := make([]models.ExternalSignal, 0, len(mentions))
	for _, m := range mentions {
		score := float64(m.Count) / mentionSaturation * 100
		if score > 100 {
			score = 100
		}
		out = append(out, models.ExternalSignal{
			Name:      m.Term,
			Score:     round1(score),
			Direction: models.LevelStable,
			Source:    source,
		})
	}
	return out
}
