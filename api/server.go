// Package api serves stored products and trend intelligence over a
// plain JSON REST interface.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trendmuse/trendmuse/internal/signals"
	"github.com/trendmuse/trendmuse/internal/store"
	"github.com/trendmuse/trendmuse/internal/trend"
)

// Server holds the handler dependencies.
type Server struct {
	store  *store.Store
	policy trend.Policy
}

func NewServer(st *store.Store) *Server {
	return &Server{store: st, policy: trend.DefaultPolicy()}
}

// Serve runs the REST API until the listener fails. A non-empty apiKey
// puts every /api route behind Bearer auth; /healthz stays open.
func Serve(addr, apiKey string, st *store.Store) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewServer(st).Handler(apiKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// Handler builds the route table.
func (s *Server) Handler(apiKey string) http.Handler {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/stats", s.handleStats)
	apiMux.HandleFunc("GET /api/products", s.handleProducts)
	apiMux.HandleFunc("GET /api/aggregates/{dimension}", s.handleAggregates)
	apiMux.HandleFunc("GET /api/summary", s.handleSummary)
	apiMux.HandleFunc("GET /api/discovery/dashboard", s.handleDashboard)
	apiMux.HandleFunc("GET /api/discovery/search", s.handleSearch)

	var apiHandler http.Handler = apiMux
	if apiKey != "" {
		apiHandler = bearerAuth(apiKey, apiMux)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("/api/", apiHandler)
	return mux
}

func bearerAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.Filter{
		Source:   q.Get("source"),
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		OnSale:   q.Get("on_sale") == "true",
		Limit:    intParam(q.Get("limit"), 50),
		Offset:   intParam(q.Get("offset"), 0),
	}
	if v := q.Get("min_price"); v != "" {
		filter.MinPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("max_price"); v != "" {
		filter.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}

	items, err := s.store.Items(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	items = s.policy.ScoreAll(items, time.Now())
	writeJSON(w, http.StatusOK, map[string]any{"total": len(items), "products": items})
}

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	dim := trend.Dimension(r.PathValue("dimension"))
	valid := false
	for _, d := range trend.Dimensions() {
		if d == dim {
			valid = true
		}
	}
	if !valid {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown dimension: " + string(dim)})
		return
	}

	items, err := s.store.Items(store.Filter{Source: r.URL.Query().Get("source")})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	items = s.policy.ScoreAll(items, time.Now())
	writeJSON(w, http.StatusOK, map[string]any{
		"dimension":  dim,
		"aggregates": trend.AggregateBy(items, dim),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Items(store.Filter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	now := time.Now()
	items = s.policy.ScoreAll(items, now)

	report := map[string][]trend.Aggregate{}
	for _, dim := range trend.Dimensions() {
		aggs := trend.AggregateBy(items, dim)
		if len(aggs) > 10 {
			aggs = aggs[:10]
		}
		report[string(dim)] = aggs
	}

	var hot []any
	for _, item := range items {
		if item.TrendLevel == "hot" || item.TrendLevel == "rising" {
			hot = append(hot, item)
			if len(hot) >= 10 {
				break
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"generated_at":   now.UTC(),
		"total_products": len(items),
		"aggregates":     report,
		"hot_products":   hot,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	hot := signals.HotAndRising(80)

	sources := []trend.Source{
		trend.FromSignals("Trend Catalogue", signals.AsSignals(hot, "catalogue")),
		trend.FromSignals("Keyword Interest", signals.KeywordInterest(signals.FashionKeywords[:8], 0, now)),
	}
	items, err := s.store.Items(store.Filter{})
	if err == nil && len(items) > 0 {
		items = s.policy.ScoreAll(items, now)
		sources = append(sources,
			trend.FromAggregates("Store Categories", trend.AggregateBy(items, trend.ByCategory), s.policy),
			trend.FromAggregates("Store Colors", trend.AggregateBy(items, trend.ByColor), s.policy),
		)
	}

	merged := trend.Merge(sources)
	if len(merged) > 25 {
		merged = merged[:25]
	}

	nHot, nRising := 0, 0
	for _, e := range hot {
		switch e.Direction {
		case "hot":
			nHot++
		case "rising":
			nRising++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"updated_at": now.UTC(),
		"summary": map[string]any{
			"hot_trends":    nHot,
			"rising_trends": nRising,
			"data_sources":  []string{"Trend Catalogue", "Keyword Interest", "Boutique Stores"},
		},
		"top_trends":    merged,
		"color_palette": signals.Group(signals.GroupColors),
		"categories":    signals.Groups(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if len(query) < 2 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter q must be at least 2 characters"})
		return
	}
	limit := intParam(r.URL.Query().Get("limit"), 20)
	now := time.Now()

	sources := []trend.Source{
		trend.FromSignals("Trend Catalogue", signals.AsSignals(signals.All(), "catalogue")),
		trend.FromSignals("Keyword Interest", signals.KeywordInterest(signals.MatchKeywords(query, 5), 0, now)),
	}
	items, err := s.store.Items(store.Filter{})
	if err == nil && len(items) > 0 {
		items = s.policy.ScoreAll(items, now)
		sources = append(sources,
			trend.FromAggregates("Store Categories", trend.AggregateBy(items, trend.ByCategory), s.policy),
			trend.FromAggregates("Store Tags", trend.AggregateBy(items, trend.ByTag), s.policy),
		)
	}

	hits := trend.Search(query, trend.Merge(sources))

	// Catalogue descriptions are searchable too; add entries whose name
	// alone would not have matched.
	seen := map[string]bool{}
	for _, h := range hits {
		seen[h.Name] = true
	}
	for _, e := range signals.SearchCatalogue(query) {
		if !seen[e.Name] {
			hits = append(hits, trend.MergedEntry{
				Name:      e.Name,
				Score:     e.Score,
				Direction: e.Direction,
				Source:    "catalogue",
			})
		}
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "total": len(hits), "results": hits})
}

func intParam(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	log.Error().Err(err).Msg("request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
