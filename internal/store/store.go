// Package store persists scraped products, price history, scrape
// sessions and best-seller rankings in a local SQLite database.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/trendmuse/trendmuse/internal/models"
)

// PriceRecord is one observed price for a product.
type PriceRecord struct {
	ID            uint      `gorm:"primaryKey"`
	ProductURL    string    `gorm:"index"`
	Price         float64
	OriginalPrice float64
	RecordedAt    time.Time
}

// ScrapeSession records one scrape run against a source.
type ScrapeSession struct {
	ID           uint   `gorm:"primaryKey"`
	Source       string `gorm:"index"`
	URL          string
	StartedAt    time.Time
	CompletedAt  *time.Time
	ItemsFound   int
	ItemsNew     int
	ItemsUpdated int
	Status       string
	Error        string
}

// BestsellerRank is a product's position in a store's best-seller
// collection at a point in time.
type BestsellerRank struct {
	ID         uint   `gorm:"primaryKey"`
	Source     string `gorm:"index:idx_rank_source_time"`
	ProductURL string `gorm:"index"`
	Name       string
	Rank       int
	RecordedAt time.Time `gorm:"index:idx_rank_source_time"`
}

// RankMove pairs a best-seller entry with its movement since the
// previous recording. Delta is positive when the product climbed.
type RankMove struct {
	ProductURL string `json:"product_url"`
	Name       string `json:"name"`
	Rank       int    `json:"rank"`
	PrevRank   int    `json:"prev_rank,omitempty"`
	Delta      int    `json:"delta"`
	New        bool   `json:"new"`
}

// Filter narrows an item query. Zero values mean "any".
type Filter struct {
	Source   string
	Category string
	Brand    string
	MinPrice float64
	MaxPrice float64
	OnSale   bool
	Limit    int
	Offset   int
}

// UpsertCounts summarises a bulk upsert.
type UpsertCounts struct {
	Found   int `json:"found"`
	New     int `json:"new"`
	Updated int `json:"updated"`
}

// Stats is the dashboard snapshot.
type Stats struct {
	TotalProducts int            `json:"total_products"`
	BySource      map[string]int `json:"by_source"`
	ByCategory    map[string]int `json:"by_category"`
	OnSale        int            `json:"on_sale"`
	NewToday      int            `json:"new_today"`
	AvgPrice      float64        `json:"avg_price"`
	LastScrapedAt *time.Time     `json:"last_scraped_at,omitempty"`
}

// Store wraps the gorm handle.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and
// migrates the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return newStore(db)
}

var memSeq atomic.Int64

// OpenMemory opens a fresh in-memory database, used by tests.
func OpenMemory() (*Store, error) {
	dsn := fmt.Sprintf("file:mem%d?mode=memory&cache=shared", memSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return newStore(db)
}

func newStore(db *gorm.DB) (*Store, error) {
	err := db.AutoMigrate(
		&models.FashionItem{},
		&PriceRecord{},
		&ScrapeSession{},
		&BestsellerRank{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertItem inserts or refreshes one product, keyed by its URL.
// A price change appends a PriceRecord before the row is overwritten.
func (s *Store) UpsertItem(item models.FashionItem) (created bool, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.FashionItem
		found := tx.Where("product_url = ?", item.ProductURL).First(&existing)
		if found.Error == nil {
			created = false
			// Keep the original row ID stable across sources that
			// regenerate IDs per scrape.
			item.ID = existing.ID
			if existing.Price != item.Price || existing.OriginalPrice != item.OriginalPrice {
				rec := PriceRecord{
					ProductURL:    item.ProductURL,
					Price:         item.Price,
					OriginalPrice: item.OriginalPrice,
					RecordedAt:    item.ScrapedAt,
				}
				if err := tx.Create(&rec).Error; err != nil {
					return err
				}
			}
		} else if found.Error == gorm.ErrRecordNotFound {
			created = true
			rec := PriceRecord{
				ProductURL:    item.ProductURL,
				Price:         item.Price,
				OriginalPrice: item.OriginalPrice,
				RecordedAt:    item.ScrapedAt,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		} else {
			return found.Error
		}

		if created {
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_url"}},
				UpdateAll: true,
			}).Create(&item).Error
		}
		return tx.Save(&item).Error
	})
	return created, err
}

// UpsertBatch stores every item, counting new versus refreshed rows.
func (s *Store) UpsertBatch(items []models.FashionItem) (UpsertCounts, error) {
	counts := UpsertCounts{Found: len(items)}
	for _, item := range items {
		created, err := s.UpsertItem(item)
		if err != nil {
			return counts, fmt.Errorf("upsert %s: %w", item.ProductURL, err)
		}
		if created {
			counts.New++
		} else {
			counts.Updated++
		}
	}
	return counts, nil
}

// Items returns stored products matching the filter, newest first.
func (s *Store) Items(f Filter) ([]models.FashionItem, error) {
	q := s.db.Model(&models.FashionItem{})
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.OnSale {
		q = q.Where("original_price > price AND price > 0")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var items []models.FashionItem
	err := q.Order("scraped_at DESC, id ASC").Find(&items).Error
	return items, err
}

// ItemByURL looks one product up by its canonical URL.
func (s *Store) ItemByURL(productURL string) (*models.FashionItem, error) {
	var item models.FashionItem
	err := s.db.Where("product_url = ?", productURL).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Count returns how many stored products match the filter.
func (s *Store) Count(f Filter) (int64, error) {
	f.Limit, f.Offset = 0, 0
	q := s.db.Model(&models.FashionItem{})
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// PriceHistory returns every recorded price for a product, oldest first.
func (s *Store) PriceHistory(productURL string) ([]PriceRecord, error) {
	var recs []PriceRecord
	err := s.db.Where("product_url = ?", productURL).
		Order("recorded_at ASC, id ASC").Find(&recs).Error
	return recs, err
}

// StartSession opens a scrape session row and returns its ID.
func (s *Store) StartSession(source, url string) (uint, error) {
	sess := ScrapeSession{
		Source:    source,
		URL:       url,
		StartedAt: time.Now().UTC(),
		Status:    "running",
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return 0, err
	}
	return sess.ID, nil
}

// CompleteSession closes a session with its result counts. A non-empty
// errMsg marks the session failed.
func (s *Store) CompleteSession(id uint, counts UpsertCounts, errMsg string) error {
	now := time.Now().UTC()
	status := "completed"
	if errMsg != "" {
		status = "failed"
	}
	return s.db.Model(&ScrapeSession{}).Where("id = ?", id).Updates(map[string]any{
		"completed_at":  &now,
		"items_found":   counts.Found,
		"items_new":     counts.New,
		"items_updated": counts.Updated,
		"status":        status,
		"error":         errMsg,
	}).Error
}

// RecentSessions returns the latest scrape sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]ScrapeSession, error) {
	if limit <= 0 {
		limit = 10
	}
	var sessions []ScrapeSession
	err := s.db.Order("started_at DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}

// RecordBestsellers stores a fresh ranking snapshot for a source and
// returns each entry's movement against the previous snapshot.
func (s *Store) RecordBestsellers(source string, items []models.FashionItem) ([]RankMove, error) {
	prev, err := s.latestRanks(source)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	moves := make([]RankMove, 0, len(items))
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i, item := range items {
			rank := i + 1
			row := BestsellerRank{
				Source:     source,
				ProductURL: item.ProductURL,
				Name:       item.Name,
				Rank:       rank,
				RecordedAt: now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}

			move := RankMove{ProductURL: item.ProductURL, Name: item.Name, Rank: rank}
			if prevRank, ok := prev[item.ProductURL]; ok {
				move.PrevRank = prevRank
				move.Delta = prevRank - rank
			} else {
				move.New = true
			}
			moves = append(moves, move)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moves, nil
}

// latestRanks maps product URL to rank in the most recent snapshot.
func (s *Store) latestRanks(source string) (map[string]int, error) {
	var latest BestsellerRank
	err := s.db.Where("source = ?", source).
		Order("recorded_at DESC").First(&latest).Error
	if err == gorm.ErrRecordNotFound {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []BestsellerRank
	err = s.db.Where("source = ? AND recorded_at = ?", source, latest.RecordedAt).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ranks := make(map[string]int, len(rows))
	for _, r := range rows {
		ranks[r.ProductURL] = r.Rank
	}
	return ranks, nil
}

// LatestBestsellers returns the most recent ranking snapshot for a
// source in rank order.
func (s *Store) LatestBestsellers(source string) ([]BestsellerRank, error) {
	var latest BestsellerRank
	err := s.db.Where("source = ?", source).
		Order("recorded_at DESC").First(&latest).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []BestsellerRank
	err = s.db.Where("source = ? AND recorded_at = ?", source, latest.RecordedAt).
		Order("rank ASC").Find(&rows).Error
	return rows, err
}

// Stats builds the dashboard snapshot across all stored products.
func (s *Store) Stats() (Stats, error) {
	st := Stats{
		BySource:   map[string]int{},
		ByCategory: map[string]int{},
	}

	var total int64
	if err := s.db.Model(&models.FashionItem{}).Count(&total).Error; err != nil {
		return st, err
	}
	st.TotalProducts = int(total)

	type bucket struct {
		Key string
		N   int
	}
	var bySource []bucket
	err := s.db.Model(&models.FashionItem{}).
		Select("source AS key, COUNT(*) AS n").
		Group("source").Scan(&bySource).Error
	if err != nil {
		return st, err
	}
	for _, b := range bySource {
		st.BySource[b.Key] = b.N
	}

	var byCategory []bucket
	err = s.db.Model(&models.FashionItem{}).
		Select("category AS key, COUNT(*) AS n").
		Where("category != ''").
		Group("category").Scan(&byCategory).Error
	if err != nil {
		return st, err
	}
	for _, b := range byCategory {
		st.ByCategory[b.Key] = b.N
	}

	var onSale int64
	err = s.db.Model(&models.FashionItem{}).
		Where("original_price > price AND price > 0").Count(&onSale).Error
	if err != nil {
		return st, err
	}
	st.OnSale = int(onSale)

	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	var newToday int64
	err = s.db.Model(&models.FashionItem{}).
		Where("scraped_at >= ?", dayStart).Count(&newToday).Error
	if err != nil {
		return st, err
	}
	st.NewToday = int(newToday)

	if st.TotalProducts > 0 {
		var avg float64
		err = s.db.Model(&models.FashionItem{}).
			Select("AVG(price)").Where("price > 0").Scan(&avg).Error
		if err != nil {
			return st, err
		}
		st.AvgPrice = avg

		var last models.FashionItem
		if err := s.db.Order("scraped_at DESC").First(&last).Error; err == nil {
			t := last.ScrapedAt
			st.LastScrapedAt = &t
		}
	}

	return st, nil
}
