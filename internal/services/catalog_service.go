// internal/services/catalog_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javiei/proomtb-backend/internal/catalog"
	"github.com/javiei/proomtb-backend/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogService fetches raw catalog rows from the hosted data service,
// normalizes them, and serves filtered/paged views. The normalized list is
// cached in memory and mirrored to catalog_entries so cold starts can read
// a single product before the first refresh completes.
type CatalogService struct {
	db       *gorm.DB
	norm     *catalog.Normalizer
	pageSize int
	log      *logrus.Entry

	mu         sync.RWMutex
	products   []catalog.NormalizedProduct
	appliedGen uint64

	// fetchGen guards against a slow fetch overwriting a newer one: each
	// refresh takes an id and only results newer than the last applied
	// generation may install themselves.
	fetchGen atomic.Uint64
}

func NewCatalogService(db *gorm.DB, norm *catalog.Normalizer, pageSize int, logger *logrus.Logger) *CatalogService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if pageSize < 1 {
		pageSize = catalog.DefaultPageSize
	}
	return &CatalogService{
		db:       db,
		norm:     norm,
		pageSize: pageSize,
		log:      logger.WithField("component", "catalog"),
	}
}

// Refresh re-fetches and re-normalizes the full catalog. Stale responses
// (a newer refresh was issued while this one was in flight) are discarded.
func (s *CatalogService) Refresh(ctx context.Context) error {
	gen := s.fetchGen.Add(1)

	var rows []models.RawProduct
	if err := s.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	records := make([]catalog.RawProductRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, rawRecord(row))
	}
	normalized := s.norm.NormalizeAll(records)

	if !s.apply(gen, normalized) {
		s.log.WithField("generation", gen).Info("Discarding stale catalog fetch")
		return nil
	}

	if err := s.persistEntries(ctx, normalized); err != nil {
		// The in-memory catalog is already serving; the mirror just lags.
		s.log.WithError(err).Warn("Failed to persist normalized catalog entries")
	}

	s.log.WithField("products", len(normalized)).Info("Catalog refreshed")
	return nil
}

// apply installs a fetch result under the lock. The generation comparison
// happens inside the critical section so a slow fetch that was issued before
// a newer one can never land after it.
func (s *CatalogService) apply(gen uint64, products []catalog.NormalizedProduct) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen <= s.appliedGen {
		return false
	}
	s.appliedGen = gen
	s.products = products
	return true
}

// Products returns a copy of the full normalized catalog in fetch order.
func (s *CatalogService) Products() []catalog.NormalizedProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.NormalizedProduct(nil), s.products...)
}

// Query applies the filter state and reveals the first visible elements.
// visible <= 0 means one page. Returns the window, whether more remain, and
// the filtered total.
func (s *CatalogService) Query(state catalog.FilterState, visible int) ([]catalog.NormalizedProduct, bool, int) {
	if visible < 1 {
		visible = s.pageSize
	}

	filtered := catalog.Filter(s.Products(), state)
	total := len(filtered)
	if visible > total {
		visible = total
	}
	return filtered[:visible], visible < total, total
}

// PageSize reports the incremental-reveal step handed to clients.
func (s *CatalogService) PageSize() int {
	return s.pageSize
}

// Get serves one product from the cache, falling back to the persisted
// normalized entry when the cache is cold.
func (s *CatalogService) Get(ctx context.Context, id string) (*catalog.NormalizedProduct, error) {
	s.mu.RLock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			s.mu.RUnlock()
			return &p, nil
		}
	}
	s.mu.RUnlock()

	var entry models.CatalogEntry
	if err := s.db.WithContext(ctx).First(&entry, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	p := entryProduct(entry)
	return &p, nil
}

// Categories lists the distinct categories present in the catalog, sorted.
func (s *CatalogService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, p := range s.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}

func (s *CatalogService) persistEntries(ctx context.Context, products []catalog.NormalizedProduct) error {
	if len(products) == 0 {
		return nil
	}

	entries := make([]models.CatalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, models.CatalogEntry{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Brand:       p.Brand,
			Model:       p.Model,
			Price:       p.Price,
			OldPrice:    p.OldPrice,
			Images:      pq.StringArray(p.Images),
			Colors:      pq.StringArray(p.Colors),
			Sizes:       pq.StringArray(p.Sizes),
			Stock:       p.Stock,
		})
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "category", "brand", "model",
			"price", "old_price", "images", "colors", "sizes", "stock", "updated_at",
		}),
	}).CreateInBatches(entries, 100).Error
}

func rawRecord(row models.RawProduct) catalog.RawProductRecord {
	return catalog.RawProductRecord{
		ID:          catalog.FlexString(row.ID),
		Name:        row.Name,
		Description: row.Description,
		Category:    row.Category,
		Brand:       row.Brand,
		Model:       row.Model,
		Price:       json.RawMessage(row.Price),
		OldPrice:    json.RawMessage(row.OldPrice),
		Images:      json.RawMessage(row.Images),
		Image:       row.Image,
		ImageURL:    row.ImageURL,
		Colors:      json.RawMessage(row.Colors),
		Sizes:       json.RawMessage(row.Sizes),
		Stock:       json.RawMessage(row.Stock),
	}
}

func entryProduct(entry models.CatalogEntry) catalog.NormalizedProduct {
	return catalog.NormalizedProduct{
		ID:          entry.ProductID,
		Name:        entry.Name,
		Description: entry.Description,
		Category:    entry.Category,
		Brand:       entry.Brand,
		Model:       entry.Model,
		Price:       entry.Price,
		OldPrice:    entry.OldPrice,
		Images:      []string(entry.Images),
		Colors:      []string(entry.Colors),
		Sizes:       []string(entry.Sizes),
		Stock:       entry.Stock,
	}
}
