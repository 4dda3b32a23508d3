package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"tradesync/internal/config"
	"tradesync/internal/models"
	"tradesync/internal/repositories"
	"tradesync/internal/trademaster"
)

// VendorCatalog is the slice of the vendor API a catalog pass consumes.
type VendorCatalog interface {
	CatalogList(ctx context.Context) ([]trademaster.CatalogItem, error)
	ItemCount(ctx context.Context) (int, error)
	ItemList(ctx context.Context, storage, offset, limit int) ([]trademaster.ProductItem, error)
}

// ImageEnqueuer schedules an asynchronous fetch of a vendor photo into the
// local image cache.
type ImageEnqueuer interface {
	EnqueueImageDownload(ctx context.Context, photo, kind string, id uuid.UUID) error
}

// Result is the outcome of one catalog sync pass.
type Result struct {
	Status            PassStatus `json:"status"`
	Error             string     `json:"error,omitempty"`
	Categories        int        `json:"categories"`
	Products          int        `json:"products"`
	DeletedCategories int        `json:"deleted_categories"`
	DeletedProducts   int        `json:"deleted_products"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        time.Time  `json:"finished_at"`
}

// Syncer runs full reconciliation passes against the vendor catalog:
// categories, then products, then the deletion sweep, inside one failure
// boundary. Passes must not run concurrently; the caller serializes them.
type Syncer struct {
	client     VendorCatalog
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	images     ImageEnqueuer // optional
	tm         config.TradeMasterConfig
	pageSize   int
}

// NewSyncer wires a catalog syncer. images may be nil when file caching is
// disabled.
func NewSyncer(client VendorCatalog, categories repositories.CategoryRepository,
	products repositories.ProductRepository, images ImageEnqueuer, cfg *config.Config) *Syncer {
	return &Syncer{
		client:     client,
		categories: categories,
		products:   products,
		images:     images,
		tm:         cfg.TradeMaster,
		pageSize:   cfg.Sync.PageSize,
	}
}

// Run executes one full pass. A transport failure anywhere aborts the pass
// with status failed; upserts flushed by completed phases stay in place.
func (s *Syncer) Run(ctx context.Context) Result {
	result := Result{StartedAt: time.Now()}

	existingCats, err := s.categories.ActiveByExport(ctx, models.ExportTrademaster)
	if err != nil {
		return s.fail(result, fmt.Errorf("load categories: %w", err))
	}
	existingProds, err := s.products.ActiveByExport(ctx, models.ExportTrademaster)
	if err != nil {
		return s.fail(result, fmt.Errorf("load products: %w", err))
	}

	cats := NewCategorySet(existingCats)
	prods := NewProductSet(existingProds)

	if err := s.reconcileCategories(ctx, cats); err != nil {
		return s.fail(result, err)
	}
	if err := s.flushCategories(ctx, cats); err != nil {
		return s.fail(result, err)
	}

	if err := s.reconcileProducts(ctx, cats, prods); err != nil {
		return s.fail(result, err)
	}
	if err := s.flushProducts(ctx, prods); err != nil {
		return s.fail(result, err)
	}

	deletedCats, deletedProds := s.sweep(cats, prods)
	if err := s.flushCategories(ctx, cats); err != nil {
		return s.fail(result, err)
	}
	if err := s.flushProducts(ctx, prods); err != nil {
		return s.fail(result, err)
	}

	for _, c := range cats.All() {
		if c.Touched {
			result.Categories++
		}
	}
	for _, p := range prods.All() {
		if p.Touched {
			result.Products++
		}
	}
	result.DeletedCategories = deletedCats
	result.DeletedProducts = deletedProds
	result.Status = PassDone
	result.FinishedAt = time.Now()
	log.Printf("sync: pass done, %d categories, %d products, %d/%d deleted",
		result.Categories, result.Products, deletedCats, deletedProds)
	return result
}

func (s *Syncer) fail(result Result, err error) Result {
	log.Printf("sync: pass failed: %v", err)
	result.Status = PassFailed
	result.Error = err.Error()
	result.FinishedAt = time.Now()
	return result
}

func (s *Syncer) flushCategories(ctx context.Context, set *CategorySet) error {
	for _, c := range set.Dirty() {
		if err := s.categories.Save(ctx, c); err != nil {
			return fmt.Errorf("save category %s: %w", c.ExternalID, err)
		}
	}
	set.ClearDirty()
	return nil
}

func (s *Syncer) flushProducts(ctx context.Context, set *ProductSet) error {
	for _, p := range set.Dirty() {
		if err := s.products.Save(ctx, p); err != nil {
			return fmt.Errorf("save product %s: %w", p.ExternalID, err)
		}
	}
	set.ClearDirty()
	return nil
}

func (s *Syncer) enqueueImage(ctx context.Context, photo, kind string, id uuid.UUID) {
	if s.images == nil || !s.tm.FileCaching || photo == "" {
		return
	}
	if err := s.images.EnqueueImageDownload(ctx, photo, kind, id); err != nil {
		log.Printf("sync: enqueue %s image for %s: %v", kind, id, err)
	}
}
