package sync

import (
	"github.com/google/uuid"

	"tradesync/internal/models"
)

// CategorySet is the in-memory working set of categories for one pass, keyed
// by the vendor external id. Matching the same external id twice returns the
// same instance, which the parent-link resolution depends on.
type CategorySet struct {
	byExternal map[string]*models.Category
	byID       map[uuid.UUID]*models.Category
	items      []*models.Category
	dirty      map[uuid.UUID]*models.Category
}

// NewCategorySet seeds a working set from the records already in storage.
func NewCategorySet(existing []*models.Category) *CategorySet {
	s := &CategorySet{
		byExternal: make(map[string]*models.Category, len(existing)),
		byID:       make(map[uuid.UUID]*models.Category, len(existing)),
		dirty:      make(map[uuid.UUID]*models.Category),
	}
	for _, c := range existing {
		s.byExternal[c.ExternalID] = c
		s.byID[c.ID] = c
		s.items = append(s.items, c)
	}
	return s
}

// Match finds the category with the given external id, creating and inserting
// a fresh record when none exists yet. The second result reports creation.
func (s *CategorySet) Match(externalID string) (*models.Category, bool) {
	if c, ok := s.byExternal[externalID]; ok {
		return c, false
	}
	c := &models.Category{
		ID:         uuid.New(),
		ExternalID: externalID,
		Export:     models.ExportTrademaster,
		Status:     models.StatusActive,
	}
	s.byExternal[externalID] = c
	s.byID[c.ID] = c
	s.items = append(s.items, c)
	return c, true
}

// ByExternalID looks up a category without creating one.
func (s *CategorySet) ByExternalID(externalID string) *models.Category {
	return s.byExternal[externalID]
}

// ByID looks up a category by its local identifier.
func (s *CategorySet) ByID(id uuid.UUID) *models.Category {
	return s.byID[id]
}

// All returns every category in the working set.
func (s *CategorySet) All() []*models.Category {
	return s.items
}

// MarkDirty queues a category for persistence at the end of the phase.
func (s *CategorySet) MarkDirty(c *models.Category) {
	s.dirty[c.ID] = c
}

// Dirty returns the records queued for persistence.
func (s *CategorySet) Dirty() []*models.Category {
	out := make([]*models.Category, 0, len(s.dirty))
	for _, c := range s.items {
		if _, ok := s.dirty[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ClearDirty empties the persistence queue after a completed flush, so later
// phases only write what they themselves modified.
func (s *CategorySet) ClearDirty() {
	s.dirty = make(map[uuid.UUID]*models.Category)
}

// ProductSet is the in-memory working set of products for one pass, keyed by
// the vendor external id.
type ProductSet struct {
	byExternal map[string]*models.Product
	items      []*models.Product
	dirty      map[uuid.UUID]*models.Product
}

// NewProductSet seeds a working set from the records already in storage.
func NewProductSet(existing []*models.Product) *ProductSet {
	s := &ProductSet{
		byExternal: make(map[string]*models.Product, len(existing)),
		dirty:      make(map[uuid.UUID]*models.Product),
	}
	for _, p := range existing {
		s.byExternal[p.ExternalID] = p
		s.items = append(s.items, p)
	}
	return s
}

// Match finds the product with the given external id, creating and inserting
// a fresh record when none exists yet. The second result reports creation.
func (s *ProductSet) Match(externalID string) (*models.Product, bool) {
	if p, ok := s.byExternal[externalID]; ok {
		return p, false
	}
	p := &models.Product{
		ID:         uuid.New(),
		ExternalID: externalID,
		Export:     models.ExportTrademaster,
		Status:     models.StatusActive,
	}
	s.byExternal[externalID] = p
	s.items = append(s.items, p)
	return p, true
}

// All returns every product in the working set.
func (s *ProductSet) All() []*models.Product {
	return s.items
}

// MarkDirty queues a product for persistence at the end of the phase.
func (s *ProductSet) MarkDirty(p *models.Product) {
	s.dirty[p.ID] = p
}

// Dirty returns the records queued for persistence.
func (s *ProductSet) Dirty() []*models.Product {
	out := make([]*models.Product, 0, len(s.dirty))
	for _, p := range s.items {
		if _, ok := s.dirty[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ClearDirty empties the persistence queue after a completed flush, so later
// phases only write what they themselves modified.
func (s *ProductSet) ClearDirty() {
	s.dirty = make(map[uuid.UUID]*models.Product)
}
