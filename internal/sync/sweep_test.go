package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradesync/internal/config"
	"tradesync/internal/models"
)

func seedCategory(set *CategorySet, externalID string, touched bool) *models.Category {
	c, _ := set.Match(externalID)
	c.Touched = touched
	return c
}

func seedProduct(set *ProductSet, externalID string, cat *models.Category, touched bool) *models.Product {
	p, _ := set.Match(externalID)
	if cat != nil {
		p.Category = cat.ID
	}
	p.Touched = touched
	return p
}

func TestSweepCascadesThroughDescendants(t *testing.T) {
	cats := NewCategorySet(nil)
	gone := seedCategory(cats, "10", false)
	child := seedCategory(cats, "20", true) // touched, but nested under a gone parent
	child.Parent = gone.ID
	grandchild := seedCategory(cats, "30", true)
	grandchild.Parent = child.ID

	prods := NewProductSet(nil)
	inChild := seedProduct(prods, "100", child, true)
	inGrandchild := seedProduct(prods, "101", grandchild, true)

	s := newTestSyncer(&fakeVendor{}, config.TradeMasterConfig{})
	deletedCats, deletedProds := s.sweep(cats, prods)

	assert.Equal(t, 3, deletedCats)
	assert.Equal(t, 2, deletedProds)
	assert.Equal(t, models.StatusDeleted, gone.Status)
	assert.Equal(t, models.StatusDeleted, child.Status)
	assert.Equal(t, models.StatusDeleted, grandchild.Status)
	assert.Equal(t, models.StatusDeleted, inChild.Status)
	assert.Equal(t, models.StatusDeleted, inGrandchild.Status)
}

func TestSweepKeepsTouchedRecords(t *testing.T) {
	cats := NewCategorySet(nil)
	kept := seedCategory(cats, "10", true)

	prods := NewProductSet(nil)
	keptProd := seedProduct(prods, "100", kept, true)

	s := newTestSyncer(&fakeVendor{}, config.TradeMasterConfig{})
	deletedCats, deletedProds := s.sweep(cats, prods)

	assert.Zero(t, deletedCats)
	assert.Zero(t, deletedProds)
	assert.Equal(t, models.StatusActive, kept.Status)
	assert.Equal(t, models.StatusActive, keptProd.Status)
	assert.Empty(t, cats.Dirty())
	assert.Empty(t, prods.Dirty())
}

func TestSweepDeletesUntouchedProductInLiveCategory(t *testing.T) {
	cats := NewCategorySet(nil)
	kept := seedCategory(cats, "10", true)

	prods := NewProductSet(nil)
	orphan := seedProduct(prods, "100", kept, false)

	s := newTestSyncer(&fakeVendor{}, config.TradeMasterConfig{})
	deletedCats, deletedProds := s.sweep(cats, prods)

	assert.Zero(t, deletedCats)
	assert.Equal(t, 1, deletedProds)
	assert.Equal(t, models.StatusDeleted, orphan.Status)
	assert.Equal(t, models.StatusActive, kept.Status)
}

func TestSweepTopLevelSurvivesSiblingDeletion(t *testing.T) {
	// Two top-level categories share the uuid.Nil parent sentinel. Deleting
	// one must not pull the other into its closure.
	cats := NewCategorySet(nil)
	gone := seedCategory(cats, "10", false)
	kept := seedCategory(cats, "20", true)

	prods := NewProductSet(nil)
	keptProd := seedProduct(prods, "100", kept, true)

	s := newTestSyncer(&fakeVendor{}, config.TradeMasterConfig{})
	deletedCats, deletedProds := s.sweep(cats, prods)

	assert.Equal(t, 1, deletedCats)
	assert.Zero(t, deletedProds)
	assert.Equal(t, models.StatusDeleted, gone.Status)
	assert.Equal(t, models.StatusActive, kept.Status)
	assert.Equal(t, models.StatusActive, keptProd.Status)
}

func TestSweepCountsEachRecordOnce(t *testing.T) {
	// Two gone categories in one chain: the child appears in its own closure
	// and in its parent's, but is deleted and counted once.
	cats := NewCategorySet(nil)
	parent := seedCategory(cats, "10", false)
	child := seedCategory(cats, "20", false)
	child.Parent = parent.ID

	s := newTestSyncer(&fakeVendor{}, config.TradeMasterConfig{})
	deletedCats, _ := s.sweep(cats, NewProductSet(nil))

	assert.Equal(t, 2, deletedCats)
}
