package sync

import (
	"log"

	"github.com/google/uuid"

	"tradesync/internal/models"
)

// sweep marks as deleted every record the current pass never touched. An
// untouched category takes its whole descendant closure down with it,
// products included; untouched products are deleted directly so that orphans
// missing from the product pull disappear even when their category survived.
// The top-level sentinel is uuid.Nil and never a record, so no closure can
// start from it. Deletion is a status flip only.
func (s *Syncer) sweep(cats *CategorySet, prods *ProductSet) (deletedCats, deletedProds int) {
	for _, c := range cats.All() {
		if c.Touched {
			continue
		}
		closure := descendants(cats, c)
		for _, member := range closure {
			if member.Status != models.StatusDeleted {
				member.Status = models.StatusDeleted
				cats.MarkDirty(member)
				deletedCats++
			}
		}
		inClosure := make(map[uuid.UUID]bool, len(closure))
		for _, member := range closure {
			inClosure[member.ID] = true
		}
		for _, p := range prods.All() {
			if inClosure[p.Category] && p.Status != models.StatusDeleted {
				p.Status = models.StatusDeleted
				prods.MarkDirty(p)
				deletedProds++
			}
		}
	}

	for _, p := range prods.All() {
		if !p.Touched && p.Status != models.StatusDeleted {
			p.Status = models.StatusDeleted
			prods.MarkDirty(p)
			deletedProds++
		}
	}

	if deletedCats > 0 || deletedProds > 0 {
		log.Printf("sync: sweep deleted %d categories, %d products", deletedCats, deletedProds)
	}
	return deletedCats, deletedProds
}

// descendants returns the category and every category transitively nested
// under it, following parent links within the working set. Quadratic in the
// worst case, which is fine for trees of at most a few hundred nodes.
func descendants(cats *CategorySet, root *models.Category) []*models.Category {
	closure := []*models.Category{root}
	seen := map[uuid.UUID]bool{root.ID: true}

	for i := 0; i < len(closure); i++ {
		for _, c := range cats.All() {
			if c.Parent == closure[i].ID && !seen[c.ID] {
				seen[c.ID] = true
				closure = append(closure, c)
			}
		}
	}
	return closure
}
