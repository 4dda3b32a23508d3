package sync

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"tradesync/internal/models"
	"tradesync/internal/trademaster"
)

// reconcileCategories pulls the vendor's flat category list and reconciles it
// into the working set. Parent links may reference entries that appear later
// in the list, so resolution runs as a second pass once every item has been
// matched.
func (s *Syncer) reconcileCategories(ctx context.Context, set *CategorySet) error {
	log.Printf("sync: pulling category list")

	list, err := s.client.CatalogList(ctx)
	if err != nil {
		return err
	}

	for _, item := range list {
		if err := item.Validate(); err != nil {
			log.Printf("sync: skipping category: %v", err)
			continue
		}

		c, _ := set.Match(item.ID.String())
		description := trademaster.DecodeText(item.Description)
		c.Title = item.Name
		c.SortOrder = item.Order.Int()
		c.Description = description
		c.Address = item.Link
		c.Field1 = item.Ind1.String()
		c.Field2 = item.Ind2.String()
		c.Field3 = item.Ind3.String()
		c.Meta = models.Meta{
			Title:       item.Name,
			Description: trademaster.StripTags(description),
		}
		c.Status = models.StatusActive
		c.ParentRef = item.Parent.String()
		c.Touched = true
		set.MarkDirty(c)

		s.enqueueImage(ctx, item.Photo, "category", c.ID)
	}

	resolveParents(set)

	if s.tm.AutoGenerateAddress {
		deriveAddresses(set)
	}
	return nil
}

// resolveParents turns stashed raw parent references into local identifiers.
// A zero reference means top level; a reference that matches nothing in the
// working set is dangling and resolves to top level as well.
func resolveParents(set *CategorySet) {
	for _, c := range set.All() {
		parent := uuid.Nil
		if ref := trademaster.FlexString(c.ParentRef); !ref.Zero() {
			if p := set.ByExternalID(c.ParentRef); p != nil {
				parent = p.ID
			}
		}
		if c.Parent != parent {
			c.Parent = parent
			set.MarkDirty(c)
		}
	}
}

// deriveAddresses prefixes every category address with its parent's address.
// Parents are finalized before their children are read, so a chain of nested
// categories converges in a single traversal regardless of list order.
func deriveAddresses(set *CategorySet) {
	done := make(map[uuid.UUID]bool, len(set.All()))

	var finalize func(c *models.Category)
	finalize = func(c *models.Category) {
		if done[c.ID] {
			return
		}
		done[c.ID] = true

		parent := set.ByID(c.Parent)
		if parent == nil {
			return
		}
		finalize(parent)
		if !strings.HasPrefix(c.Address, parent.Address+"/") {
			c.Address = parent.Address + "/" + strings.TrimPrefix(c.Address, "/")
			set.MarkDirty(c)
		}
	}

	for _, c := range set.All() {
		finalize(c)
	}
}
