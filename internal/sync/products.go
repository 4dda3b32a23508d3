package sync

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"tradesync/internal/models"
	"tradesync/internal/trademaster"
)

// reconcileProducts pulls the vendor product list page by page and reconciles
// it into the working set. The page count is derived from the declared total,
// not from the page contents, so a short final page still terminates the
// pull. Runs after the category phase: category membership is resolved
// against the already-reconciled category working set.
func (s *Syncer) reconcileProducts(ctx context.Context, cats *CategorySet, set *ProductSet) error {
	total, err := s.client.ItemCount(ctx)
	if err != nil {
		return err
	}
	log.Printf("sync: pulling %d products in pages of %d", total, s.pageSize)

	for offset := 0; offset < total; offset += s.pageSize {
		list, err := s.client.ItemList(ctx, s.tm.Storage, offset, s.pageSize)
		if err != nil {
			return err
		}
		for _, item := range list {
			if err := item.Validate(); err != nil {
				log.Printf("sync: skipping product: %v", err)
				continue
			}
			s.applyProductItem(ctx, cats, set, item)
		}
	}
	return nil
}

func (s *Syncer) applyProductItem(ctx context.Context, cats *CategorySet, set *ProductSet, item trademaster.ProductItem) {
	p, _ := set.Match(item.ID.String())

	description := trademaster.DecodeText(item.Description)
	p.Title = item.Name
	p.SortOrder = item.Order.Int()
	p.Description = description
	p.Extra = trademaster.DecodeText(item.Extra)
	p.Address = item.Link
	p.Field1 = item.Ind1.String()
	p.Field2 = item.Ind2.String()
	p.Field3 = item.Ind3.String()
	p.Field4 = item.Ind3.String()
	p.Field5 = item.Ind3.String()
	p.VendorCode = item.VendorCode
	p.Barcode = item.Barcode
	p.PriceCost = item.PriceCost.Float()
	p.Price = item.Price.Float()
	p.PriceWholesale = item.PriceWholesale.Float()
	p.Unit = item.Unit
	p.Volume = item.Volume.Float()
	p.Country = item.Country
	p.Manufacturer = item.Manufacturer
	p.Tags = item.Tags
	p.Stock = item.Stock.Int()
	p.LastChanged = item.ChangedAt()
	p.Meta = models.Meta{
		Title:       item.Name,
		Description: trademaster.StripTags(description),
	}
	p.Status = models.StatusActive

	p.Category = uuid.Nil
	if cat := cats.ByExternalID(item.CategoryID.String()); cat != nil {
		p.Category = cat.ID
		if s.tm.AutoGenerateAddress && !strings.HasPrefix(p.Address, cat.Address+"/") {
			p.Address = cat.Address + "/" + strings.TrimPrefix(p.Address, "/")
		}
	}

	p.Touched = true
	set.MarkDirty(p)

	s.enqueueImage(ctx, item.Photo, "product", p.ID)
}
