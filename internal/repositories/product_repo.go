package repositories

import (
	"context"

	"tradesync/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	ActiveByExport(ctx context.Context, export string) ([]*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error)
	List(ctx context.Context, status models.Status, limit, offset int) ([]*models.Product, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, external_id, category, title, sort_order, description, extra, address,
	field1, field2, field3, field4, field5, vendorcode, barcode,
	price_cost, price, price_wholesale, unit, volume, country, manufacturer, tags,
	stock, last_changed, meta_title, meta_description, export, status, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.ExternalID, &p.Category, &p.Title, &p.SortOrder, &p.Description, &p.Extra,
		&p.Address, &p.Field1, &p.Field2, &p.Field3, &p.Field4, &p.Field5, &p.VendorCode, &p.Barcode,
		&p.PriceCost, &p.Price, &p.PriceWholesale, &p.Unit, &p.Volume, &p.Country, &p.Manufacturer,
		&p.Tags, &p.Stock, &p.LastChanged, &p.Meta.Title, &p.Meta.Description, &p.Export, &p.Status,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepo) queryMany(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ActiveByExport loads the active records owned by an integration; the sync
// pass seeds its working set from this.
func (r *productRepo) ActiveByExport(ctx context.Context, export string) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE export = $1 AND status = $2
	`
	return r.queryMany(ctx, query, export, models.StatusActive)
}

// Save upserts a product by its local id.
func (r *productRepo) Save(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, external_id, category, title, sort_order, description, extra, address,
			field1, field2, field3, field4, field5, vendorcode, barcode,
			price_cost, price, price_wholesale, unit, volume, country, manufacturer, tags,
			stock, last_changed, meta_title, meta_description, export, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			external_id = EXCLUDED.external_id, category = EXCLUDED.category, title = EXCLUDED.title,
			sort_order = EXCLUDED.sort_order, description = EXCLUDED.description, extra = EXCLUDED.extra,
			address = EXCLUDED.address, field1 = EXCLUDED.field1, field2 = EXCLUDED.field2,
			field3 = EXCLUDED.field3, field4 = EXCLUDED.field4, field5 = EXCLUDED.field5,
			vendorcode = EXCLUDED.vendorcode, barcode = EXCLUDED.barcode,
			price_cost = EXCLUDED.price_cost, price = EXCLUDED.price, price_wholesale = EXCLUDED.price_wholesale,
			unit = EXCLUDED.unit, volume = EXCLUDED.volume, country = EXCLUDED.country,
			manufacturer = EXCLUDED.manufacturer, tags = EXCLUDED.tags, stock = EXCLUDED.stock,
			last_changed = EXCLUDED.last_changed, meta_title = EXCLUDED.meta_title,
			meta_description = EXCLUDED.meta_description, export = EXCLUDED.export,
			status = EXCLUDED.status, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, p.ID, p.ExternalID, p.Category, p.Title, p.SortOrder, p.Description,
		p.Extra, p.Address, p.Field1, p.Field2, p.Field3, p.Field4, p.Field5, p.VendorCode, p.Barcode,
		p.PriceCost, p.Price, p.PriceWholesale, p.Unit, p.Volume, p.Country, p.Manufacturer, p.Tags,
		p.Stock, p.LastChanged, p.Meta.Title, p.Meta.Description, p.Export, p.Status)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

// GetByIDs loads products by local id; missing ids are silently absent from
// the result.
func (r *productRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
	`
	return r.queryMany(ctx, query, ids)
}

func (r *productRepo) List(ctx context.Context, status models.Status, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE status = $1
		ORDER BY sort_order ASC, title ASC
		LIMIT $2 OFFSET $3
	`
	return r.queryMany(ctx, query, status, limit, offset)
}
