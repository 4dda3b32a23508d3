package repositories

import (
	"context"

	"tradesync/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	ActiveByExport(ctx context.Context, export string) ([]*models.Category, error)
	Save(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, status models.Status, limit, offset int) ([]*models.Category, error)
}

type categoryRepo struct {
	db DB
}

func NewCategoryRepo(db DB) CategoryRepository {
	return &categoryRepo{db: db}
}

const categoryColumns = `id, external_id, parent, title, sort_order, description, address,
	field1, field2, field3, meta_title, meta_description, export, status, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	c := &models.Category{}
	err := row.Scan(&c.ID, &c.ExternalID, &c.Parent, &c.Title, &c.SortOrder, &c.Description, &c.Address,
		&c.Field1, &c.Field2, &c.Field3, &c.Meta.Title, &c.Meta.Description, &c.Export, &c.Status,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ActiveByExport loads the active records owned by an integration; the sync
// pass seeds its working set from this.
func (r *categoryRepo) ActiveByExport(ctx context.Context, export string) ([]*models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE export = $1 AND status = $2
	`
	rows, err := r.db.Query(ctx, query, export, models.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Save upserts a category by its local id.
func (r *categoryRepo) Save(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (id, external_id, parent, title, sort_order, description, address,
			field1, field2, field3, meta_title, meta_description, export, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			external_id = EXCLUDED.external_id, parent = EXCLUDED.parent, title = EXCLUDED.title,
			sort_order = EXCLUDED.sort_order, description = EXCLUDED.description, address = EXCLUDED.address,
			field1 = EXCLUDED.field1, field2 = EXCLUDED.field2, field3 = EXCLUDED.field3,
			meta_title = EXCLUDED.meta_title, meta_description = EXCLUDED.meta_description,
			export = EXCLUDED.export, status = EXCLUDED.status, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, c.ID, c.ExternalID, c.Parent, c.Title, c.SortOrder, c.Description,
		c.Address, c.Field1, c.Field2, c.Field3, c.Meta.Title, c.Meta.Description, c.Export, c.Status)
	return err
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1
	`
	return scanCategory(r.db.QueryRow(ctx, query, id))
}

func (r *categoryRepo) List(ctx context.Context, status models.Status, limit, offset int) ([]*models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE status = $1
		ORDER BY sort_order ASC, title ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
