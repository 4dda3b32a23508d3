package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"tradesync/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListUnsent(ctx context.Context, limit int) ([]*models.Order, error)
	SetExternalID(ctx context.Context, id uuid.UUID, externalID string) error
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, external_id, list, delivery_client, delivery_address,
	phone, email, shipping_date, comment, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := &models.Order{}
	var list []byte
	err := row.Scan(&o.ID, &o.ExternalID, &list, &o.Delivery.Client, &o.Delivery.Address,
		&o.Phone, &o.Email, &o.ShippingDate, &o.Comment, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 {
		if err := json.Unmarshal(list, &o.List); err != nil {
			return nil, fmt.Errorf("decode order list: %w", err)
		}
	}
	return o, nil
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	list, err := json.Marshal(o.List)
	if err != nil {
		return fmt.Errorf("encode order list: %w", err)
	}
	query := `
		INSERT INTO orders (id, external_id, list, delivery_client, delivery_address,
			phone, email, shipping_date, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, o.ID, o.ExternalID, list, o.Delivery.Client, o.Delivery.Address,
		o.Phone, o.Email, o.ShippingDate, o.Comment)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

// ListUnsent returns the newest orders the vendor has not accepted yet.
func (r *orderRepo) ListUnsent(ctx context.Context, limit int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE external_id IS NULL
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// SetExternalID records the vendor-assigned order number exactly once.
func (r *orderRepo) SetExternalID(ctx context.Context, id uuid.UUID, externalID string) error {
	query := `
		UPDATE orders
		SET external_id = $1, updated_at = NOW()
		WHERE id = $2 AND external_id IS NULL
	`
	tag, err := r.db.Exec(ctx, query, externalID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s already has an external id", id)
	}
	return nil
}
