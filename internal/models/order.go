package models

import (
	"time"

	"github.com/google/uuid"
)

// Delivery holds the contact block of an order.
type Delivery struct {
	Client  string `json:"client"`
	Address string `json:"address"`
}

// Order is a locally placed order. ExternalID is nil until the vendor accepts
// the order; a non-nil value means the order must never be resubmitted.
type Order struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	ExternalID   *string           `json:"external_id" db:"external_id"`
	List         map[uuid.UUID]int `json:"list" db:"list"` // local product id -> quantity
	Delivery     Delivery          `json:"delivery" db:"delivery"`
	Phone        string            `json:"phone" db:"phone"`
	Email        string            `json:"email" db:"email"`
	ShippingDate time.Time         `json:"shipping_date" db:"shipping_date"`
	Comment      string            `json:"comment" db:"comment"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// Submitted reports whether the vendor already accepted this order.
func (o *Order) Submitted() bool {
	return o.ExternalID != nil && *o.ExternalID != ""
}
