package models

import (
	"time"

	"github.com/google/uuid"
)

// Product mirrors one vendor catalog item. Category is the local id of the
// owning category; uuid.Nil means uncategorized.
type Product struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ExternalID     string    `json:"external_id" db:"external_id"`
	Category       uuid.UUID `json:"category" db:"category"`
	Title          string    `json:"title" db:"title"`
	SortOrder      int       `json:"order" db:"sort_order"`
	Description    string    `json:"description" db:"description"`
	Extra          string    `json:"extra" db:"extra"`
	Address        string    `json:"address" db:"address"`
	Field1         string    `json:"field1" db:"field1"`
	Field2         string    `json:"field2" db:"field2"`
	Field3         string    `json:"field3" db:"field3"`
	Field4         string    `json:"field4" db:"field4"`
	Field5         string    `json:"field5" db:"field5"`
	VendorCode     string    `json:"vendorcode" db:"vendorcode"`
	Barcode        string    `json:"barcode" db:"barcode"`
	PriceCost      float64   `json:"price_cost" db:"price_cost"`
	Price          float64   `json:"price" db:"price"`
	PriceWholesale float64   `json:"price_wholesale" db:"price_wholesale"`
	Unit           string    `json:"unit" db:"unit"`
	Volume         float64   `json:"volume" db:"volume"`
	Country        string    `json:"country" db:"country"`
	Manufacturer   string    `json:"manufacturer" db:"manufacturer"`
	Tags           string    `json:"tags" db:"tags"`
	Stock          int       `json:"stock" db:"stock"`
	LastChanged    time.Time `json:"last_changed" db:"last_changed"`
	Meta           Meta      `json:"meta" db:"-"`
	Export         string    `json:"export" db:"export"`
	Status         Status    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	// Per-pass reconciliation state, never persisted.
	Touched bool `json:"-" db:"-"`
}
