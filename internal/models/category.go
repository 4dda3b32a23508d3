package models

import (
	"time"

	"github.com/google/uuid"
)

// ExportTrademaster tags records owned by the TradeMaster integration.
const ExportTrademaster = "trademaster"

type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Meta holds the title/description pair exposed to storefront templates.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Category mirrors one node of the vendor category tree. Parent is the local
// id of the parent category; uuid.Nil means top level.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ExternalID  string    `json:"external_id" db:"external_id"`
	Parent      uuid.UUID `json:"parent" db:"parent"`
	Title       string    `json:"title" db:"title"`
	SortOrder   int       `json:"order" db:"sort_order"`
	Description string    `json:"description" db:"description"`
	Address     string    `json:"address" db:"address"`
	Field1      string    `json:"field1" db:"field1"`
	Field2      string    `json:"field2" db:"field2"`
	Field3      string    `json:"field3" db:"field3"`
	Meta        Meta      `json:"meta" db:"-"`
	Export      string    `json:"export" db:"export"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Per-pass reconciliation state, never persisted.
	ParentRef string `json:"-" db:"-"` // raw vendor parent reference
	Touched   bool   `json:"-" db:"-"` // seen in the current remote pull
}

// IsRoot reports whether the category sits at the top level of the tree.
func (c *Category) IsRoot() bool {
	return c.Parent == uuid.Nil
}
