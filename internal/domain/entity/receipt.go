package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Receipt represents one customer order, dine-in or delivery.
// Exactly one of TableID or the delivery fields (PhoneNumber, Location)
// is populated; the service layer enforces this at creation.
type Receipt struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Number        int64          `gorm:"uniqueIndex;not null" json:"number"`
	IsDelivery    bool           `gorm:"default:false" json:"is_delivery"`
	PhoneNumber   string         `gorm:"size:50" json:"phone_number,omitempty"`
	Location      string         `gorm:"size:255" json:"location,omitempty"`
	Notes         string         `gorm:"type:text" json:"notes,omitempty"`
	TableID       *uuid.UUID     `gorm:"type:uuid;index" json:"table_id,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	QuickDiscount *int64         `json:"-"` // Stored in cents, excluded from JSON
	CreatedBy     *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Table            *Table            `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Items            []ReceiptItem     `gorm:"foreignKey:ReceiptID" json:"items,omitempty"`
	ReceiptDiscounts []ReceiptDiscount `gorm:"foreignKey:ReceiptID" json:"receipt_discounts,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	out := &struct {
		Alias
		QuickDiscount *float64 `json:"quick_discount,omitempty"`
	}{
		Alias: Alias(r),
	}
	if r.QuickDiscount != nil {
		qd := float64(*r.QuickDiscount) / 100
		out.QuickDiscount = &qd
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// IsCompleted reports whether the receipt has been checked out
func (r *Receipt) IsCompleted() bool {
	return r.CompletedAt != nil
}

// ReceiptItem represents one ordered line. UnitPrice is the price snapshot
// captured at order time and is never recomputed afterwards.
type ReceiptItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID       `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice *int64          `json:"-"` // Snapshot in cents, excluded from JSON
	Status    enum.ItemStatus `gorm:"size:20;not null;default:pending" json:"status"`
	Notes     string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	Item    *Item    `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Receipt *Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ri ReceiptItem) MarshalJSON() ([]byte, error) {
	type Alias ReceiptItem
	out := &struct {
		Alias
		UnitPrice *float64 `json:"unit_price,omitempty"`
		LineTotal float64  `json:"line_total"`
	}{
		Alias:     Alias(ri),
		LineTotal: float64(ri.LineTotal()) / 100,
	}
	if ri.UnitPrice != nil {
		up := float64(*ri.UnitPrice) / 100
		out.UnitPrice = &up
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new receipt item
func (ri *ReceiptItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}

// EffectivePrice returns the captured unit price, falling back to the live
// item price only when the snapshot is absent.
func (ri *ReceiptItem) EffectivePrice() int64 {
	if ri.UnitPrice != nil {
		return *ri.UnitPrice
	}
	if ri.Item != nil {
		return ri.Item.Price
	}
	return 0
}

// LineTotal returns the effective price multiplied by quantity, in cents
func (ri *ReceiptItem) LineTotal() int64 {
	return ri.EffectivePrice() * int64(ri.Quantity)
}

// ReceiptCounter backs the atomic allocation of sequential receipt numbers.
// A single row is seeded at migration time and bumped with
// UPDATE ... SET value = value + 1 RETURNING value.
type ReceiptCounter struct {
	ID    int   `gorm:"primary_key" json:"id"`
	Value int64 `gorm:"not null;default:0" json:"value"`
}

// TableName returns the table name for the ReceiptCounter model
func (ReceiptCounter) TableName() string {
	return "receipt_counters"
}
