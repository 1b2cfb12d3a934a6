package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Discount represents a promotional rule identified by a unique code.
// Amount is used for amount-type discounts, Percentage for percentage-type;
// combo-type discounts may carry either and additionally own DiscountItems
// defining their eligibility.
type Discount struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Code        string            `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Type        enum.DiscountType `gorm:"size:20;not null" json:"type"`
	Amount      int64             `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Percentage  float64           `gorm:"default:0" json:"percentage,omitempty"`
	MaxReceipts *int              `json:"max_receipts,omitempty"`
	StartDate   time.Time         `gorm:"not null" json:"start_date"`
	EndDate     time.Time         `gorm:"not null" json:"end_date"`
	IsActive    bool              `gorm:"default:true" json:"is_active"`
	CreatedBy   *uuid.UUID        `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`

	DiscountItems      []DiscountItem      `gorm:"foreignKey:DiscountID" json:"discount_items,omitempty"`
	DiscountConditions []DiscountCondition `gorm:"foreignKey:DiscountID" json:"discount_conditions,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (d Discount) MarshalJSON() ([]byte, error) {
	type Alias Discount
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(d),
		Amount: float64(d.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new discount
func (d *Discount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Discount model
func (Discount) TableName() string {
	return "discounts"
}

// DiscountItem defines a combo eligibility entry: the catalog item must be
// present on the receipt with at least MinQuantity units.
type DiscountItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	DiscountID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"discount_id"`
	ItemID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"item_id"`
	MinQuantity int        `gorm:"not null;default:1" json:"min_quantity"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// BeforeCreate generates a UUID before creating a new discount item
func (di *DiscountItem) BeforeCreate(tx *gorm.DB) error {
	if di.ID == uuid.Nil {
		di.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiscountItem model
func (DiscountItem) TableName() string {
	return "discount_items"
}

// DiscountCondition is an extra gate on a discount. Value holds the
// threshold for min_amount conditions, or a comma-separated weekday
// allow-list for day_of_week conditions.
type DiscountCondition struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	DiscountID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"discount_id"`
	ConditionType enum.ConditionType `gorm:"size:20;not null" json:"condition_type"`
	Value         string             `gorm:"size:255;not null" json:"value"`
	CreatedBy     *uuid.UUID         `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new discount condition
func (dc *DiscountCondition) BeforeCreate(tx *gorm.DB) error {
	if dc.ID == uuid.Nil {
		dc.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiscountCondition model
func (DiscountCondition) TableName() string {
	return "discount_conditions"
}

// ReceiptDiscount records that a discount has been applied to a receipt.
// Rows are counted against the discount's max_receipts usage cap.
type ReceiptDiscount struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID  uuid.UUID `gorm:"type:uuid;not null;index" json:"receipt_id"`
	DiscountID uuid.UUID `gorm:"type:uuid;not null;index" json:"discount_id"`
	CreatedAt  time.Time `json:"created_at"`

	Discount *Discount `gorm:"foreignKey:DiscountID" json:"discount,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt discount
func (rd *ReceiptDiscount) BeforeCreate(tx *gorm.DB) error {
	if rd.ID == uuid.Nil {
		rd.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptDiscount model
func (ReceiptDiscount) TableName() string {
	return "receipt_discounts"
}

// ReceiptItemDiscount is the monetary allocation of a discount against one
// receipt item. Per discount per receipt the allocations sum exactly to the
// discount's computed amount.
type ReceiptItemDiscount struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"receipt_item_id"`
	DiscountID    uuid.UUID `gorm:"type:uuid;not null;index" json:"discount_id"`
	AppliedAmount int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt     time.Time `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (rid ReceiptItemDiscount) MarshalJSON() ([]byte, error) {
	type Alias ReceiptItemDiscount
	return json.Marshal(&struct {
		Alias
		AppliedAmount float64 `json:"applied_amount"`
	}{
		Alias:         Alias(rid),
		AppliedAmount: float64(rid.AppliedAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new allocation row
func (rid *ReceiptItemDiscount) BeforeCreate(tx *gorm.DB) error {
	if rid.ID == uuid.Nil {
		rid.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptItemDiscount model
func (ReceiptItemDiscount) TableName() string {
	return "receipt_item_discounts"
}
