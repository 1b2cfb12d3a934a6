package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Section represents a menu section (Starters, Mains, Drinks, ...)
type Section struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []Item `gorm:"foreignKey:SectionID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new section
func (s *Section) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Section model
func (Section) TableName() string {
	return "sections"
}

// Item represents a menu item. Price is the live catalog price; receipts
// capture their own snapshot of it at order time.
type Item struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SectionID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"section_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Price       int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Description string         `gorm:"type:text" json:"description,omitempty"`
	CreatedBy   *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Section *Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i Item) MarshalJSON() ([]byte, error) {
	type Alias Item
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(i),
		Price: float64(i.Price) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new item
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "items"
}

// ItemPriceHistory records an item's price over time. The open row
// (effective_to IS NULL) is the current price.
type ItemPriceHistory struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ItemID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"item_id"`
	Price         int64      `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	EffectiveFrom time.Time  `gorm:"not null" json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (h ItemPriceHistory) MarshalJSON() ([]byte, error) {
	type Alias ItemPriceHistory
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(h),
		Price: float64(h.Price) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new price history row
func (h *ItemPriceHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ItemPriceHistory model
func (ItemPriceHistory) TableName() string {
	return "item_price_histories"
}
