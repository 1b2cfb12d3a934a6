package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Table represents a dining table
type Table struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Number    int              `gorm:"not null;index" json:"number"`
	Status    enum.TableStatus `gorm:"size:20;not null;default:AVAILABLE" json:"status"`
	CreatedBy *uuid.UUID       `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new table
func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Table model
func (Table) TableName() string {
	return "tables"
}
