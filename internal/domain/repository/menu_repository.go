package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
)

// SectionRepository defines the interface for menu section data operations
type SectionRepository interface {
	Create(ctx context.Context, section *entity.Section) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Section, error)
	List(ctx context.Context, withItems bool) ([]entity.Section, error)
}

// ItemFilterParams contains filtering parameters for menu item queries
type ItemFilterParams struct {
	SectionID *uuid.UUID
	Search    string
	MinPrice  *int64 // cents
	MaxPrice  *int64 // cents
}

// ItemRepository defines the interface for menu item data operations
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error)
	List(ctx context.Context, params *ItemFilterParams) ([]entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PriceHistoryRepository defines the interface for item price history operations
type PriceHistoryRepository interface {
	Create(ctx context.Context, record *entity.ItemPriceHistory) error
	// CloseCurrent stamps effective_to on the item's open price row
	CloseCurrent(ctx context.Context, itemID uuid.UUID, at time.Time) error
	GetAtDate(ctx context.Context, itemID uuid.UUID, at time.Time) (*entity.ItemPriceHistory, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]entity.ItemPriceHistory, error)
}
