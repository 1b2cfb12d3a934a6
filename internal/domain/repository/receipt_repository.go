package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/pkg/pagination"
)

// ReceiptFilterParams contains filtering parameters for receipt queries
type ReceiptFilterParams struct {
	Pagination *pagination.PaginationParams
	Completed  *bool
	IsDelivery *bool
	TableID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	// GetWithDetails preloads table, non-deleted items with their catalog
	// items, and applied discounts
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	List(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	Update(ctx context.Context, receipt *entity.Receipt) error
	// NextNumber atomically allocates the next sequential receipt number
	NextNumber(ctx context.Context) (int64, error)
}

// ReceiptItemRepository defines the interface for receipt line item operations
type ReceiptItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.ReceiptItem) error
	// GetByReceipt returns the non-deleted item belonging to the given receipt
	GetByReceipt(ctx context.Context, receiptID, itemID uuid.UUID) (*entity.ReceiptItem, error)
	ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItem, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ItemStatus) error
	// ListByStatuses returns non-deleted items in the given statuses across all
	// receipts, oldest first, with item/section/receipt/table preloaded
	ListByStatuses(ctx context.Context, statuses []enum.ItemStatus) ([]entity.ReceiptItem, error)
}
