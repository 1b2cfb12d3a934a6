package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
)

// DiscountRepository defines the interface for discount data operations
type DiscountRepository interface {
	Create(ctx context.Context, discount *entity.Discount) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error)
	// GetByCode returns the discount with items and conditions preloaded
	GetByCode(ctx context.Context, code string) (*entity.Discount, error)
	List(ctx context.Context) ([]entity.Discount, error)
	Update(ctx context.Context, discount *entity.Discount) error
	Delete(ctx context.Context, id uuid.UUID) error
	CreateItems(ctx context.Context, items []entity.DiscountItem) error
	CreateConditions(ctx context.Context, conditions []entity.DiscountCondition) error
	// UsageCount returns how many receipts this discount has been applied to
	UsageCount(ctx context.Context, discountID uuid.UUID) (int64, error)
	// ReceiptUsageCount returns how many times this discount has been applied
	// to one specific receipt
	ReceiptUsageCount(ctx context.Context, discountID, receiptID uuid.UUID) (int64, error)
}

// AllocationRepository defines the interface for discount application records:
// the per-receipt usage rows and the per-item monetary allocations.
type AllocationRepository interface {
	CreateReceiptDiscount(ctx context.Context, rd *entity.ReceiptDiscount) error
	CreateItemDiscounts(ctx context.Context, allocations []entity.ReceiptItemDiscount) error
	// ListByReceipt returns all allocation rows whose item belongs to the receipt
	ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItemDiscount, error)
}
