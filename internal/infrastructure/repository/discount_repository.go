package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	domainRepo "github.com/ordino-pos/ordino-api/internal/domain/repository"
	"gorm.io/gorm"
)

type discountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db *gorm.DB) domainRepo.DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(ctx context.Context, discount *entity.Discount) error {
	return conn(ctx, r.db).Create(discount).Error
}

func (r *discountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error) {
	var discount entity.Discount
	err := conn(ctx, r.db).
		Preload("DiscountItems.Item").
		Preload("DiscountConditions").
		First(&discount, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &discount, err
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*entity.Discount, error) {
	var discount entity.Discount
	err := conn(ctx, r.db).
		Preload("DiscountItems.Item").
		Preload("DiscountConditions").
		First(&discount, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &discount, err
}

func (r *discountRepository) List(ctx context.Context) ([]entity.Discount, error) {
	var discounts []entity.Discount
	err := conn(ctx, r.db).
		Preload("DiscountItems.Item").
		Preload("DiscountConditions").
		Order("created_at DESC").
		Find(&discounts).Error
	return discounts, err
}

func (r *discountRepository) Update(ctx context.Context, discount *entity.Discount) error {
	return conn(ctx, r.db).Save(discount).Error
}

func (r *discountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Discount{}, "id = ?", id).Error
}

func (r *discountRepository) CreateItems(ctx context.Context, items []entity.DiscountItem) error {
	return conn(ctx, r.db).Create(&items).Error
}

func (r *discountRepository) CreateConditions(ctx context.Context, conditions []entity.DiscountCondition) error {
	return conn(ctx, r.db).Create(&conditions).Error
}

func (r *discountRepository) UsageCount(ctx context.Context, discountID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.ReceiptDiscount{}).
		Where("discount_id = ?", discountID).
		Count(&count).Error
	return count, err
}

func (r *discountRepository) ReceiptUsageCount(ctx context.Context, discountID, receiptID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.ReceiptDiscount{}).
		Where("discount_id = ? AND receipt_id = ?", discountID, receiptID).
		Count(&count).Error
	return count, err
}

type allocationRepository struct {
	db *gorm.DB
}

// NewAllocationRepository creates a new discount allocation repository
func NewAllocationRepository(db *gorm.DB) domainRepo.AllocationRepository {
	return &allocationRepository{db: db}
}

func (r *allocationRepository) CreateReceiptDiscount(ctx context.Context, rd *entity.ReceiptDiscount) error {
	return conn(ctx, r.db).Create(rd).Error
}

func (r *allocationRepository) CreateItemDiscounts(ctx context.Context, allocations []entity.ReceiptItemDiscount) error {
	return conn(ctx, r.db).Create(&allocations).Error
}

func (r *allocationRepository) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItemDiscount, error) {
	var allocations []entity.ReceiptItemDiscount
	err := conn(ctx, r.db).Model(&entity.ReceiptItemDiscount{}).
		Select("receipt_item_discounts.*").
		Joins("JOIN receipt_items ON receipt_items.id = receipt_item_discounts.receipt_item_id").
		Where("receipt_items.receipt_id = ? AND receipt_items.deleted_at IS NULL", receiptID).
		Find(&allocations).Error
	return allocations, err
}
