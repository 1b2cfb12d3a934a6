package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	domainRepo "github.com/ordino-pos/ordino-api/internal/domain/repository"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return conn(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).
		Preload("Table").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Items.Item").
		Preload("ReceiptDiscounts.Discount").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) List(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := conn(ctx, r.db).Model(&entity.Receipt{})

	if params.Completed != nil {
		if *params.Completed {
			query = query.Where("completed_at IS NOT NULL")
		} else {
			query = query.Where("completed_at IS NULL")
		}
	}
	if params.IsDelivery != nil {
		query = query.Where("is_delivery = ?", *params.IsDelivery)
	}
	if params.TableID != nil {
		query = query.Where("table_id = ?", *params.TableID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Table").
		Preload("Items").
		Order("number DESC").
		Find(&receipts).Error

	return receipts, total, err
}

func (r *receiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	return conn(ctx, r.db).Save(receipt).Error
}

// NextNumber bumps the counter row and returns the new value in one
// statement, so concurrent transactions never observe the same number.
func (r *receiptRepository) NextNumber(ctx context.Context) (int64, error) {
	var number int64
	err := conn(ctx, r.db).
		Raw("UPDATE receipt_counters SET value = value + 1 WHERE id = 1 RETURNING value").
		Scan(&number).Error
	return number, err
}

type receiptItemRepository struct {
	db *gorm.DB
}

// NewReceiptItemRepository creates a new receipt item repository
func NewReceiptItemRepository(db *gorm.DB) domainRepo.ReceiptItemRepository {
	return &receiptItemRepository{db: db}
}

func (r *receiptItemRepository) CreateBatch(ctx context.Context, items []entity.ReceiptItem) error {
	return conn(ctx, r.db).Create(&items).Error
}

func (r *receiptItemRepository) GetByReceipt(ctx context.Context, receiptID, itemID uuid.UUID) (*entity.ReceiptItem, error) {
	var item entity.ReceiptItem
	err := conn(ctx, r.db).
		Where("id = ? AND receipt_id = ?", itemID, receiptID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *receiptItemRepository) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItem, error) {
	var items []entity.ReceiptItem
	err := conn(ctx, r.db).
		Preload("Item").
		Where("receipt_id = ?", receiptID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *receiptItemRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ItemStatus) error {
	return conn(ctx, r.db).Model(&entity.ReceiptItem{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *receiptItemRepository) ListByStatuses(ctx context.Context, statuses []enum.ItemStatus) ([]entity.ReceiptItem, error) {
	var items []entity.ReceiptItem
	err := conn(ctx, r.db).
		Preload("Item.Section").
		Preload("Receipt.Table").
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
