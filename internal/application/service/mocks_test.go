package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/stretchr/testify/mock"
)

// passTransactor runs the function directly, without a real transaction
type passTransactor struct{}

func (passTransactor) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Mock repositories for testing

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) List(ctx context.Context, params *repository.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]entity.Receipt), args.Get(1).(int64), args.Error(2)
}

func (m *MockReceiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) NextNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockReceiptItemRepository struct {
	mock.Mock
}

func (m *MockReceiptItemRepository) CreateBatch(ctx context.Context, items []entity.ReceiptItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockReceiptItemRepository) GetByReceipt(ctx context.Context, receiptID, itemID uuid.UUID) (*entity.ReceiptItem, error) {
	args := m.Called(ctx, receiptID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReceiptItem), args.Error(1)
}

func (m *MockReceiptItemRepository) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItem, error) {
	args := m.Called(ctx, receiptID)
	return args.Get(0).([]entity.ReceiptItem), args.Error(1)
}

func (m *MockReceiptItemRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ItemStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockReceiptItemRepository) ListByStatuses(ctx context.Context, statuses []enum.ItemStatus) ([]entity.ReceiptItem, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]entity.ReceiptItem), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *entity.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Item), args.Error(1)
}

func (m *MockItemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]entity.Item), args.Error(1)
}

func (m *MockItemRepository) List(ctx context.Context, params *repository.ItemFilterParams) ([]entity.Item, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]entity.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *entity.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTableRepository struct {
	mock.Mock
}

func (m *MockTableRepository) Create(ctx context.Context, table *entity.Table) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Table), args.Error(1)
}

func (m *MockTableRepository) GetByNumber(ctx context.Context, number int) (*entity.Table, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Table), args.Error(1)
}

func (m *MockTableRepository) List(ctx context.Context, status *enum.TableStatus) ([]entity.Table, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]entity.Table), args.Error(1)
}

func (m *MockTableRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTableRepository) SetStatusIf(ctx context.Context, id uuid.UUID, expected, target enum.TableStatus) (bool, error) {
	args := m.Called(ctx, id, expected, target)
	return args.Bool(0), args.Error(1)
}

func (m *MockTableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) Create(ctx context.Context, discount *entity.Discount) error {
	args := m.Called(ctx, discount)
	return args.Error(0)
}

func (m *MockDiscountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Discount), args.Error(1)
}

func (m *MockDiscountRepository) GetByCode(ctx context.Context, code string) (*entity.Discount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Discount), args.Error(1)
}

func (m *MockDiscountRepository) List(ctx context.Context) ([]entity.Discount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Discount), args.Error(1)
}

func (m *MockDiscountRepository) Update(ctx context.Context, discount *entity.Discount) error {
	args := m.Called(ctx, discount)
	return args.Error(0)
}

func (m *MockDiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDiscountRepository) CreateItems(ctx context.Context, items []entity.DiscountItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockDiscountRepository) CreateConditions(ctx context.Context, conditions []entity.DiscountCondition) error {
	args := m.Called(ctx, conditions)
	return args.Error(0)
}

func (m *MockDiscountRepository) UsageCount(ctx context.Context, discountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, discountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDiscountRepository) ReceiptUsageCount(ctx context.Context, discountID, receiptID uuid.UUID) (int64, error) {
	args := m.Called(ctx, discountID, receiptID)
	return args.Get(0).(int64), args.Error(1)
}

type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) CreateReceiptDiscount(ctx context.Context, rd *entity.ReceiptDiscount) error {
	args := m.Called(ctx, rd)
	return args.Error(0)
}

func (m *MockAllocationRepository) CreateItemDiscounts(ctx context.Context, allocations []entity.ReceiptItemDiscount) error {
	args := m.Called(ctx, allocations)
	return args.Error(0)
}

func (m *MockAllocationRepository) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItemDiscount, error) {
	args := m.Called(ctx, receiptID)
	return args.Get(0).([]entity.ReceiptItemDiscount), args.Error(1)
}

// receiptItemWithPrice builds a receipt line with a captured unit price
func receiptItemWithPrice(itemID uuid.UUID, quantity int, priceCents int64, createdAt time.Time) entity.ReceiptItem {
	price := priceCents
	return entity.ReceiptItem{
		ID:        uuid.New(),
		ItemID:    itemID,
		Quantity:  quantity,
		UnitPrice: &price,
		Status:    enum.ItemStatusPending,
		CreatedAt: createdAt,
	}
}
