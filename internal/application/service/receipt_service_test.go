package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/audit"
	"github.com/ordino-pos/ordino-api/pkg/apperror"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type receiptServiceFixture struct {
	receiptRepo     *MockReceiptRepository
	receiptItemRepo *MockReceiptItemRepository
	itemRepo        *MockItemRepository
	tableRepo       *MockTableRepository
	allocationRepo  *MockAllocationRepository
	service         *ReceiptService
}

func newReceiptServiceFixture() *receiptServiceFixture {
	f := &receiptServiceFixture{
		receiptRepo:     new(MockReceiptRepository),
		receiptItemRepo: new(MockReceiptItemRepository),
		itemRepo:        new(MockItemRepository),
		tableRepo:       new(MockTableRepository),
		allocationRepo:  new(MockAllocationRepository),
	}
	f.service = &ReceiptService{
		receiptRepo:     f.receiptRepo,
		receiptItemRepo: f.receiptItemRepo,
		itemRepo:        f.itemRepo,
		tableRepo:       f.tableRepo,
		allocationRepo:  f.allocationRepo,
		tx:              passTransactor{},
		audit:           audit.NewNopRecorder(),
	}
	return f
}

func TestCreateReceiptValidation(t *testing.T) {
	tableID := uuid.New()
	itemInput := []ReceiptItemInput{{ItemID: uuid.New(), Quantity: 1}}

	tests := []struct {
		name    string
		input   *CreateReceiptInput
		message string
	}{
		{
			name:    "no items",
			input:   &CreateReceiptInput{TableID: &tableID},
			message: "at least one item",
		},
		{
			name: "zero quantity",
			input: &CreateReceiptInput{
				TableID: &tableID,
				Items:   []ReceiptItemInput{{ItemID: uuid.New(), Quantity: 0}},
			},
			message: "greater than zero",
		},
		{
			name: "delivery without contact fields",
			input: &CreateReceiptInput{
				IsDelivery: true,
				Items:      itemInput,
			},
			message: "phone number and location",
		},
		{
			name: "delivery with a table",
			input: &CreateReceiptInput{
				IsDelivery:  true,
				PhoneNumber: "0700000000",
				Location:    "Main St 5",
				TableID:     &tableID,
				Items:       itemInput,
			},
			message: "cannot have a table",
		},
		{
			name: "dine-in without a table",
			input: &CreateReceiptInput{
				Items: itemInput,
			},
			message: "require a table",
		},
		{
			name: "dine-in with delivery fields",
			input: &CreateReceiptInput{
				TableID:     &tableID,
				PhoneNumber: "0700000000",
				Items:       itemInput,
			},
			message: "cannot have delivery fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReceiptServiceFixture()
			_, err := f.service.Create(context.Background(), tt.input, nil)

			require.Error(t, err)
			appErr := apperror.GetAppError(err)
			require.Equal(t, http.StatusBadRequest, appErr.Code)
			require.Contains(t, appErr.Message, tt.message)
			f.receiptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateReceiptSnapshotsUnitPrices(t *testing.T) {
	f := newReceiptServiceFixture()

	tableID := uuid.New()
	receiptID := uuid.New()
	burger := entity.Item{ID: uuid.New(), Name: "Burger", Price: 1000}
	soda := entity.Item{ID: uuid.New(), Name: "Soda", Price: 499}

	f.tableRepo.On("GetByID", mock.Anything, tableID).
		Return(&entity.Table{ID: tableID, Number: 4, Status: enum.TableStatusAvailable}, nil)
	f.itemRepo.On("GetByIDs", mock.Anything, mock.AnythingOfType("[]uuid.UUID")).
		Return([]entity.Item{burger, soda}, nil)
	f.receiptRepo.On("NextNumber", mock.Anything).Return(int64(42), nil)
	f.receiptRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Receipt")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Receipt).ID = receiptID
		}).Return(nil)

	var createdItems []entity.ReceiptItem
	f.receiptItemRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]entity.ReceiptItem")).
		Run(func(args mock.Arguments) {
			createdItems = args.Get(1).([]entity.ReceiptItem)
		}).Return(nil)
	f.tableRepo.On("SetStatusIf", mock.Anything, tableID, enum.TableStatusAvailable, enum.TableStatusOccupied).
		Return(true, nil)

	// FindOne after the transaction commits
	f.receiptRepo.On("GetWithDetails", mock.Anything, receiptID).
		Return(&entity.Receipt{ID: receiptID, Number: 42, TableID: &tableID}, nil)
	f.receiptRepo.On("GetByID", mock.Anything, receiptID).
		Return(&entity.Receipt{ID: receiptID, Number: 42, TableID: &tableID}, nil)
	f.receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]entity.ReceiptItem{
			receiptItemWithPrice(burger.ID, 2, 1000, time.Now()),
			receiptItemWithPrice(soda.ID, 1, 499, time.Now()),
		}, nil)
	f.allocationRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]entity.ReceiptItemDiscount{}, nil)

	result, err := f.service.Create(context.Background(), &CreateReceiptInput{
		TableID: &tableID,
		Items: []ReceiptItemInput{
			{ItemID: burger.ID, Quantity: 2},
			{ItemID: soda.ID, Quantity: 1},
		},
	}, nil)

	require.NoError(t, err)
	require.Equal(t, int64(42), result.Number)
	require.Equal(t, int64(2499), result.Totals.Subtotal)
	require.Equal(t, int64(2499), result.Totals.Total)

	// Unit prices are captured from the catalog at creation time
	require.Len(t, createdItems, 2)
	require.NotNil(t, createdItems[0].UnitPrice)
	require.Equal(t, int64(1000), *createdItems[0].UnitPrice)
	require.NotNil(t, createdItems[1].UnitPrice)
	require.Equal(t, int64(499), *createdItems[1].UnitPrice)
	require.Equal(t, enum.ItemStatusPending, createdItems[0].Status)

	f.tableRepo.AssertExpectations(t)
	f.receiptRepo.AssertExpectations(t)
}

func TestCreateReceiptUnknownItemsRejected(t *testing.T) {
	f := newReceiptServiceFixture()

	tableID := uuid.New()
	missingID := uuid.New()

	f.tableRepo.On("GetByID", mock.Anything, tableID).
		Return(&entity.Table{ID: tableID, Number: 4, Status: enum.TableStatusAvailable}, nil)
	f.itemRepo.On("GetByIDs", mock.Anything, mock.AnythingOfType("[]uuid.UUID")).
		Return([]entity.Item{}, nil)

	_, err := f.service.Create(context.Background(), &CreateReceiptInput{
		TableID: &tableID,
		Items:   []ReceiptItemInput{{ItemID: missingID, Quantity: 1}},
	}, nil)

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.Equal(t, http.StatusBadRequest, appErr.Code)
	require.Contains(t, appErr.Message, missingID.String())
	f.receiptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReceiptTableNoLongerAvailable(t *testing.T) {
	f := newReceiptServiceFixture()

	tableID := uuid.New()
	item := entity.Item{ID: uuid.New(), Name: "Burger", Price: 1000}

	// The conditional update loses the race: zero rows matched
	f.tableRepo.On("GetByID", mock.Anything, tableID).
		Return(&entity.Table{ID: tableID, Number: 7, Status: enum.TableStatusOccupied}, nil)
	f.itemRepo.On("GetByIDs", mock.Anything, mock.AnythingOfType("[]uuid.UUID")).
		Return([]entity.Item{item}, nil)
	f.receiptRepo.On("NextNumber", mock.Anything).Return(int64(43), nil)
	f.receiptRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Receipt")).Return(nil)
	f.receiptItemRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]entity.ReceiptItem")).Return(nil)
	f.tableRepo.On("SetStatusIf", mock.Anything, tableID, enum.TableStatusAvailable, enum.TableStatusOccupied).
		Return(false, nil)

	_, err := f.service.Create(context.Background(), &CreateReceiptInput{
		TableID: &tableID,
		Items:   []ReceiptItemInput{{ItemID: item.ID, Quantity: 1}},
	}, nil)

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.Equal(t, http.StatusBadRequest, appErr.Code)
	require.Contains(t, appErr.Message, "Table 7 is not available")
	require.Contains(t, appErr.Message, "OCCUPIED")
}

func TestCompleteReceiptAlreadyCompleted(t *testing.T) {
	f := newReceiptServiceFixture()

	receiptID := uuid.New()
	completedAt := time.Now().Add(-time.Hour)
	f.receiptRepo.On("GetByID", mock.Anything, receiptID).
		Return(&entity.Receipt{ID: receiptID, CompletedAt: &completedAt}, nil)

	_, err := f.service.Complete(context.Background(), receiptID, nil, nil)

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.Equal(t, http.StatusBadRequest, appErr.Code)
	require.Contains(t, appErr.Message, "already completed")
	f.receiptRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCompleteReceiptQuickDiscountBounds(t *testing.T) {
	receiptID := uuid.New()
	items := []entity.ReceiptItem{
		receiptItemWithPrice(uuid.New(), 2, 1000, time.Now()),
		receiptItemWithPrice(uuid.New(), 1, 499, time.Now()),
	}

	t.Run("negative", func(t *testing.T) {
		f := newReceiptServiceFixture()
		f.receiptRepo.On("GetByID", mock.Anything, receiptID).
			Return(&entity.Receipt{ID: receiptID}, nil)

		qd := int64(-100)
		_, err := f.service.Complete(context.Background(), receiptID, &qd, nil)

		require.Error(t, err)
		require.Contains(t, apperror.GetAppError(err).Message, "cannot be negative")
	})

	t.Run("exceeds subtotal", func(t *testing.T) {
		f := newReceiptServiceFixture()
		f.receiptRepo.On("GetByID", mock.Anything, receiptID).
			Return(&entity.Receipt{ID: receiptID}, nil)
		f.receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).Return(items, nil)

		// 30.00 against a 24.99 subtotal
		qd := int64(3000)
		_, err := f.service.Complete(context.Background(), receiptID, &qd, nil)

		require.Error(t, err)
		require.Contains(t, apperror.GetAppError(err).Message, "cannot exceed")
		f.receiptRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestCompleteReceiptStampsAndFreesTable(t *testing.T) {
	f := newReceiptServiceFixture()

	receiptID := uuid.New()
	tableID := uuid.New()
	items := []entity.ReceiptItem{receiptItemWithPrice(uuid.New(), 2, 1000, time.Now())}
	qd := int64(500)

	f.receiptRepo.On("GetByID", mock.Anything, receiptID).
		Return(&entity.Receipt{ID: receiptID, Number: 42, TableID: &tableID}, nil)
	f.receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).Return(items, nil)

	var updated *entity.Receipt
	f.receiptRepo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Receipt")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*entity.Receipt)
		}).Return(nil)
	// Result deliberately ignored: the table may have been reassigned
	f.tableRepo.On("SetStatusIf", mock.Anything, tableID, enum.TableStatusOccupied, enum.TableStatusAvailable).
		Return(false, nil)

	completedAt := time.Now()
	f.receiptRepo.On("GetWithDetails", mock.Anything, receiptID).
		Return(&entity.Receipt{ID: receiptID, Number: 42, CompletedAt: &completedAt, QuickDiscount: &qd}, nil)
	f.allocationRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]entity.ReceiptItemDiscount{}, nil)

	result, err := f.service.Complete(context.Background(), receiptID, &qd, nil)

	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.CompletedAt)
	require.Equal(t, qd, *updated.QuickDiscount)

	require.Equal(t, int64(2000), result.Totals.Subtotal)
	require.Equal(t, int64(500), result.Totals.QuickDiscount)
	require.Equal(t, int64(1500), result.Totals.Total)
	f.tableRepo.AssertExpectations(t)
}

func TestCalculateTotalCombinesDiscounts(t *testing.T) {
	f := newReceiptServiceFixture()

	receiptID := uuid.New()
	qd := int64(99)
	f.receiptRepo.On("GetByID", mock.Anything, receiptID).
		Return(&entity.Receipt{ID: receiptID, QuickDiscount: &qd}, nil)
	f.receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]entity.ReceiptItem{
			receiptItemWithPrice(uuid.New(), 2, 1000, time.Now()),
			receiptItemWithPrice(uuid.New(), 1, 499, time.Now()),
		}, nil)
	f.allocationRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]entity.ReceiptItemDiscount{
			{ReceiptItemID: uuid.New(), AppliedAmount: 400},
			{ReceiptItemID: uuid.New(), AppliedAmount: 100},
		}, nil)

	totals, err := f.service.CalculateTotal(context.Background(), receiptID)

	require.NoError(t, err)
	require.Equal(t, int64(2499), totals.Subtotal)
	require.Equal(t, int64(500), totals.SystemDiscount)
	require.Equal(t, int64(99), totals.QuickDiscount)
	require.Equal(t, int64(599), totals.DiscountTotal)
	require.Equal(t, int64(1900), totals.Total)
}

func TestCalculateTotalUsesSnapshotOverLivePrice(t *testing.T) {
	f := newReceiptServiceFixture()

	receiptID := uuid.New()
	// The catalog price went up after the order; totals keep the snapshot
	repriced := receiptItemWithPrice(uuid.New(), 2, 1000, time.Now())
	repriced.Item = &entity.Item{ID: repriced.ItemID, Price: 1500}
	other := receiptItemWithPrice(uuid.New(), 1, 499, time.Now())

	f.receiptRepo.On("GetByID", mock.Anything, receiptID).
		Return(&entity.Receipt{ID: receiptID}, nil)
	f.receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]entity.ReceiptItem{repriced, other}, nil)
	f.allocationRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]entity.ReceiptItemDiscount{
			{ReceiptItemID: repriced.ID, AppliedAmount: 400},
			{ReceiptItemID: other.ID, AppliedAmount: 100},
		}, nil)

	totals, err := f.service.CalculateTotal(context.Background(), receiptID)

	require.NoError(t, err)
	require.Equal(t, int64(2499), totals.Subtotal)
	require.Equal(t, int64(500), totals.SystemDiscount)
	require.Equal(t, int64(1999), totals.Total)
}

func TestCalculateTotalFallsBackToLivePrice(t *testing.T) {
	f := newReceiptServiceFixture()

	receiptID := uuid.New()
	// No snapshot on the line; the loaded catalog item supplies the price
	legacyLine := entity.ReceiptItem{
		ID:       uuid.New(),
		ItemID:   uuid.New(),
		Quantity: 2,
		Item:     &entity.Item{Price: 750},
	}

	f.receiptRepo.On("GetByID", mock.Anything, receiptID).
		Return(&entity.Receipt{ID: receiptID}, nil)
	f.receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]entity.ReceiptItem{legacyLine}, nil)
	f.allocationRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]entity.ReceiptItemDiscount{}, nil)

	totals, err := f.service.CalculateTotal(context.Background(), receiptID)

	require.NoError(t, err)
	require.Equal(t, int64(1500), totals.Subtotal)
}

func TestReceiptWithTotalsJSONCarriesTotals(t *testing.T) {
	result := &ReceiptWithTotals{
		Receipt: &entity.Receipt{ID: uuid.New(), Number: 42},
		Totals: &ReceiptTotals{
			Subtotal:       2499,
			SystemDiscount: 500,
			QuickDiscount:  0,
			DiscountTotal:  500,
			Total:          1999,
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	require.Equal(t, float64(42), out["number"])

	totals, ok := out["totals"].(map[string]interface{})
	require.True(t, ok, "totals object missing from response body")
	require.Equal(t, 24.99, totals["subtotal"])
	require.Equal(t, 5.00, totals["system_discount"])
	require.Equal(t, 0.00, totals["quick_discount"])
	require.Equal(t, 5.00, totals["discount_total"])
	require.Equal(t, 19.99, totals["total"])
}

func TestCalculateTotalReceiptNotFound(t *testing.T) {
	f := newReceiptServiceFixture()

	receiptID := uuid.New()
	f.receiptRepo.On("GetByID", mock.Anything, receiptID).Return(nil, nil)

	_, err := f.service.CalculateTotal(context.Background(), receiptID)

	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}
