package service

import (
	"context"
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

// A Wednesday, fixed so date-window and weekday conditions are deterministic
var engineNow = time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)

func newTestEngine(
	discountRepo *MockDiscountRepository,
	receiptRepo *MockReceiptRepository,
	receiptItemRepo *MockReceiptItemRepository,
	allocationRepo *MockAllocationRepository,
) *DiscountEngine {
	return &DiscountEngine{
		discountRepo:    discountRepo,
		receiptRepo:     receiptRepo,
		receiptItemRepo: receiptItemRepo,
		allocationRepo:  allocationRepo,
		tx:              passTransactor{},
		audit:           audit.NewNopRecorder(),
		allowReapply:    true,
		now:             func() time.Time { return engineNow },
	}
}

func activeDiscount(code string, discountType enum.DiscountType) *entity.Discount {
	return &entity.Discount{
		ID:        uuid.New(),
		Code:      code,
		Name:      "Test discount",
		Type:      discountType,
		StartDate: engineNow.AddDate(0, -1, 0),
		EndDate:   engineNow.AddDate(0, 1, 0),
		IsActive:  true,
	}
}

func TestApplyDiscountPercentageAllocationsSumExactly(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	discount := activeDiscount("THIRD", enum.DiscountTypePercentage)
	discount.Percentage = 33.33

	// Three lines of 10.00 each; 33.33% of 30.00 rounds to 10.00
	items := []entity.ReceiptItem{
		receiptItemWithPrice(uuid.New(), 1, 1000, engineNow),
		receiptItemWithPrice(uuid.New(), 1, 1000, engineNow),
		receiptItemWithPrice(uuid.New(), 1, 1000, engineNow),
	}

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "THIRD").Return(discount, nil)
	receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).Return(items, nil)
	allocationRepo.On("CreateReceiptDiscount", mock.Anything, mock.AnythingOfType("*entity.ReceiptDiscount")).Return(nil)

	var captured []entity.ReceiptItemDiscount
	allocationRepo.On("CreateItemDiscounts", mock.Anything, mock.AnythingOfType("[]entity.ReceiptItemDiscount")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]entity.ReceiptItemDiscount)
		}).Return(nil)

	result, err := engine.ApplyDiscount(context.Background(), "THIRD", receiptID, nil)

	require.NoError(t, err)
	require.Equal(t, int64(1000), result.Amount)
	require.Len(t, captured, 3)

	var allocated int64
	for _, alloc := range captured {
		allocated += alloc.AppliedAmount
	}
	require.Equal(t, result.Amount, allocated)

	// Per-item rounding gives 333 + 333, the last line absorbs the remainder
	require.Equal(t, int64(333), captured[0].AppliedAmount)
	require.Equal(t, int64(333), captured[1].AppliedAmount)
	require.Equal(t, int64(334), captured[2].AppliedAmount)
	allocationRepo.AssertExpectations(t)
}

func TestApplyDiscountPercentageTwentyPercent(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	discount := activeDiscount("TWENTY", enum.DiscountTypePercentage)
	discount.Percentage = 20

	// 2 x 10.00 + 1 x 4.99 = 24.99 subtotal
	items := []entity.ReceiptItem{
		receiptItemWithPrice(uuid.New(), 2, 1000, engineNow),
		receiptItemWithPrice(uuid.New(), 1, 499, engineNow),
	}

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "TWENTY").Return(discount, nil)
	receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).Return(items, nil)
	allocationRepo.On("CreateReceiptDiscount", mock.Anything, mock.AnythingOfType("*entity.ReceiptDiscount")).Return(nil)

	var captured []entity.ReceiptItemDiscount
	allocationRepo.On("CreateItemDiscounts", mock.Anything, mock.AnythingOfType("[]entity.ReceiptItemDiscount")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]entity.ReceiptItemDiscount)
		}).Return(nil)

	result, err := engine.ApplyDiscount(context.Background(), "TWENTY", receiptID, nil)

	require.NoError(t, err)
	require.Equal(t, int64(500), result.Amount)
	require.Len(t, captured, 2)
	require.Equal(t, int64(400), captured[0].AppliedAmount)
	require.Equal(t, int64(100), captured[1].AppliedAmount)
}

func TestApplyDiscountAmountAllocatedToFirstItem(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	discount := activeDiscount("OFF3", enum.DiscountTypeAmount)
	discount.Amount = 300

	items := []entity.ReceiptItem{
		receiptItemWithPrice(uuid.New(), 1, 1000, engineNow),
		receiptItemWithPrice(uuid.New(), 1, 1000, engineNow),
	}

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "OFF3").Return(discount, nil)
	receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).Return(items, nil)
	allocationRepo.On("CreateReceiptDiscount", mock.Anything, mock.AnythingOfType("*entity.ReceiptDiscount")).Return(nil)

	var captured []entity.ReceiptItemDiscount
	allocationRepo.On("CreateItemDiscounts", mock.Anything, mock.AnythingOfType("[]entity.ReceiptItemDiscount")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]entity.ReceiptItemDiscount)
		}).Return(nil)

	result, err := engine.ApplyDiscount(context.Background(), "OFF3", receiptID, nil)

	require.NoError(t, err)
	require.Equal(t, int64(300), result.Amount)
	require.Len(t, captured, 1)
	require.Equal(t, items[0].ID, captured[0].ReceiptItemID)
	require.Equal(t, int64(300), captured[0].AppliedAmount)
}

func TestApplyDiscountComboRequirementsNotMet(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	burgerID := uuid.New()
	discount := activeDiscount("COMBO", enum.DiscountTypeCombo)
	discount.Amount = 500
	discount.DiscountItems = []entity.DiscountItem{
		{DiscountID: discount.ID, ItemID: burgerID, MinQuantity: 2, Item: &entity.Item{Name: "Burger"}},
	}

	items := []entity.ReceiptItem{
		receiptItemWithPrice(burgerID, 1, 1200, engineNow),
	}

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "COMBO").Return(discount, nil)
	receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).Return(items, nil)

	_, err := engine.ApplyDiscount(context.Background(), "COMBO", receiptID, nil)

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.Equal(t, http.StatusBadRequest, appErr.Code)
	require.Contains(t, appErr.Message, "Burger (need 2, have 1)")

	// Nothing persisted on a failed combo check
	allocationRepo.AssertNotCalled(t, "CreateReceiptDiscount", mock.Anything, mock.Anything)
	allocationRepo.AssertNotCalled(t, "CreateItemDiscounts", mock.Anything, mock.Anything)
}

func TestApplyDiscountComboPercentageOfEligibleItems(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	burgerID := uuid.New()
	sodaID := uuid.New()
	discount := activeDiscount("MEAL", enum.DiscountTypeCombo)
	discount.Percentage = 50
	discount.DiscountItems = []entity.DiscountItem{
		{DiscountID: discount.ID, ItemID: burgerID, MinQuantity: 1},
	}

	// Only the burger line (10.00) is eligible; the soda is not part of the combo
	items := []entity.ReceiptItem{
		receiptItemWithPrice(burgerID, 1, 1000, engineNow),
		receiptItemWithPrice(sodaID, 1, 499, engineNow),
	}

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "MEAL").Return(discount, nil)
	receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).Return(items, nil)
	allocationRepo.On("CreateReceiptDiscount", mock.Anything, mock.AnythingOfType("*entity.ReceiptDiscount")).Return(nil)

	var captured []entity.ReceiptItemDiscount
	allocationRepo.On("CreateItemDiscounts", mock.Anything, mock.AnythingOfType("[]entity.ReceiptItemDiscount")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]entity.ReceiptItemDiscount)
		}).Return(nil)

	result, err := engine.ApplyDiscount(context.Background(), "MEAL", receiptID, nil)

	require.NoError(t, err)
	require.Equal(t, int64(500), result.Amount)
	require.Len(t, captured, 1)
	require.Equal(t, items[0].ID, captured[0].ReceiptItemID)
}

func TestApplyDiscountInactiveRejected(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	discount := activeDiscount("OLD", enum.DiscountTypeAmount)
	discount.Amount = 100
	discount.IsActive = false

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "OLD").Return(discount, nil)

	_, err := engine.ApplyDiscount(context.Background(), "OLD", receiptID, nil)

	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	require.Contains(t, apperror.GetAppError(err).Message, "not active")
}

func TestApplyDiscountOutsideDateWindow(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	discount := activeDiscount("EXPIRED", enum.DiscountTypeAmount)
	discount.Amount = 100
	discount.StartDate = engineNow.AddDate(0, -2, 0)
	discount.EndDate = engineNow.AddDate(0, -1, 0)

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "EXPIRED").Return(discount, nil)

	_, err := engine.ApplyDiscount(context.Background(), "EXPIRED", receiptID, nil)

	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	require.Contains(t, apperror.GetAppError(err).Message, "not valid at this time")
}

func TestApplyDiscountUsageCapReached(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	maxReceipts := 1
	discount := activeDiscount("ONCE", enum.DiscountTypeAmount)
	discount.Amount = 100
	discount.MaxReceipts = &maxReceipts

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "ONCE").Return(discount, nil)
	discountRepo.On("UsageCount", mock.Anything, discount.ID).Return(int64(1), nil)

	_, err := engine.ApplyDiscount(context.Background(), "ONCE", receiptID, nil)

	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	require.Contains(t, apperror.GetAppError(err).Message, "usage limit")
}

func TestApplyDiscountReapplyRejectedWhenDisabled(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)
	engine.allowReapply = false

	receiptID := uuid.New()
	discount := activeDiscount("SINGLE", enum.DiscountTypeAmount)
	discount.Amount = 100

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "SINGLE").Return(discount, nil)
	discountRepo.On("ReceiptUsageCount", mock.Anything, discount.ID, receiptID).Return(int64(1), nil)

	_, err := engine.ApplyDiscount(context.Background(), "SINGLE", receiptID, nil)

	require.Error(t, err)
	require.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestApplyDiscountMinAmountCondition(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	discount := activeDiscount("BIG", enum.DiscountTypePercentage)
	discount.Percentage = 10
	discount.DiscountConditions = []entity.DiscountCondition{
		{DiscountID: discount.ID, ConditionType: enum.ConditionTypeMinAmount, Value: "50.00"},
	}

	// Subtotal 24.99 is below the 50.00 threshold
	items := []entity.ReceiptItem{
		receiptItemWithPrice(uuid.New(), 2, 1000, engineNow),
		receiptItemWithPrice(uuid.New(), 1, 499, engineNow),
	}

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "BIG").Return(discount, nil)
	receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).Return(items, nil)

	_, err := engine.ApplyDiscount(context.Background(), "BIG", receiptID, nil)

	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	require.Contains(t, apperror.GetAppError(err).Message, "below the required minimum")
	allocationRepo.AssertNotCalled(t, "CreateReceiptDiscount", mock.Anything, mock.Anything)
}

func TestApplyDiscountDayOfWeekCondition(t *testing.T) {
	buildFixture := func(days string) (*DiscountEngine, uuid.UUID, *MockAllocationRepository) {
		discountRepo := new(MockDiscountRepository)
		receiptRepo := new(MockReceiptRepository)
		receiptItemRepo := new(MockReceiptItemRepository)
		allocationRepo := new(MockAllocationRepository)
		engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

		receiptID := uuid.New()
		discount := activeDiscount("WEEKDAY", enum.DiscountTypeAmount)
		discount.Amount = 200
		discount.DiscountConditions = []entity.DiscountCondition{
			{DiscountID: discount.ID, ConditionType: enum.ConditionTypeDayOfWeek, Value: days},
		}

		items := []entity.ReceiptItem{receiptItemWithPrice(uuid.New(), 1, 1000, engineNow)}

		receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
		discountRepo.On("GetByCode", mock.Anything, "WEEKDAY").Return(discount, nil)
		receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).Return(items, nil)
		allocationRepo.On("CreateReceiptDiscount", mock.Anything, mock.Anything).Return(nil).Maybe()
		allocationRepo.On("CreateItemDiscounts", mock.Anything, mock.Anything).Return(nil).Maybe()
		return engine, receiptID, allocationRepo
	}

	// engineNow is a Wednesday
	engine, receiptID, _ := buildFixture("Monday,Tuesday")
	_, err := engine.ApplyDiscount(context.Background(), "WEEKDAY", receiptID, nil)
	require.Error(t, err)
	require.Contains(t, apperror.GetAppError(err).Message, "not valid today")

	engine, receiptID, _ = buildFixture("monday, wednesday")
	result, err := engine.ApplyDiscount(context.Background(), "WEEKDAY", receiptID, nil)
	require.NoError(t, err)
	require.Equal(t, int64(200), result.Amount)
}

func TestApplyDiscountEmptyReceiptRejected(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	discount := activeDiscount("EMPTY", enum.DiscountTypeAmount)
	discount.Amount = 100

	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "EMPTY").Return(discount, nil)
	receiptItemRepo.On("ListByReceipt", mock.Anything, receiptID).Return([]entity.ReceiptItem{}, nil)

	_, err := engine.ApplyDiscount(context.Background(), "EMPTY", receiptID, nil)

	require.Error(t, err)
	require.Contains(t, apperror.GetAppError(err).Message, "no items")
}

func TestApplyDiscountUnknownCode(t *testing.T) {
	discountRepo := new(MockDiscountRepository)
	receiptRepo := new(MockReceiptRepository)
	receiptItemRepo := new(MockReceiptItemRepository)
	allocationRepo := new(MockAllocationRepository)
	engine := newTestEngine(discountRepo, receiptRepo, receiptItemRepo, allocationRepo)

	receiptID := uuid.New()
	receiptRepo.On("GetByID", mock.Anything, receiptID).Return(&entity.Receipt{ID: receiptID}, nil)
	discountRepo.On("GetByCode", mock.Anything, "NOPE").Return(nil, nil)

	_, err := engine.ApplyDiscount(context.Background(), "NOPE", receiptID, nil)

	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}
