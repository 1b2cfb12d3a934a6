package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/audit"
	"github.com/ordino-pos/ordino-api/pkg/apperror"
)

// DiscountEngine applies discount codes to receipts: it gates on the
// discount's validity rules, computes the monetary amount for the discount
// type and persists the per-item allocations.
type DiscountEngine struct {
	discountRepo    repository.DiscountRepository
	receiptRepo     repository.ReceiptRepository
	receiptItemRepo repository.ReceiptItemRepository
	allocationRepo  repository.AllocationRepository
	tx              repository.Transactor
	audit           audit.Recorder
	allowReapply    bool
	now             func() time.Time
}

// NewDiscountEngine creates a new discount engine. allowReapply controls
// whether the same code may be applied more than once to one receipt.
func NewDiscountEngine(
	discountRepo repository.DiscountRepository,
	receiptRepo repository.ReceiptRepository,
	receiptItemRepo repository.ReceiptItemRepository,
	allocationRepo repository.AllocationRepository,
	tx repository.Transactor,
	auditRecorder audit.Recorder,
	allowReapply bool,
) *DiscountEngine {
	return &DiscountEngine{
		discountRepo:    discountRepo,
		receiptRepo:     receiptRepo,
		receiptItemRepo: receiptItemRepo,
		allocationRepo:  allocationRepo,
		tx:              tx,
		audit:           auditRecorder,
		allowReapply:    allowReapply,
		now:             time.Now,
	}
}

// DiscountApplication is the result of applying a discount code
type DiscountApplication struct {
	DiscountID uuid.UUID `json:"discount_id"`
	Code       string    `json:"code"`
	Amount     int64     `json:"-"` // cents
}

// MarshalJSON converts cents to decimal for API responses
func (a DiscountApplication) MarshalJSON() ([]byte, error) {
	type Alias DiscountApplication
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(a),
		Amount: float64(a.Amount) / 100,
	})
}

// ApplyDiscount applies the discount identified by code to the receipt.
// The computed amount is allocated against the receipt's items and the
// allocations always sum exactly to the amount.
func (e *DiscountEngine) ApplyDiscount(ctx context.Context, code string, receiptID uuid.UUID, actorID *uuid.UUID) (*DiscountApplication, error) {
	receipt, err := e.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	discount, err := e.discountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, apperror.NewNotFoundError("Discount")
	}

	if err := e.gate(ctx, discount, receiptID); err != nil {
		return nil, err
	}

	items, err := e.receiptItemRepo.ListByReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.NewBadRequestError("Receipt has no items")
	}

	var subtotal int64
	for i := range items {
		subtotal += items[i].LineTotal()
	}

	if err := e.checkConditions(discount, subtotal); err != nil {
		return nil, err
	}

	amount, allocations, err := e.compute(discount, items, subtotal)
	if err != nil {
		return nil, err
	}

	err = e.tx.Transaction(ctx, func(ctx context.Context) error {
		usage := &entity.ReceiptDiscount{
			ReceiptID:  receiptID,
			DiscountID: discount.ID,
		}
		if err := e.allocationRepo.CreateReceiptDiscount(ctx, usage); err != nil {
			return err
		}
		return e.allocationRepo.CreateItemDiscounts(ctx, allocations)
	})
	if err != nil {
		return nil, err
	}

	e.audit.Record(ctx, "receipt", receiptID, "discount_applied", actorID, map[string]interface{}{
		"code":   discount.Code,
		"amount": float64(amount) / 100,
	})

	return &DiscountApplication{
		DiscountID: discount.ID,
		Code:       discount.Code,
		Amount:     amount,
	}, nil
}

// gate checks the discount's validity rules that do not depend on the
// receipt's contents.
func (e *DiscountEngine) gate(ctx context.Context, discount *entity.Discount, receiptID uuid.UUID) error {
	if !discount.IsActive {
		return apperror.NewBadRequestError("Discount is not active")
	}

	now := e.now()
	if now.Before(discount.StartDate) || now.After(discount.EndDate) {
		return apperror.NewBadRequestError("Discount is not valid at this time")
	}

	if !e.allowReapply {
		applied, err := e.discountRepo.ReceiptUsageCount(ctx, discount.ID, receiptID)
		if err != nil {
			return err
		}
		if applied > 0 {
			return apperror.NewConflictError("Discount has already been applied to this receipt")
		}
	}

	if discount.MaxReceipts != nil {
		used, err := e.discountRepo.UsageCount(ctx, discount.ID)
		if err != nil {
			return err
		}
		if used >= int64(*discount.MaxReceipts) {
			return apperror.NewBadRequestError("Discount usage limit reached")
		}
	}

	return nil
}

func (e *DiscountEngine) checkConditions(discount *entity.Discount, subtotal int64) error {
	for _, cond := range discount.DiscountConditions {
		switch cond.ConditionType {
		case enum.ConditionTypeMinAmount:
			threshold, err := strconv.ParseFloat(cond.Value, 64)
			if err != nil {
				return apperror.NewBadRequestError("Discount has an invalid minimum amount condition")
			}
			if subtotal < int64(math.Round(threshold*100)) {
				return apperror.NewBadRequestError(fmt.Sprintf("Receipt subtotal is below the required minimum of %.2f", threshold))
			}
		case enum.ConditionTypeDayOfWeek:
			today := e.now().Weekday().String()
			if !containsDay(cond.Value, today) {
				return apperror.NewBadRequestError("Discount is not valid today")
			}
		default:
			return apperror.NewBadRequestError(fmt.Sprintf("Unsupported discount condition: %s", cond.ConditionType))
		}
	}
	return nil
}

func containsDay(list, day string) bool {
	for _, entry := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(entry), day) {
			return true
		}
	}
	return false
}

// compute dispatches on the discount type. The switch is exhaustive over
// the closed DiscountType enum; an unknown type is rejected, never silently
// treated as zero.
func (e *DiscountEngine) compute(discount *entity.Discount, items []entity.ReceiptItem, subtotal int64) (int64, []entity.ReceiptItemDiscount, error) {
	switch discount.Type {
	case enum.DiscountTypeAmount:
		amount := discount.Amount
		return amount, allocateToFirst(discount.ID, items, amount), nil

	case enum.DiscountTypePercentage:
		amount := percentageOf(subtotal, discount.Percentage)
		return amount, allocateProportionally(discount.ID, items, discount.Percentage, amount), nil

	case enum.DiscountTypeCombo:
		return e.computeCombo(discount, items)

	default:
		return 0, nil, apperror.NewBadRequestError(fmt.Sprintf("Unsupported discount type: %s", discount.Type))
	}
}

func (e *DiscountEngine) computeCombo(discount *entity.Discount, items []entity.ReceiptItem) (int64, []entity.ReceiptItemDiscount, error) {
	quantities := make(map[uuid.UUID]int)
	totals := make(map[uuid.UUID]int64)
	for i := range items {
		quantities[items[i].ItemID] += items[i].Quantity
		totals[items[i].ItemID] += items[i].LineTotal()
	}

	var unmet []string
	var eligibleTotal int64
	for _, required := range discount.DiscountItems {
		have := quantities[required.ItemID]
		if have < required.MinQuantity {
			name := required.ItemID.String()
			if required.Item != nil {
				name = required.Item.Name
			}
			unmet = append(unmet, fmt.Sprintf("%s (need %d, have %d)", name, required.MinQuantity, have))
			continue
		}
		eligibleTotal += totals[required.ItemID]
	}
	if len(unmet) > 0 {
		return 0, nil, apperror.NewBadRequestError(fmt.Sprintf("Combo requirements not met: %s", strings.Join(unmet, ", ")))
	}

	amount := discount.Amount
	if amount == 0 {
		amount = percentageOf(eligibleTotal, discount.Percentage)
	}
	return amount, allocateToFirst(discount.ID, items, amount), nil
}

// percentageOf returns pct percent of the amount, rounded to whole cents.
// Rounding happens only here, at the point the amount is derived.
func percentageOf(amount int64, pct float64) int64 {
	return int64(math.Round(float64(amount) * pct / 100))
}

// allocateToFirst allocates the whole amount against the receipt's first
// item (oldest by creation). Amount and combo discounts are not split.
func allocateToFirst(discountID uuid.UUID, items []entity.ReceiptItem, amount int64) []entity.ReceiptItemDiscount {
	return []entity.ReceiptItemDiscount{{
		ReceiptItemID: items[0].ID,
		DiscountID:    discountID,
		AppliedAmount: amount,
	}}
}

// allocateProportionally splits a percentage discount across all items.
// Each item gets its own rounded share except the last, which receives the
// remainder so the allocations sum exactly to the total amount.
func allocateProportionally(discountID uuid.UUID, items []entity.ReceiptItem, pct float64, amount int64) []entity.ReceiptItemDiscount {
	allocations := make([]entity.ReceiptItemDiscount, 0, len(items))
	var allocated int64
	for i := range items {
		var share int64
		if i == len(items)-1 {
			share = amount - allocated
		} else {
			share = percentageOf(items[i].LineTotal(), pct)
		}
		allocated += share
		allocations = append(allocations, entity.ReceiptItemDiscount{
			ReceiptItemID: items[i].ID,
			DiscountID:    discountID,
			AppliedAmount: share,
		})
	}
	return allocations
}
