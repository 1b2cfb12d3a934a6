package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/audit"
	"github.com/ordino-pos/ordino-api/pkg/apperror"
)

// DiscountService handles discount definition management
type DiscountService struct {
	discountRepo repository.DiscountRepository
	itemRepo     repository.ItemRepository
	tx           repository.Transactor
	audit        audit.Recorder
}

// NewDiscountService creates a new discount service
func NewDiscountService(
	discountRepo repository.DiscountRepository,
	itemRepo repository.ItemRepository,
	tx repository.Transactor,
	auditRecorder audit.Recorder,
) *DiscountService {
	return &DiscountService{
		discountRepo: discountRepo,
		itemRepo:     itemRepo,
		tx:           tx,
		audit:        auditRecorder,
	}
}

// DiscountItemInput defines one combo eligibility entry
type DiscountItemInput struct {
	ItemID      uuid.UUID
	MinQuantity int
}

// DiscountConditionInput defines one extra gate on a discount
type DiscountConditionInput struct {
	ConditionType enum.ConditionType
	Value         string
}

// CreateDiscountInput represents the create discount input. Amount is in
// currency units and converted to cents internally.
type CreateDiscountInput struct {
	Code        string
	Name        string
	Type        enum.DiscountType
	Amount      float64
	Percentage  float64
	MaxReceipts *int
	StartDate   time.Time
	EndDate     time.Time
	Items       []DiscountItemInput
	Conditions  []DiscountConditionInput
}

// Create creates a new discount with its combo items and conditions
func (s *DiscountService) Create(ctx context.Context, input *CreateDiscountInput, actorID *uuid.UUID) (*entity.Discount, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	existing, err := s.discountRepo.GetByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError(fmt.Sprintf("Discount code %s already exists", input.Code))
	}

	if len(input.Items) > 0 {
		itemIDs := make([]uuid.UUID, len(input.Items))
		for i, item := range input.Items {
			itemIDs[i] = item.ItemID
		}
		found, err := s.itemRepo.GetByIDs(ctx, itemIDs)
		if err != nil {
			return nil, err
		}
		if len(found) != len(itemIDs) {
			return nil, apperror.NewBadRequestError("One or more combo items do not exist")
		}
	}

	discount := &entity.Discount{
		Code:        input.Code,
		Name:        input.Name,
		Type:        input.Type,
		Amount:      int64(math.Round(input.Amount * 100)),
		Percentage:  input.Percentage,
		MaxReceipts: input.MaxReceipts,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    true,
		CreatedBy:   actorID,
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.discountRepo.Create(ctx, discount); err != nil {
			return err
		}

		if len(input.Items) > 0 {
			items := make([]entity.DiscountItem, 0, len(input.Items))
			for _, item := range input.Items {
				minQty := item.MinQuantity
				if minQty < 1 {
					minQty = 1
				}
				items = append(items, entity.DiscountItem{
					DiscountID:  discount.ID,
					ItemID:      item.ItemID,
					MinQuantity: minQty,
					CreatedBy:   actorID,
				})
			}
			if err := s.discountRepo.CreateItems(ctx, items); err != nil {
				return err
			}
		}

		if len(input.Conditions) > 0 {
			conditions := make([]entity.DiscountCondition, 0, len(input.Conditions))
			for _, cond := range input.Conditions {
				conditions = append(conditions, entity.DiscountCondition{
					DiscountID:    discount.ID,
					ConditionType: cond.ConditionType,
					Value:         cond.Value,
					CreatedBy:     actorID,
				})
			}
			if err := s.discountRepo.CreateConditions(ctx, conditions); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "discount", discount.ID, "created", actorID, map[string]interface{}{
		"code": discount.Code,
		"type": discount.Type,
	})

	return s.discountRepo.GetByID(ctx, discount.ID)
}

func (s *DiscountService) validate(input *CreateDiscountInput) error {
	if input.Code == "" {
		return apperror.NewBadRequestError("Discount code is required")
	}
	if !input.Type.Valid() {
		return apperror.NewBadRequestError(fmt.Sprintf("Unknown discount type: %s", input.Type))
	}
	if !input.EndDate.After(input.StartDate) {
		return apperror.NewBadRequestError("End date must be after start date")
	}

	switch input.Type {
	case enum.DiscountTypeAmount:
		if input.Amount <= 0 {
			return apperror.NewBadRequestError("Amount discounts require a positive amount")
		}
	case enum.DiscountTypePercentage:
		if input.Percentage <= 0 || input.Percentage > 100 {
			return apperror.NewBadRequestError("Percentage must be between 0 and 100")
		}
	case enum.DiscountTypeCombo:
		if len(input.Items) == 0 {
			return apperror.NewBadRequestError("Combo discounts require at least one item")
		}
		if input.Amount <= 0 && input.Percentage <= 0 {
			return apperror.NewBadRequestError("Combo discounts require an amount or a percentage")
		}
	}

	for _, cond := range input.Conditions {
		switch cond.ConditionType {
		case enum.ConditionTypeMinAmount:
			if _, err := strconv.ParseFloat(cond.Value, 64); err != nil {
				return apperror.NewBadRequestError("Minimum amount condition requires a numeric value")
			}
		case enum.ConditionTypeDayOfWeek:
			if cond.Value == "" {
				return apperror.NewBadRequestError("Day of week condition requires at least one day")
			}
		default:
			return apperror.NewBadRequestError(fmt.Sprintf("Unknown condition type: %s", cond.ConditionType))
		}
	}
	return nil
}

// Get retrieves a discount by ID
func (s *DiscountService) Get(ctx context.Context, id uuid.UUID) (*entity.Discount, error) {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, apperror.NewNotFoundError("Discount")
	}
	return discount, nil
}

// List lists all discounts
func (s *DiscountService) List(ctx context.Context) ([]entity.Discount, error) {
	return s.discountRepo.List(ctx)
}

// UpdateDiscountInput represents the updatable discount fields
type UpdateDiscountInput struct {
	Name        *string
	Amount      *float64
	Percentage  *float64
	MaxReceipts *int
	StartDate   *time.Time
	EndDate     *time.Time
}

// Update modifies a discount's descriptive and value fields. The code and
// type are immutable once created.
func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, input *UpdateDiscountInput, actorID *uuid.UUID) (*entity.Discount, error) {
	discount, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		discount.Name = *input.Name
	}
	if input.Amount != nil {
		discount.Amount = int64(math.Round(*input.Amount * 100))
	}
	if input.Percentage != nil {
		if *input.Percentage <= 0 || *input.Percentage > 100 {
			return nil, apperror.NewBadRequestError("Percentage must be between 0 and 100")
		}
		discount.Percentage = *input.Percentage
	}
	if input.MaxReceipts != nil {
		discount.MaxReceipts = input.MaxReceipts
	}
	if input.StartDate != nil {
		discount.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		discount.EndDate = *input.EndDate
	}
	if !discount.EndDate.After(discount.StartDate) {
		return nil, apperror.NewBadRequestError("End date must be after start date")
	}

	if err := s.discountRepo.Update(ctx, discount); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "discount", discount.ID, "updated", actorID, nil)
	return discount, nil
}

// ToggleActive flips the discount's active flag
func (s *DiscountService) ToggleActive(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*entity.Discount, error) {
	discount, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	discount.IsActive = !discount.IsActive
	if err := s.discountRepo.Update(ctx, discount); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "discount", discount.ID, "toggled", actorID, map[string]interface{}{
		"is_active": discount.IsActive,
	})
	return discount, nil
}

// Delete soft deletes a discount. Existing applications remain on their
// receipts.
func (s *DiscountService) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	discount, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.discountRepo.Delete(ctx, discount.ID); err != nil {
		return err
	}

	s.audit.Record(ctx, "discount", discount.ID, "deleted", actorID, nil)
	return nil
}
