package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/audit"
	"github.com/ordino-pos/ordino-api/pkg/apperror"
	"github.com/ordino-pos/ordino-api/pkg/pagination"
)

// ReceiptService handles receipt lifecycle and totals
type ReceiptService struct {
	receiptRepo     repository.ReceiptRepository
	receiptItemRepo repository.ReceiptItemRepository
	itemRepo        repository.ItemRepository
	tableRepo       repository.TableRepository
	allocationRepo  repository.AllocationRepository
	tx              repository.Transactor
	audit           audit.Recorder
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	receiptItemRepo repository.ReceiptItemRepository,
	itemRepo repository.ItemRepository,
	tableRepo repository.TableRepository,
	allocationRepo repository.AllocationRepository,
	tx repository.Transactor,
	auditRecorder audit.Recorder,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:     receiptRepo,
		receiptItemRepo: receiptItemRepo,
		itemRepo:        itemRepo,
		tableRepo:       tableRepo,
		allocationRepo:  allocationRepo,
		tx:              tx,
		audit:           auditRecorder,
	}
}

// ReceiptItemInput represents one ordered line in a create request
type ReceiptItemInput struct {
	ItemID   uuid.UUID
	Quantity int
	Notes    string
}

// CreateReceiptInput represents the create receipt input. Delivery receipts
// carry phone and location; dine-in receipts carry a table.
type CreateReceiptInput struct {
	IsDelivery  bool
	PhoneNumber string
	Location    string
	TableID     *uuid.UUID
	Notes       string
	Items       []ReceiptItemInput
}

// ReceiptTotals is the computed monetary summary of a receipt, in cents.
// JSON output converts to decimal amounts.
type ReceiptTotals struct {
	Subtotal       int64
	SystemDiscount int64
	QuickDiscount  int64
	DiscountTotal  int64
	Total          int64
}

// MarshalJSON converts cents to decimal for API responses
func (t ReceiptTotals) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]float64{
		"subtotal":        float64(t.Subtotal) / 100,
		"system_discount": float64(t.SystemDiscount) / 100,
		"quick_discount":  float64(t.QuickDiscount) / 100,
		"discount_total":  float64(t.DiscountTotal) / 100,
		"total":           float64(t.Total) / 100,
	})
}

// ReceiptWithTotals bundles a receipt with its computed totals
type ReceiptWithTotals struct {
	*entity.Receipt
	Totals *ReceiptTotals `json:"totals"`
}

// MarshalJSON flattens the receipt fields and attaches the totals object.
// Without it the embedded receipt's marshaler is promoted to the wrapper
// and the totals key never reaches the output.
func (rt ReceiptWithTotals) MarshalJSON() ([]byte, error) {
	receiptJSON, err := json.Marshal(rt.Receipt)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(receiptJSON, &fields); err != nil {
		return nil, err
	}
	totalsJSON, err := json.Marshal(rt.Totals)
	if err != nil {
		return nil, err
	}
	fields["totals"] = totalsJSON
	return json.Marshal(fields)
}

// Create opens a new receipt with its items. Unit prices are snapshotted
// from the catalog at this moment and never recomputed. For dine-in receipts
// the table is flipped AVAILABLE -> OCCUPIED with a conditional update, so
// two concurrent orders can never seat the same table.
func (s *ReceiptService) Create(ctx context.Context, input *CreateReceiptInput, actorID *uuid.UUID) (*ReceiptWithTotals, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Receipt must have at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be greater than zero")
		}
	}

	if input.IsDelivery {
		if input.PhoneNumber == "" || input.Location == "" {
			return nil, apperror.NewBadRequestError("Delivery receipts require phone number and location")
		}
		if input.TableID != nil {
			return nil, apperror.NewBadRequestError("Delivery receipts cannot have a table")
		}
	} else {
		if input.TableID == nil {
			return nil, apperror.NewBadRequestError("Dine-in receipts require a table")
		}
		if input.PhoneNumber != "" || input.Location != "" {
			return nil, apperror.NewBadRequestError("Dine-in receipts cannot have delivery fields")
		}
	}

	var table *entity.Table
	if input.TableID != nil {
		var err error
		table, err = s.tableRepo.GetByID(ctx, *input.TableID)
		if err != nil {
			return nil, err
		}
		if table == nil {
			return nil, apperror.NewNotFoundError("Table")
		}
	}

	// Batch fetch all catalog items in one query
	itemIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		itemIDs[i] = item.ItemID
	}
	items, err := s.itemRepo.GetByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	itemMap := make(map[uuid.UUID]*entity.Item, len(items))
	for i := range items {
		itemMap[items[i].ID] = &items[i]
	}

	var missing []string
	for _, item := range input.Items {
		if _, exists := itemMap[item.ItemID]; !exists {
			missing = append(missing, item.ItemID.String())
		}
	}
	if len(missing) > 0 {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown items: %v", missing))
	}

	receipt := &entity.Receipt{
		IsDelivery:  input.IsDelivery,
		PhoneNumber: input.PhoneNumber,
		Location:    input.Location,
		Notes:       input.Notes,
		TableID:     input.TableID,
		CreatedBy:   actorID,
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		number, err := s.receiptRepo.NextNumber(ctx)
		if err != nil {
			return err
		}
		receipt.Number = number

		if err := s.receiptRepo.Create(ctx, receipt); err != nil {
			return err
		}

		receiptItems := make([]entity.ReceiptItem, 0, len(input.Items))
		for _, item := range input.Items {
			price := itemMap[item.ItemID].Price
			receiptItems = append(receiptItems, entity.ReceiptItem{
				ReceiptID: receipt.ID,
				ItemID:    item.ItemID,
				Quantity:  item.Quantity,
				UnitPrice: &price,
				Status:    enum.ItemStatusPending,
				Notes:     item.Notes,
				CreatedBy: actorID,
			})
		}
		if err := s.receiptItemRepo.CreateBatch(ctx, receiptItems); err != nil {
			return err
		}

		if table != nil {
			ok, err := s.tableRepo.SetStatusIf(ctx, table.ID, enum.TableStatusAvailable, enum.TableStatusOccupied)
			if err != nil {
				return err
			}
			if !ok {
				current, err := s.tableRepo.GetByID(ctx, table.ID)
				if err != nil {
					return err
				}
				status := "unknown"
				if current != nil {
					status = string(current.Status)
				}
				return apperror.NewBadRequestError(fmt.Sprintf("Table %d is not available (current status: %s)", table.Number, status))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "receipt", receipt.ID, "created", actorID, map[string]interface{}{
		"number":      receipt.Number,
		"is_delivery": receipt.IsDelivery,
		"items":       len(input.Items),
	})

	return s.FindOne(ctx, receipt.ID)
}

// Complete checks out a receipt: stamps completed_at, records the optional
// quick discount and frees the table for dine-in. There is no reopen.
func (s *ReceiptService) Complete(ctx context.Context, receiptID uuid.UUID, quickDiscount *int64, actorID *uuid.UUID) (*ReceiptWithTotals, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if receipt.IsCompleted() {
		return nil, apperror.NewBadRequestError("Receipt is already completed")
	}

	if quickDiscount != nil {
		if *quickDiscount < 0 {
			return nil, apperror.NewBadRequestError("Quick discount cannot be negative")
		}
		items, err := s.receiptItemRepo.ListByReceipt(ctx, receiptID)
		if err != nil {
			return nil, err
		}
		var subtotal int64
		for i := range items {
			subtotal += items[i].LineTotal()
		}
		if *quickDiscount > subtotal {
			return nil, apperror.NewBadRequestError("Quick discount cannot exceed the receipt subtotal")
		}
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		now := time.Now()
		receipt.CompletedAt = &now
		receipt.QuickDiscount = quickDiscount
		if err := s.receiptRepo.Update(ctx, receipt); err != nil {
			return err
		}

		if receipt.TableID != nil {
			// The table may have been reassigned manually; only free it when
			// it is still occupied.
			if _, err := s.tableRepo.SetStatusIf(ctx, *receipt.TableID, enum.TableStatusOccupied, enum.TableStatusAvailable); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "receipt", receipt.ID, "completed", actorID, map[string]interface{}{
		"number": receipt.Number,
	})

	return s.FindOne(ctx, receiptID)
}

// CalculateTotal recomputes the receipt's totals from its current rows.
// Pure read: safe to call concurrently with mutations, always reflecting
// the latest committed state.
func (s *ReceiptService) CalculateTotal(ctx context.Context, receiptID uuid.UUID) (*ReceiptTotals, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	items, err := s.receiptItemRepo.ListByReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	for i := range items {
		subtotal += items[i].LineTotal()
	}

	allocations, err := s.allocationRepo.ListByReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	var systemDiscount int64
	for _, alloc := range allocations {
		systemDiscount += alloc.AppliedAmount
	}

	var quickDiscount int64
	if receipt.QuickDiscount != nil {
		quickDiscount = *receipt.QuickDiscount
	}

	discountTotal := systemDiscount + quickDiscount
	return &ReceiptTotals{
		Subtotal:       subtotal,
		SystemDiscount: systemDiscount,
		QuickDiscount:  quickDiscount,
		DiscountTotal:  discountTotal,
		Total:          subtotal - discountTotal,
	}, nil
}

// FindOne retrieves a receipt with items, discounts and computed totals
func (s *ReceiptService) FindOne(ctx context.Context, receiptID uuid.UUID) (*ReceiptWithTotals, error) {
	receipt, err := s.receiptRepo.GetWithDetails(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	totals, err := s.CalculateTotal(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	return &ReceiptWithTotals{Receipt: receipt, Totals: totals}, nil
}

// FindAll lists receipts with filtering and offset pagination
func (s *ReceiptService) FindAll(ctx context.Context, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(receipts, pag), nil
}
