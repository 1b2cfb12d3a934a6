package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/audit"
	"github.com/ordino-pos/ordino-api/pkg/apperror"
)

// ReceiptItemService handles the kitchen workflow of receipt items
type ReceiptItemService struct {
	receiptRepo     repository.ReceiptRepository
	receiptItemRepo repository.ReceiptItemRepository
	audit           audit.Recorder
}

// NewReceiptItemService creates a new receipt item service
func NewReceiptItemService(
	receiptRepo repository.ReceiptRepository,
	receiptItemRepo repository.ReceiptItemRepository,
	auditRecorder audit.Recorder,
) *ReceiptItemService {
	return &ReceiptItemService{
		receiptRepo:     receiptRepo,
		receiptItemRepo: receiptItemRepo,
		audit:           auditRecorder,
	}
}

// StatusChange reports a completed status transition
type StatusChange struct {
	Previous enum.ItemStatus `json:"previous"`
	Current  enum.ItemStatus `json:"current"`
}

// UpdateStatus moves a receipt item one step through the kitchen workflow.
// Transitions outside the allow-list are rejected with the set of statuses
// reachable from the current one.
func (s *ReceiptItemService) UpdateStatus(ctx context.Context, receiptID, itemID uuid.UUID, target enum.ItemStatus, actorID *uuid.UUID) (*StatusChange, error) {
	if !target.Valid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown status: %s", target))
	}

	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	item, err := s.receiptItemRepo.GetByReceipt(ctx, receiptID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Receipt item")
	}

	if !item.Status.CanTransitionTo(target) {
		allowed := item.Status.AllowedTransitions()
		names := "none"
		if len(allowed) > 0 {
			parts := make([]string, len(allowed))
			for i, a := range allowed {
				parts[i] = string(a)
			}
			names = strings.Join(parts, ", ")
		}
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Cannot change status from %s to %s (allowed: %s)", item.Status, target, names))
	}

	previous := item.Status
	if err := s.receiptItemRepo.UpdateStatus(ctx, item.ID, target); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "receipt_item", item.ID, "status_changed", actorID, map[string]interface{}{
		"from": previous,
		"to":   target,
	})

	return &StatusChange{Previous: previous, Current: target}, nil
}
