package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
)

// KitchenService provides the kitchen's view of outstanding work
type KitchenService struct {
	receiptItemRepo repository.ReceiptItemRepository
}

// NewKitchenService creates a new kitchen service
func NewKitchenService(receiptItemRepo repository.ReceiptItemRepository) *KitchenService {
	return &KitchenService{receiptItemRepo: receiptItemRepo}
}

// PendingItems returns items still being worked on, oldest first
func (s *KitchenService) PendingItems(ctx context.Context) ([]entity.ReceiptItem, error) {
	return s.receiptItemRepo.ListByStatuses(ctx, []enum.ItemStatus{
		enum.ItemStatusPending,
		enum.ItemStatusPreparing,
	})
}

// KitchenTicket groups a receipt's outstanding items for the kitchen display
type KitchenTicket struct {
	ReceiptID     uuid.UUID            `json:"receipt_id"`
	ReceiptNumber int64                `json:"receipt_number"`
	TableNumber   *int                 `json:"table_number,omitempty"`
	IsDelivery    bool                 `json:"is_delivery"`
	Items         []entity.ReceiptItem `json:"items"`
}

// Queue returns outstanding items grouped into tickets, ordered by the
// oldest item of each receipt.
func (s *KitchenService) Queue(ctx context.Context) ([]KitchenTicket, error) {
	items, err := s.PendingItems(ctx)
	if err != nil {
		return nil, err
	}

	tickets := make([]KitchenTicket, 0)
	index := make(map[uuid.UUID]int)
	for _, item := range items {
		pos, seen := index[item.ReceiptID]
		if !seen {
			ticket := KitchenTicket{ReceiptID: item.ReceiptID}
			if item.Receipt != nil {
				ticket.ReceiptNumber = item.Receipt.Number
				ticket.IsDelivery = item.Receipt.IsDelivery
				if item.Receipt.Table != nil {
					number := item.Receipt.Table.Number
					ticket.TableNumber = &number
				}
			}
			tickets = append(tickets, ticket)
			pos = len(tickets) - 1
			index[item.ReceiptID] = pos
		}
		tickets[pos].Items = append(tickets[pos].Items, item)
	}
	return tickets, nil
}
