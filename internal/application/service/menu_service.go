package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/audit"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/cache"
	"github.com/ordino-pos/ordino-api/pkg/apperror"
	"github.com/rs/zerolog/log"
)

const itemCacheTTL = 10 * time.Minute

// MenuService handles menu sections, items and their price history
type MenuService struct {
	sectionRepo repository.SectionRepository
	itemRepo    repository.ItemRepository
	historyRepo repository.PriceHistoryRepository
	cache       *cache.RedisCache
	tx          repository.Transactor
	audit       audit.Recorder
}

// NewMenuService creates a new menu service
func NewMenuService(
	sectionRepo repository.SectionRepository,
	itemRepo repository.ItemRepository,
	historyRepo repository.PriceHistoryRepository,
	redisCache *cache.RedisCache,
	tx repository.Transactor,
	auditRecorder audit.Recorder,
) *MenuService {
	return &MenuService{
		sectionRepo: sectionRepo,
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		cache:       redisCache,
		tx:          tx,
		audit:       auditRecorder,
	}
}

// CreateSection creates a new menu section
func (s *MenuService) CreateSection(ctx context.Context, name string, actorID *uuid.UUID) (*entity.Section, error) {
	if name == "" {
		return nil, apperror.NewBadRequestError("Section name is required")
	}

	section := &entity.Section{Name: name, CreatedBy: actorID}
	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}
	s.invalidateSections(ctx)

	s.audit.Record(ctx, "section", section.ID, "created", actorID, nil)
	return section, nil
}

// ListSections lists menu sections, optionally with their items
func (s *MenuService) ListSections(ctx context.Context, withItems bool) ([]entity.Section, error) {
	key := cache.SectionsCacheKey(withItems)
	var cached []entity.Section
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	sections, err := s.sectionRepo.List(ctx, withItems)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, sections, itemCacheTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache menu sections")
	}
	return sections, nil
}

// CreateItemInput represents the create menu item input. Price is in
// currency units and converted to cents internally.
type CreateItemInput struct {
	SectionID   uuid.UUID
	Name        string
	Price       float64
	Description string
}

// CreateItem creates a menu item and opens its first price history row
func (s *MenuService) CreateItem(ctx context.Context, input *CreateItemInput, actorID *uuid.UUID) (*entity.Item, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Item name is required")
	}
	if input.Price <= 0 {
		return nil, apperror.NewBadRequestError("Item price must be greater than zero")
	}

	section, err := s.sectionRepo.GetByID(ctx, input.SectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, apperror.NewNotFoundError("Section")
	}

	item := &entity.Item{
		SectionID:   input.SectionID,
		Name:        input.Name,
		Price:       int64(math.Round(input.Price * 100)),
		Description: input.Description,
		CreatedBy:   actorID,
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.itemRepo.Create(ctx, item); err != nil {
			return err
		}
		return s.historyRepo.Create(ctx, &entity.ItemPriceHistory{
			ItemID:        item.ID,
			Price:         item.Price,
			EffectiveFrom: time.Now(),
			CreatedBy:     actorID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidateSections(ctx)

	s.audit.Record(ctx, "item", item.ID, "created", actorID, map[string]interface{}{
		"name": item.Name,
	})
	return item, nil
}

// GetItem retrieves a menu item, read-through cached
func (s *MenuService) GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	key := cache.ItemCacheKey(id)
	var cached entity.Item
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	if err := s.cache.Set(ctx, key, item, itemCacheTTL); err != nil {
		log.Warn().Err(err).Str("item_id", id.String()).Msg("failed to cache menu item")
	}
	return item, nil
}

// ListItems lists menu items with filtering
func (s *MenuService) ListItems(ctx context.Context, params *repository.ItemFilterParams) ([]entity.Item, error) {
	return s.itemRepo.List(ctx, params)
}

// UpdateItemInput represents the updatable menu item fields
type UpdateItemInput struct {
	Name        *string
	Price       *float64
	Description *string
}

// UpdateItem modifies a menu item. A price change closes the open price
// history row and starts a new one in the same transaction; receipts keep
// their snapshots regardless.
func (s *MenuService) UpdateItem(ctx context.Context, id uuid.UUID, input *UpdateItemInput, actorID *uuid.UUID) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewBadRequestError("Item name is required")
		}
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}

	var newPrice *int64
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, apperror.NewBadRequestError("Item price must be greater than zero")
		}
		cents := int64(math.Round(*input.Price * 100))
		if cents != item.Price {
			newPrice = &cents
			item.Price = cents
		}
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.itemRepo.Update(ctx, item); err != nil {
			return err
		}
		if newPrice != nil {
			now := time.Now()
			if err := s.historyRepo.CloseCurrent(ctx, item.ID, now); err != nil {
				return err
			}
			return s.historyRepo.Create(ctx, &entity.ItemPriceHistory{
				ItemID:        item.ID,
				Price:         *newPrice,
				EffectiveFrom: now,
				CreatedBy:     actorID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateItem(ctx, item.ID)

	s.audit.Record(ctx, "item", item.ID, "updated", actorID, map[string]interface{}{
		"price_changed": newPrice != nil,
	})
	return item, nil
}

// DeleteItem soft deletes a menu item. Receipts that already reference it
// keep their lines and snapshots.
func (s *MenuService) DeleteItem(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Item")
	}

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateItem(ctx, id)

	s.audit.Record(ctx, "item", id, "deleted", actorID, nil)
	return nil
}

// PriceAt returns the item's price effective at the given time
func (s *MenuService) PriceAt(ctx context.Context, itemID uuid.UUID, at time.Time) (*entity.ItemPriceHistory, error) {
	record, err := s.historyRepo.GetAtDate(ctx, itemID, at)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError("Price record")
	}
	return record, nil
}

// PriceHistory lists the item's price history, newest first
func (s *MenuService) PriceHistory(ctx context.Context, itemID uuid.UUID) ([]entity.ItemPriceHistory, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return s.historyRepo.ListByItem(ctx, itemID)
}

func (s *MenuService) invalidateItem(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.ItemCacheKey(id), cache.SectionsCacheKey(true), cache.SectionsCacheKey(false)); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate menu cache")
	}
}

func (s *MenuService) invalidateSections(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.SectionsCacheKey(true), cache.SectionsCacheKey(false)); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate menu cache")
	}
}
