package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	domainRepo "github.com/ordino-pos/ordino-api/internal/domain/repository"
	"gorm.io/gorm"
)

type sectionRepository struct {
	db *gorm.DB
}

// NewSectionRepository creates a new menu section repository
func NewSectionRepository(db *gorm.DB) domainRepo.SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) Create(ctx context.Context, section *entity.Section) error {
	return conn(ctx, r.db).Create(section).Error
}

func (r *sectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Section, error) {
	var section entity.Section
	err := conn(ctx, r.db).First(&section, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &section, err
}

func (r *sectionRepository) List(ctx context.Context, withItems bool) ([]entity.Section, error) {
	var sections []entity.Section
	query := conn(ctx, r.db).Model(&entity.Section{})
	if withItems {
		query = query.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
	}
	err := query.Order("name ASC").Find(&sections).Error
	return sections, err
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new menu item repository
func NewItemRepository(db *gorm.DB) domainRepo.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	return conn(ctx, r.db).Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var item entity.Item
	err := conn(ctx, r.db).Preload("Section").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	var items []entity.Item
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *itemRepository) List(ctx context.Context, params *domainRepo.ItemFilterParams) ([]entity.Item, error) {
	var items []entity.Item
	query := conn(ctx, r.db).Model(&entity.Item{})

	if params != nil {
		if params.SectionID != nil {
			query = query.Where("section_id = ?", *params.SectionID)
		}
		if params.Search != "" {
			query = query.Where("name ILIKE ?", "%"+params.Search+"%")
		}
		if params.MinPrice != nil {
			query = query.Where("price >= ?", *params.MinPrice)
		}
		if params.MaxPrice != nil {
			query = query.Where("price <= ?", *params.MaxPrice)
		}
	}

	err := query.Preload("Section").Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	return conn(ctx, r.db).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Item{}, "id = ?", id).Error
}

type priceHistoryRepository struct {
	db *gorm.DB
}

// NewPriceHistoryRepository creates a new item price history repository
func NewPriceHistoryRepository(db *gorm.DB) domainRepo.PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

func (r *priceHistoryRepository) Create(ctx context.Context, record *entity.ItemPriceHistory) error {
	return conn(ctx, r.db).Create(record).Error
}

func (r *priceHistoryRepository) CloseCurrent(ctx context.Context, itemID uuid.UUID, at time.Time) error {
	return conn(ctx, r.db).Model(&entity.ItemPriceHistory{}).
		Where("item_id = ? AND effective_to IS NULL", itemID).
		Update("effective_to", at).Error
}

func (r *priceHistoryRepository) GetAtDate(ctx context.Context, itemID uuid.UUID, at time.Time) (*entity.ItemPriceHistory, error) {
	var record entity.ItemPriceHistory
	err := conn(ctx, r.db).
		Where("item_id = ? AND effective_from <= ?", itemID, at).
		Where("effective_to IS NULL OR effective_to >= ?", at).
		Order("effective_from DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *priceHistoryRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]entity.ItemPriceHistory, error) {
	var records []entity.ItemPriceHistory
	err := conn(ctx, r.db).
		Where("item_id = ?", itemID).
		Order("effective_from DESC").
		Find(&records).Error
	return records, err
}
