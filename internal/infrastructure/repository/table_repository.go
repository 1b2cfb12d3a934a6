package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	domainRepo "github.com/ordino-pos/ordino-api/internal/domain/repository"
	"gorm.io/gorm"
)

type tableRepository struct {
	db *gorm.DB
}

// NewTableRepository creates a new table repository
func NewTableRepository(db *gorm.DB) domainRepo.TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *entity.Table) error {
	return conn(ctx, r.db).Create(table).Error
}

func (r *tableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Table, error) {
	var table entity.Table
	err := conn(ctx, r.db).First(&table, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &table, err
}

func (r *tableRepository) GetByNumber(ctx context.Context, number int) (*entity.Table, error) {
	var table entity.Table
	err := conn(ctx, r.db).First(&table, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &table, err
}

func (r *tableRepository) List(ctx context.Context, status *enum.TableStatus) ([]entity.Table, error) {
	var tables []entity.Table
	query := conn(ctx, r.db).Model(&entity.Table{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus) error {
	return conn(ctx, r.db).Model(&entity.Table{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// SetStatusIf performs a conditional update guarded by the expected current
// status, so two concurrent writers cannot both claim the same table.
func (r *tableRepository) SetStatusIf(ctx context.Context, id uuid.UUID, expected, target enum.TableStatus) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Table{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", target)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *tableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Table{}, "id = ?", id).Error
}
