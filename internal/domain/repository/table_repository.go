package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
)

// TableRepository defines the interface for dining table data operations
type TableRepository interface {
	Create(ctx context.Context, table *entity.Table) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Table, error)
	GetByNumber(ctx context.Context, number int) (*entity.Table, error)
	List(ctx context.Context, status *enum.TableStatus) ([]entity.Table, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus) error
	// SetStatusIf flips the table status only when the current status matches
	// the expected one (conditional update). Returns false when no row matched,
	// i.e. the table was concurrently taken.
	SetStatusIf(ctx context.Context, id uuid.UUID, expected, target enum.TableStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
