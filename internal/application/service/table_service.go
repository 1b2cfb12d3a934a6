package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/ordino-pos/ordino-api/internal/infrastructure/audit"
	"github.com/ordino-pos/ordino-api/pkg/apperror"
)

// TableService handles dining table management
type TableService struct {
	tableRepo repository.TableRepository
	audit     audit.Recorder
}

// NewTableService creates a new table service
func NewTableService(tableRepo repository.TableRepository, auditRecorder audit.Recorder) *TableService {
	return &TableService{tableRepo: tableRepo, audit: auditRecorder}
}

// Create registers a new dining table
func (s *TableService) Create(ctx context.Context, number int, actorID *uuid.UUID) (*entity.Table, error) {
	if number <= 0 {
		return nil, apperror.NewBadRequestError("Table number must be greater than zero")
	}

	existing, err := s.tableRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError(fmt.Sprintf("Table %d already exists", number))
	}

	table := &entity.Table{
		Number:    number,
		Status:    enum.TableStatusAvailable,
		CreatedBy: actorID,
	}
	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "table", table.ID, "created", actorID, map[string]interface{}{
		"number": table.Number,
	})
	return table, nil
}

// Get retrieves a table by ID
func (s *TableService) Get(ctx context.Context, id uuid.UUID) (*entity.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperror.NewNotFoundError("Table")
	}
	return table, nil
}

// List lists tables, optionally filtered by status
func (s *TableService) List(ctx context.Context, status *enum.TableStatus) ([]entity.Table, error) {
	if status != nil && !status.Valid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown table status: %s", *status))
	}
	return s.tableRepo.List(ctx, status)
}

// ListAvailable lists tables that can seat a new receipt
func (s *TableService) ListAvailable(ctx context.Context) ([]entity.Table, error) {
	status := enum.TableStatusAvailable
	return s.tableRepo.List(ctx, &status)
}

// UpdateStatus sets a table's status directly (manual override)
func (s *TableService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus, actorID *uuid.UUID) (*entity.Table, error) {
	if !status.Valid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown table status: %s", status))
	}

	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.tableRepo.UpdateStatus(ctx, table.ID, status); err != nil {
		return nil, err
	}
	table.Status = status

	s.audit.Record(ctx, "table", table.ID, "status_changed", actorID, map[string]interface{}{
		"status": status,
	})
	return table, nil
}

// Delete soft deletes a table. Occupied tables cannot be removed.
func (s *TableService) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	table, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if table.Status == enum.TableStatusOccupied {
		return apperror.NewBadRequestError("Occupied tables cannot be deleted")
	}

	if err := s.tableRepo.Delete(ctx, table.ID); err != nil {
		return err
	}

	s.audit.Record(ctx, "table", table.ID, "deleted", actorID, nil)
	return nil
}
