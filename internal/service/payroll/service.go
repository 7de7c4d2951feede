package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/batch"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
	"github.com/sparkhq/spark-backend-go/internal/pkg/export"
	"github.com/sparkhq/spark-backend-go/internal/pkg/storage"
	"github.com/sparkhq/spark-backend-go/internal/repository/postgresql"
	allocsvc "github.com/sparkhq/spark-backend-go/internal/service/allocation"
)

type BatchServiceImpl struct {
	db           database.TxBeginner
	batchRepo    batch.BatchRepository
	allocRepo    allocation.AllocationRepository
	overrideRepo allocation.OverrideRepository
	fileStorage  storage.FileStorage
}

func NewBatchService(
	db *database.DB,
	batchRepo batch.BatchRepository,
	allocRepo allocation.AllocationRepository,
	overrideRepo allocation.OverrideRepository,
	fileStorage storage.FileStorage,
) batch.BatchService {
	return &BatchServiceImpl{
		db:           db,
		batchRepo:    batchRepo,
		allocRepo:    allocRepo,
		overrideRepo: overrideRepo,
		fileStorage:  fileStorage,
	}
}

// CreateBatch implements batch.BatchService.
func (s *BatchServiceImpl) CreateBatch(ctx context.Context, req batch.CreateBatchRequest, actorID int64) (batch.BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return batch.BatchResponse{}, err
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)

	created, err := s.batchRepo.Create(ctx, batch.PayrollBatch{
		Name:        req.Name,
		Status:      batch.BatchStatusDraft,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Notes:       req.Notes,
		CreatedBy:   actorID,
	})
	if err != nil {
		return batch.BatchResponse{}, err
	}

	return mapToBatchResponse(created), nil
}

// GetBatch implements batch.BatchService.
func (s *BatchServiceImpl) GetBatch(ctx context.Context, id int64) (batch.BatchDetailResponse, error) {
	b, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return batch.BatchDetailResponse{}, err
	}

	allocations, err := s.allocRepo.ListForBatch(ctx, id)
	if err != nil {
		return batch.BatchDetailResponse{}, err
	}
	overrides, err := s.overrideRepo.ListForBatch(ctx, id)
	if err != nil {
		return batch.BatchDetailResponse{}, err
	}

	return batch.BatchDetailResponse{
		BatchResponse: mapToBatchResponse(b),
		Allocations:   allocsvc.MapToUnifiedResponses(allocations),
		Overrides:     allocsvc.MapToOverrideResponses(overrides),
	}, nil
}

// ListBatches implements batch.BatchService.
func (s *BatchServiceImpl) ListBatches(ctx context.Context, filter batch.BatchFilter) (batch.ListBatchResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	batches, total, err := s.batchRepo.List(ctx, filter)
	if err != nil {
		return batch.ListBatchResponse{}, err
	}

	resp := batch.ListBatchResponse{
		Data:       make([]batch.BatchResponse, 0, len(batches)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, b := range batches {
		resp.Data = append(resp.Data, mapToBatchResponse(b))
	}

	return resp, nil
}

// UpdateBatch implements batch.BatchService.
func (s *BatchServiceImpl) UpdateBatch(ctx context.Context, req batch.UpdateBatchRequest) (batch.BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return batch.BatchResponse{}, err
	}

	b, err := s.batchRepo.GetByID(ctx, req.ID)
	if err != nil {
		return batch.BatchResponse{}, err
	}
	if b.Status != batch.BatchStatusDraft {
		return batch.BatchResponse{}, batch.ErrBatchNotDraft
	}

	if err := s.batchRepo.Update(ctx, req); err != nil {
		return batch.BatchResponse{}, err
	}

	updated, err := s.batchRepo.GetByID(ctx, req.ID)
	if err != nil {
		return batch.BatchResponse{}, err
	}

	return mapToBatchResponse(updated), nil
}

// AddAllocations implements batch.BatchService.
func (s *BatchServiceImpl) AddAllocations(ctx context.Context, req batch.AddAllocationsRequest, actorID int64) (batch.AddAllocationsResult, error) {
	if err := req.Validate(); err != nil {
		return batch.AddAllocationsResult{}, err
	}

	result := batch.AddAllocationsResult{Total: len(req.Items)}

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := database.WithTx(ctx, tx)

		b, err := s.batchRepo.GetByID(txCtx, req.BatchID)
		if err != nil {
			return err
		}
		if b.Status != batch.BatchStatusDraft {
			return batch.ErrBatchNotDraft
		}

		for _, item := range req.Items {
			if err := s.addItem(txCtx, req.BatchID, item); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("allocation %d: %v", item.AllocationID, err))
				continue
			}
			result.Added++
		}

		total, count, err := s.batchRepo.AggregateTotals(txCtx, req.BatchID)
		if err != nil {
			return err
		}
		if err := s.batchRepo.SetTotals(txCtx, req.BatchID, total, count); err != nil {
			return err
		}
		result.TotalAmount = total
		result.RecordCount = count

		return nil
	})
	if err != nil {
		return batch.AddAllocationsResult{}, err
	}

	return result, nil
}

func (s *BatchServiceImpl) addItem(ctx context.Context, batchID int64, item batch.AddAllocationItem) error {
	if item.IsOverride {
		o, err := s.overrideRepo.GetByID(ctx, item.AllocationID)
		if err != nil {
			return err
		}
		if err := eligibleForBatch(o.IsApproved, o.IsPaid, o.PayrollBatchID, batchID); err != nil {
			return err
		}
		return s.overrideRepo.SetBatch(ctx, item.AllocationID, &batchID)
	}

	ind := industry.Industry(item.Industry)
	a, err := s.allocRepo.GetByID(ctx, ind, item.AllocationID)
	if err != nil {
		return err
	}
	if err := eligibleForBatch(a.IsApproved, a.IsPaid, a.PayrollBatchID, batchID); err != nil {
		return err
	}
	return s.allocRepo.SetBatch(ctx, ind, item.AllocationID, &batchID)
}

func eligibleForBatch(isApproved, isPaid bool, currentBatchID *int64, batchID int64) error {
	if !isApproved {
		return allocation.ErrAllocationNotApproved
	}
	if isPaid {
		return allocation.ErrAllocationAlreadyPaid
	}
	if currentBatchID != nil && *currentBatchID != batchID {
		return allocation.ErrAllocationInOtherBatch
	}
	return nil
}

// SubmitBatch implements batch.BatchService.
func (s *BatchServiceImpl) SubmitBatch(ctx context.Context, id int64, actorID int64) (batch.BatchResponse, error) {
	return s.transition(ctx, id, batch.BatchStatusSubmitted, actorID)
}

// ApproveBatch implements batch.BatchService.
func (s *BatchServiceImpl) ApproveBatch(ctx context.Context, id int64, actorID int64) (batch.BatchResponse, error) {
	return s.transition(ctx, id, batch.BatchStatusApproved, actorID)
}

// ExportBatch implements batch.BatchService.
//
// The workbook is rendered and stored before the status flips, so a failed
// export leaves the batch APPROVED and retriable.
func (s *BatchServiceImpl) ExportBatch(ctx context.Context, id int64, actorID int64) (batch.BatchResponse, error) {
	var exported batch.PayrollBatch

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := database.WithTx(ctx, tx)

		b, err := s.batchRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if b.Status != batch.BatchStatusApproved {
			return &batch.InvalidTransitionError{
				BatchID:  id,
				Expected: batch.BatchStatusApproved,
				Actual:   b.Status,
				Target:   batch.BatchStatusExported,
			}
		}

		total, count, err := s.batchRepo.AggregateTotals(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.batchRepo.SetTotals(txCtx, id, total, count); err != nil {
			return err
		}
		b.TotalAmount = total
		b.RecordCount = count

		allocations, err := s.allocRepo.ListForBatch(txCtx, id)
		if err != nil {
			return err
		}
		overrides, err := s.overrideRepo.ListForBatch(txCtx, id)
		if err != nil {
			return err
		}

		buf, err := export.BatchWorkbook(b, allocsvc.MapToUnifiedResponses(allocations), allocsvc.MapToOverrideResponses(overrides))
		if err != nil {
			return err
		}

		path := fmt.Sprintf("payroll/batch_%d_%s_%s.xlsx", id, time.Now().Format("20060102"), uuid.NewString())
		storedPath, err := s.fileStorage.Upload(ctx, buf, path, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err != nil {
			return fmt.Errorf("failed to store batch export: %w", err)
		}

		if err := s.batchRepo.SetExportPath(txCtx, id, storedPath); err != nil {
			return err
		}
		if err := s.batchRepo.TransitionStatus(txCtx, id, batch.BatchStatusApproved, batch.BatchStatusExported, actorID, time.Now()); err != nil {
			return err
		}

		exported, err = s.batchRepo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return batch.BatchResponse{}, err
	}

	return mapToBatchResponse(exported), nil
}

// MarkBatchPaid implements batch.BatchService.
//
// The status flip and the row stamping commit together or not at all.
func (s *BatchServiceImpl) MarkBatchPaid(ctx context.Context, id int64, actorID int64) (batch.BatchResponse, error) {
	var paid batch.PayrollBatch

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := database.WithTx(ctx, tx)

		b, err := s.batchRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if b.Status != batch.BatchStatusExported {
			return &batch.InvalidTransitionError{
				BatchID:  id,
				Expected: batch.BatchStatusExported,
				Actual:   b.Status,
				Target:   batch.BatchStatusPaid,
			}
		}

		if err := s.batchRepo.TransitionStatus(txCtx, id, b.Status, batch.BatchStatusPaid, actorID, time.Now()); err != nil {
			return err
		}

		for _, ind := range industry.All() {
			if _, err := s.allocRepo.MarkPaidForBatch(txCtx, ind, id); err != nil {
				return err
			}
		}
		if _, err := s.overrideRepo.MarkPaidForBatch(txCtx, id); err != nil {
			return err
		}

		paid, err = s.batchRepo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return batch.BatchResponse{}, err
	}

	return mapToBatchResponse(paid), nil
}

// CancelBatch implements batch.BatchService.
//
// Cancellation releases tagged rows so they can join a future batch.
func (s *BatchServiceImpl) CancelBatch(ctx context.Context, id int64, actorID int64) (batch.BatchResponse, error) {
	var cancelled batch.PayrollBatch

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := database.WithTx(ctx, tx)

		b, err := s.batchRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(batch.BatchStatusCancelled) {
			return &batch.InvalidTransitionError{
				BatchID: id,
				Actual:  b.Status,
				Target:  batch.BatchStatusCancelled,
			}
		}

		if err := s.batchRepo.TransitionStatus(txCtx, id, b.Status, batch.BatchStatusCancelled, actorID, time.Now()); err != nil {
			return err
		}

		allocations, err := s.allocRepo.ListForBatch(txCtx, id)
		if err != nil {
			return err
		}
		for _, a := range allocations {
			if err := s.allocRepo.SetBatch(txCtx, a.Industry, a.ID, nil); err != nil {
				return err
			}
		}

		overrides, err := s.overrideRepo.ListForBatch(txCtx, id)
		if err != nil {
			return err
		}
		for _, o := range overrides {
			if err := s.overrideRepo.SetBatch(txCtx, o.ID, nil); err != nil {
				return err
			}
		}

		cancelled, err = s.batchRepo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return batch.BatchResponse{}, err
	}

	return mapToBatchResponse(cancelled), nil
}

// RecalculateTotals implements batch.BatchService.
func (s *BatchServiceImpl) RecalculateTotals(ctx context.Context, id int64) (decimal.Decimal, int, error) {
	total, count, err := s.batchRepo.AggregateTotals(ctx, id)
	if err != nil {
		return decimal.Zero, 0, err
	}

	if err := s.batchRepo.SetTotals(ctx, id, total, count); err != nil {
		return decimal.Zero, 0, err
	}

	return total, count, nil
}

// transition moves the batch one step forward, re-aggregating totals before
// the flip so submitted numbers are never stale.
func (s *BatchServiceImpl) transition(ctx context.Context, id int64, next batch.BatchStatus, actorID int64) (batch.BatchResponse, error) {
	var moved batch.PayrollBatch

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := database.WithTx(ctx, tx)

		b, err := s.batchRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		required, ok := batch.RequiredSource(next)
		if !ok {
			return batch.ErrInvalidStatus
		}
		if b.Status != required {
			return &batch.InvalidTransitionError{
				BatchID:  id,
				Expected: required,
				Actual:   b.Status,
				Target:   next,
			}
		}

		total, count, err := s.batchRepo.AggregateTotals(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.batchRepo.SetTotals(txCtx, id, total, count); err != nil {
			return err
		}

		if err := s.batchRepo.TransitionStatus(txCtx, id, required, next, actorID, time.Now()); err != nil {
			return err
		}

		moved, err = s.batchRepo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return batch.BatchResponse{}, err
	}

	return mapToBatchResponse(moved), nil
}

func mapToBatchResponse(b batch.PayrollBatch) batch.BatchResponse {
	resp := batch.BatchResponse{
		ID:          b.ID,
		Name:        b.Name,
		Status:      string(b.Status),
		PeriodStart: b.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   b.PeriodEnd.Format("2006-01-02"),
		TotalAmount: b.TotalAmount,
		RecordCount: b.RecordCount,
		Notes:       b.Notes,
		ExportPath:  b.ExportPath,
	}
	resp.SubmittedAt = formatTimePtr(b.SubmittedAt)
	resp.ApprovedAt = formatTimePtr(b.ApprovedAt)
	resp.ExportedAt = formatTimePtr(b.ExportedAt)
	resp.PaidAt = formatTimePtr(b.PaidAt)
	resp.CancelledAt = formatTimePtr(b.CancelledAt)
	return resp
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02T15:04:05Z07:00")
	return &formatted
}
