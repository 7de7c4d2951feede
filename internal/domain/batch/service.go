package batch

import (
	"context"

	"github.com/shopspring/decimal"
)

// BatchService governs the payroll batch lifecycle.
type BatchService interface {
	CreateBatch(ctx context.Context, req CreateBatchRequest, actorID int64) (BatchResponse, error)
	GetBatch(ctx context.Context, id int64) (BatchDetailResponse, error)
	ListBatches(ctx context.Context, filter BatchFilter) (ListBatchResponse, error)

	// UpdateBatch edits name/period/notes. Allowed only while DRAFT.
	UpdateBatch(ctx context.Context, req UpdateBatchRequest) (BatchResponse, error)

	// AddAllocations tags approved, unpaid allocations with a DRAFT batch
	// and recomputes totals. Per-item failures are reported, not fatal.
	AddAllocations(ctx context.Context, req AddAllocationsRequest, actorID int64) (AddAllocationsResult, error)

	SubmitBatch(ctx context.Context, id int64, actorID int64) (BatchResponse, error)
	ApproveBatch(ctx context.Context, id int64, actorID int64) (BatchResponse, error)

	// ExportBatch transitions to EXPORTED and writes the spreadsheet
	// artifact for the batch's allocations.
	ExportBatch(ctx context.Context, id int64, actorID int64) (BatchResponse, error)

	// MarkBatchPaid flips the batch to PAID and stamps every tagged
	// allocation and override paid, atomically.
	MarkBatchPaid(ctx context.Context, id int64, actorID int64) (BatchResponse, error)

	CancelBatch(ctx context.Context, id int64, actorID int64) (BatchResponse, error)

	// RecalculateTotals re-aggregates totalAmount/recordCount from tagged
	// rows and persists the result.
	RecalculateTotals(ctx context.Context, id int64) (decimal.Decimal, int, error)
}
