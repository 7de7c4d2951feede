package batch

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BatchRepository interface {
	Create(ctx context.Context, b PayrollBatch) (PayrollBatch, error)
	GetByID(ctx context.Context, id int64) (PayrollBatch, error)
	List(ctx context.Context, filter BatchFilter) ([]PayrollBatch, int64, error)
	ListOpen(ctx context.Context) ([]PayrollBatch, error)
	Update(ctx context.Context, req UpdateBatchRequest) error

	// TransitionStatus flips status only when the stored status still equals
	// expected, stamping the actor/time fields for the target status. A zero
	// row count (lost race) returns ErrConcurrencyConflict.
	TransitionStatus(ctx context.Context, id int64, expected, next BatchStatus, actorID int64, at time.Time) error

	SetTotals(ctx context.Context, id int64, total decimal.Decimal, count int) error
	SetExportPath(ctx context.Context, id int64, path string) error

	// AggregateTotals sums amount and counts rows over the four allocation
	// tables plus overrides currently tagged with the batch.
	AggregateTotals(ctx context.Context, id int64) (decimal.Decimal, int, error)
}
