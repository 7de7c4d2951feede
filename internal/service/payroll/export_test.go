package payroll

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/batch"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTx satisfies pgx.Tx for flows where every query goes through faked
// repositories.
type stubTx struct{}

func (stubTx) Begin(ctx context.Context) (pgx.Tx, error) { return stubTx{}, nil }
func (stubTx) Commit(ctx context.Context) error { return nil }
func (stubTx) Rollback(ctx context.Context) error { return nil }
func (stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (stubTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }
func (stubTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (stubTx) Conn() *pgx.Conn { return nil }

type stubDB struct{}

func (stubDB) BeginTx(ctx context.Context) (pgx.Tx, error) { return stubTx{}, nil }

type fakeBatchRepo struct {
	rows map[int64]batch.PayrollBatch
}

func (f *fakeBatchRepo) Create(ctx context.Context, b batch.PayrollBatch) (batch.PayrollBatch, error) {
	return b, nil
}

func (f *fakeBatchRepo) GetByID(ctx context.Context, id int64) (batch.PayrollBatch, error) {
	b, ok := f.rows[id]
	if !ok {
		return batch.PayrollBatch{}, batch.ErrBatchNotFound
	}
	return b, nil
}

func (f *fakeBatchRepo) List(ctx context.Context, filter batch.BatchFilter) ([]batch.PayrollBatch, int64, error) {
	return nil, 0, nil
}

func (f *fakeBatchRepo) ListOpen(ctx context.Context) ([]batch.PayrollBatch, error) {
	return nil, nil
}

func (f *fakeBatchRepo) Update(ctx context.Context, req batch.UpdateBatchRequest) error {
	return nil
}

func (f *fakeBatchRepo) TransitionStatus(ctx context.Context, id int64, expected, next batch.BatchStatus, actorID int64, at time.Time) error {
	b, ok := f.rows[id]
	if !ok {
		return batch.ErrBatchNotFound
	}
	if b.Status != expected {
		return batch.ErrConcurrencyConflict
	}
	b.Status = next
	f.rows[id] = b
	return nil
}

func (f *fakeBatchRepo) SetTotals(ctx context.Context, id int64, total decimal.Decimal, count int) error {
	b, ok := f.rows[id]
	if !ok {
		return batch.ErrBatchNotFound
	}
	b.TotalAmount = total
	b.RecordCount = count
	f.rows[id] = b
	return nil
}

func (f *fakeBatchRepo) SetExportPath(ctx context.Context, id int64, path string) error {
	b, ok := f.rows[id]
	if !ok {
		return batch.ErrBatchNotFound
	}
	b.ExportPath = &path
	f.rows[id] = b
	return nil
}

func (f *fakeBatchRepo) AggregateTotals(ctx context.Context, id int64) (decimal.Decimal, int, error) {
	return decimal.RequireFromString("500.00"), 1, nil
}

type stubAllocationRepo struct{}

func (stubAllocationRepo) GetByID(ctx context.Context, ind industry.Industry, id int64) (allocation.Allocation, error) {
	return allocation.Allocation{}, allocation.ErrAllocationNotFound
}

func (stubAllocationRepo) GetByKey(ctx context.Context, ind industry.Industry, saleID, userID int64, milestone int) (allocation.Allocation, error) {
	return allocation.Allocation{}, allocation.ErrAllocationNotFound
}

func (stubAllocationRepo) Insert(ctx context.Context, a allocation.Allocation) (allocation.Allocation, error) {
	return a, nil
}

func (stubAllocationRepo) UpdateAmount(ctx context.Context, ind industry.Industry, id int64, amount decimal.Decimal) error {
	return nil
}

func (stubAllocationRepo) DeleteByKey(ctx context.Context, ind industry.Industry, saleID, userID int64, milestone int) error {
	return nil
}

func (stubAllocationRepo) Approve(ctx context.Context, ind industry.Industry, id int64, actorID int64) error {
	return nil
}

func (stubAllocationRepo) ListForSale(ctx context.Context, saleID int64) ([]allocation.Allocation, error) {
	return nil, nil
}

func (stubAllocationRepo) List(ctx context.Context, filter allocation.AllocationFilter) ([]allocation.Allocation, int64, error) {
	return nil, 0, nil
}

func (stubAllocationRepo) ListForBatch(ctx context.Context, batchID int64) ([]allocation.Allocation, error) {
	return []allocation.Allocation{
		{ID: 1, Industry: industry.Solar, SaleID: 9, UserID: 5, MilestoneNumber: 1, AllocatedAmount: decimal.RequireFromString("500.00")},
	}, nil
}

func (stubAllocationRepo) SetBatch(ctx context.Context, ind industry.Industry, id int64, batchID *int64) error {
	return nil
}

func (stubAllocationRepo) MarkPaidForBatch(ctx context.Context, ind industry.Industry, batchID int64) (int64, error) {
	return 0, nil
}

type stubOverrideRepo struct{}

func (stubOverrideRepo) GetByID(ctx context.Context, id int64) (allocation.OverrideAllocation, error) {
	return allocation.OverrideAllocation{}, allocation.ErrOverrideNotFound
}

func (stubOverrideRepo) GetByKey(ctx context.Context, saleID, userID int64, level int) (allocation.OverrideAllocation, error) {
	return allocation.OverrideAllocation{}, allocation.ErrOverrideNotFound
}

func (stubOverrideRepo) Insert(ctx context.Context, o allocation.OverrideAllocation) (allocation.OverrideAllocation, error) {
	return o, nil
}

func (stubOverrideRepo) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	return nil
}

func (stubOverrideRepo) DeleteByKey(ctx context.Context, saleID, userID int64, level int) error {
	return nil
}

func (stubOverrideRepo) Approve(ctx context.Context, id int64, actorID int64) error {
	return nil
}

func (stubOverrideRepo) ListForSale(ctx context.Context, saleID int64) ([]allocation.OverrideAllocation, error) {
	return nil, nil
}

func (stubOverrideRepo) ListForUser(ctx context.Context, userID int64) ([]allocation.OverrideAllocation, error) {
	return nil, nil
}

func (stubOverrideRepo) ListForBatch(ctx context.Context, batchID int64) ([]allocation.OverrideAllocation, error) {
	return nil, nil
}

func (stubOverrideRepo) SetBatch(ctx context.Context, id int64, batchID *int64) error {
	return nil
}

func (stubOverrideRepo) MarkPaidForBatch(ctx context.Context, batchID int64) (int64, error) {
	return 0, nil
}

type fakeExportStorage struct {
	failUpload bool
	uploads    int
}

func (f *fakeExportStorage) Upload(ctx context.Context, content io.Reader, path string, contentType string) (string, error) {
	if f.failUpload {
		return "", errors.New("disk full")
	}
	f.uploads++
	return path, nil
}

func (f *fakeExportStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, errors.New("not stored")
}

func (f *fakeExportStorage) URL(path string) string { return path }

func TestExportBatch_FailedUploadLeavesBatchRetriable(t *testing.T) {
	repo := &fakeBatchRepo{rows: map[int64]batch.PayrollBatch{
		1: {
			ID:          1,
			Name:        "2026-02",
			Status:      batch.BatchStatusApproved,
			PeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}}
	store := &fakeExportStorage{failUpload: true}
	svc := &BatchServiceImpl{
		db:           stubDB{},
		batchRepo:    repo,
		allocRepo:    stubAllocationRepo{},
		overrideRepo: stubOverrideRepo{},
		fileStorage:  store,
	}

	_, err := svc.ExportBatch(context.Background(), 1, 9)
	require.Error(t, err)

	// The failed export must not strand the batch: still APPROVED, no
	// artifact path, and the next attempt goes through.
	b := repo.rows[1]
	assert.Equal(t, batch.BatchStatusApproved, b.Status)
	assert.Nil(t, b.ExportPath)

	store.failUpload = false
	resp, err := svc.ExportBatch(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.Equal(t, "EXPORTED", resp.Status)
	require.NotNil(t, resp.ExportPath)
	assert.Equal(t, 1, store.uploads)
}

func TestExportBatch_RejectsNonApproved(t *testing.T) {
	repo := &fakeBatchRepo{rows: map[int64]batch.PayrollBatch{
		1: {ID: 1, Status: batch.BatchStatusDraft},
	}}
	svc := &BatchServiceImpl{
		db:           stubDB{},
		batchRepo:    repo,
		allocRepo:    stubAllocationRepo{},
		overrideRepo: stubOverrideRepo{},
		fileStorage:  &fakeExportStorage{},
	}

	_, err := svc.ExportBatch(context.Background(), 1, 9)
	var transitionErr *batch.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, batch.BatchStatusApproved, transitionErr.Expected)
	assert.Equal(t, batch.BatchStatusDraft, transitionErr.Actual)
}
