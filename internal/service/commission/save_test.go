package commission

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/employee"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/domain/rate"
	"github.com/sparkhq/spark-backend-go/internal/domain/sale"
	"github.com/sparkhq/spark-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTx satisfies pgx.Tx for flows where every query goes through faked
// repositories. The advisory lock Exec is a no-op.
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

type fakeSaleRepo struct {
	sales map[int64]sale.Sale
}

func (f *fakeSaleRepo) GetByID(ctx context.Context, id int64) (sale.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return sale.Sale{}, sale.ErrSaleNotFound
	}
	return s, nil
}

func (f *fakeSaleRepo) List(ctx context.Context, filter sale.SaleFilter) ([]sale.Sale, int64, error) {
	return nil, 0, nil
}

func (f *fakeSaleRepo) ListForUsers(ctx context.Context, userIDs []int64, filter sale.SaleFilter) ([]sale.Sale, int64, error) {
	return nil, 0, nil
}

func (f *fakeSaleRepo) Cancel(ctx context.Context, id int64, reason string, actorID int64) error {
	return nil
}

type fakeAllocationRepo struct {
	nextID int64
	rows   map[int64]allocation.Allocation
}

func newFakeAllocationRepo() *fakeAllocationRepo {
	return &fakeAllocationRepo{rows: map[int64]allocation.Allocation{}}
}

func (f *fakeAllocationRepo) GetByID(ctx context.Context, ind industry.Industry, id int64) (allocation.Allocation, error) {
	a, ok := f.rows[id]
	if !ok {
		return allocation.Allocation{}, allocation.ErrAllocationNotFound
	}
	return a, nil
}

func (f *fakeAllocationRepo) GetByKey(ctx context.Context, ind industry.Industry, saleID, userID int64, milestone int) (allocation.Allocation, error) {
	for _, a := range f.rows {
		if a.Industry == ind && a.SaleID == saleID && a.UserID == userID && a.MilestoneNumber == milestone {
			return a, nil
		}
	}
	return allocation.Allocation{}, allocation.ErrAllocationNotFound
}

func (f *fakeAllocationRepo) Insert(ctx context.Context, a allocation.Allocation) (allocation.Allocation, error) {
	f.nextID++
	a.ID = f.nextID
	f.rows[a.ID] = a
	return a, nil
}

func (f *fakeAllocationRepo) UpdateAmount(ctx context.Context, ind industry.Industry, id int64, amount decimal.Decimal) error {
	a, ok := f.rows[id]
	if !ok {
		return allocation.ErrAllocationNotFound
	}
	a.AllocatedAmount = amount
	f.rows[id] = a
	return nil
}

func (f *fakeAllocationRepo) DeleteByKey(ctx context.Context, ind industry.Industry, saleID, userID int64, milestone int) error {
	for id, a := range f.rows {
		if a.Industry == ind && a.SaleID == saleID && a.UserID == userID && a.MilestoneNumber == milestone {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeAllocationRepo) Approve(ctx context.Context, ind industry.Industry, id int64, actorID int64) error {
	return nil
}

func (f *fakeAllocationRepo) ListForSale(ctx context.Context, saleID int64) ([]allocation.Allocation, error) {
	return nil, nil
}

func (f *fakeAllocationRepo) List(ctx context.Context, filter allocation.AllocationFilter) ([]allocation.Allocation, int64, error) {
	return nil, 0, nil
}

func (f *fakeAllocationRepo) ListForBatch(ctx context.Context, batchID int64) ([]allocation.Allocation, error) {
	return nil, nil
}

func (f *fakeAllocationRepo) SetBatch(ctx context.Context, ind industry.Industry, id int64, batchID *int64) error {
	return nil
}

func (f *fakeAllocationRepo) MarkPaidForBatch(ctx context.Context, ind industry.Industry, batchID int64) (int64, error) {
	return 0, nil
}

type fakeOverrideRepo struct {
	nextID int64
	rows   map[int64]allocation.OverrideAllocation
}

func newFakeOverrideRepo() *fakeOverrideRepo {
	return &fakeOverrideRepo{rows: map[int64]allocation.OverrideAllocation{}}
}

func (f *fakeOverrideRepo) GetByID(ctx context.Context, id int64) (allocation.OverrideAllocation, error) {
	o, ok := f.rows[id]
	if !ok {
		return allocation.OverrideAllocation{}, allocation.ErrOverrideNotFound
	}
	return o, nil
}

func (f *fakeOverrideRepo) GetByKey(ctx context.Context, saleID, userID int64, level int) (allocation.OverrideAllocation, error) {
	for _, o := range f.rows {
		if o.SaleID == saleID && o.UserID == userID && o.OverrideLevel == level {
			return o, nil
		}
	}
	return allocation.OverrideAllocation{}, allocation.ErrOverrideNotFound
}

func (f *fakeOverrideRepo) Insert(ctx context.Context, o allocation.OverrideAllocation) (allocation.OverrideAllocation, error) {
	f.nextID++
	o.ID = f.nextID
	f.rows[o.ID] = o
	return o, nil
}

func (f *fakeOverrideRepo) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	o, ok := f.rows[id]
	if !ok {
		return allocation.ErrOverrideNotFound
	}
	o.AllocatedAmount = amount
	f.rows[id] = o
	return nil
}

func (f *fakeOverrideRepo) DeleteByKey(ctx context.Context, saleID, userID int64, level int) error {
	for id, o := range f.rows {
		if o.SaleID == saleID && o.UserID == userID && o.OverrideLevel == level {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeOverrideRepo) Approve(ctx context.Context, id int64, actorID int64) error {
	return nil
}

func (f *fakeOverrideRepo) ListForSale(ctx context.Context, saleID int64) ([]allocation.OverrideAllocation, error) {
	return nil, nil
}

func (f *fakeOverrideRepo) ListForUser(ctx context.Context, userID int64) ([]allocation.OverrideAllocation, error) {
	return nil, nil
}

func (f *fakeOverrideRepo) ListForBatch(ctx context.Context, batchID int64) ([]allocation.OverrideAllocation, error) {
	return nil, nil
}

func (f *fakeOverrideRepo) SetBatch(ctx context.Context, id int64, batchID *int64) error {
	return nil
}

func (f *fakeOverrideRepo) MarkPaidForBatch(ctx context.Context, batchID int64) (int64, error) {
	return 0, nil
}

// twoRepSale builds a fiber sale split evenly between users 10 (primary)
// and 20, with user 20 reporting to manager 21.
func twoRepSale() (*fakeSaleRepo, *fakeEmployeeRepo, *fakeUserRepo, *fakeRateService) {
	saleRepo := &fakeSaleRepo{sales: map[int64]sale.Sale{
		100: {
			ID:             100,
			Industry:       industry.Fiber,
			Status:         sale.SaleStatusApproved,
			SaleDate:       time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			ContractAmount: decimal.NewFromInt(5000),
			IsActive:       true,
			Participants: []sale.Participant{
				{SaleID: 100, UserID: 10, SplitPercent: decimal.NewFromInt(50), IsPrimary: true},
				{SaleID: 100, UserID: 20, SplitPercent: decimal.NewFromInt(50)},
			},
			Fiber: &sale.FiberDetail{SaleID: 100},
		},
	}}
	employeeRepo := &fakeEmployeeRepo{
		managers: map[int64]employee.Employee{
			20: {UserID: 21, IsActive: true},
		},
		employees: map[int64]employee.Employee{},
	}
	userRepo := &fakeUserRepo{users: map[int64]user.User{
		21: {ID: 21, IsActive: true},
	}}
	rateSvc := &fakeRateService{rates: map[int64]rate.CommissionRate{
		10: overrideRate("10"),
		20: overrideRate("10"),
		21: overrideRate("2"),
	}}
	return saleRepo, employeeRepo, userRepo, rateSvc
}

func newSaveTestService(saleRepo *fakeSaleRepo, allocRepo *fakeAllocationRepo, overrideRepo *fakeOverrideRepo, employeeRepo *fakeEmployeeRepo, userRepo *fakeUserRepo, rateSvc *fakeRateService) *CommissionServiceImpl {
	return &CommissionServiceImpl{
		db:           stubDB{},
		saleRepo:     saleRepo,
		rateSvc:      rateSvc,
		allocRepo:    allocRepo,
		overrideRepo: overrideRepo,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
	}
}

func TestSaveMilestoneAllocations_WalksEveryParticipantChain(t *testing.T) {
	saleRepo, employeeRepo, userRepo, rateSvc := twoRepSale()
	allocRepo := newFakeAllocationRepo()
	overrideRepo := newFakeOverrideRepo()
	svc := newSaveTestService(saleRepo, allocRepo, overrideRepo, employeeRepo, userRepo, rateSvc)

	result, err := svc.SaveMilestoneAllocations(context.Background(), 100, 1, 1)
	require.NoError(t, err)

	// Each rep gets 10 percent of a 2,500 share.
	require.Len(t, result.Allocations, 2)
	for _, a := range result.Allocations {
		assert.True(t, a.AllocatedAmount.Equal(decimal.RequireFromString("250.00")), "user %d got %s", a.UserID, a.AllocatedAmount)
	}

	// The non-primary rep's manager earns the level 1 override on the
	// full base.
	require.Len(t, result.Overrides, 1)
	o := result.Overrides[0]
	assert.Equal(t, int64(21), o.UserID)
	assert.Equal(t, int64(20), o.SourceUserID)
	assert.Equal(t, 1, o.OverrideLevel)
	assert.True(t, o.AllocatedAmount.Equal(decimal.RequireFromString("100.00")), "got %s", o.AllocatedAmount)

	stored, err := overrideRepo.GetByKey(context.Background(), 100, 21, 1)
	require.NoError(t, err)
	assert.True(t, stored.AllocatedAmount.Equal(decimal.RequireFromString("100.00")))
}

func TestSaveMilestoneAllocations_SharedManagerConverges(t *testing.T) {
	saleRepo, employeeRepo, userRepo, rateSvc := twoRepSale()
	// Both reps report to manager 21.
	employeeRepo.managers[10] = employee.Employee{UserID: 21, IsActive: true}
	allocRepo := newFakeAllocationRepo()
	overrideRepo := newFakeOverrideRepo()
	svc := newSaveTestService(saleRepo, allocRepo, overrideRepo, employeeRepo, userRepo, rateSvc)

	result, err := svc.SaveMilestoneAllocations(context.Background(), 100, 1, 1)
	require.NoError(t, err)

	// One (sale, manager, level) row, not one per rep.
	require.Len(t, result.Overrides, 1)
	assert.Len(t, overrideRepo.rows, 1)
}

func TestSaveMilestoneAllocations_Idempotent(t *testing.T) {
	saleRepo, employeeRepo, userRepo, rateSvc := twoRepSale()
	allocRepo := newFakeAllocationRepo()
	overrideRepo := newFakeOverrideRepo()
	svc := newSaveTestService(saleRepo, allocRepo, overrideRepo, employeeRepo, userRepo, rateSvc)

	first, err := svc.SaveMilestoneAllocations(context.Background(), 100, 1, 1)
	require.NoError(t, err)
	second, err := svc.SaveMilestoneAllocations(context.Background(), 100, 1, 1)
	require.NoError(t, err)

	// Re-invocation converges on the same rows, no duplicates.
	assert.Len(t, allocRepo.rows, 2)
	assert.Len(t, overrideRepo.rows, 1)
	require.Len(t, second.Allocations, len(first.Allocations))
	for i := range first.Allocations {
		assert.Equal(t, first.Allocations[i].ID, second.Allocations[i].ID)
		assert.True(t, first.Allocations[i].AllocatedAmount.Equal(second.Allocations[i].AllocatedAmount))
	}
	require.Len(t, second.Overrides, 1)
	assert.Equal(t, first.Overrides[0].ID, second.Overrides[0].ID)
}

func TestSaveMilestoneAllocations_RateChangeUpdatesRow(t *testing.T) {
	saleRepo, employeeRepo, userRepo, rateSvc := twoRepSale()
	allocRepo := newFakeAllocationRepo()
	overrideRepo := newFakeOverrideRepo()
	svc := newSaveTestService(saleRepo, allocRepo, overrideRepo, employeeRepo, userRepo, rateSvc)

	_, err := svc.SaveMilestoneAllocations(context.Background(), 100, 1, 1)
	require.NoError(t, err)

	rateSvc.rates[10] = overrideRate("12")
	result, err := svc.SaveMilestoneAllocations(context.Background(), 100, 1, 1)
	require.NoError(t, err)

	assert.Len(t, allocRepo.rows, 2)
	updated, err := allocRepo.GetByKey(context.Background(), industry.Fiber, 100, 10, 1)
	require.NoError(t, err)
	assert.True(t, updated.AllocatedAmount.Equal(decimal.RequireFromString("300.00")), "got %s", updated.AllocatedAmount)
	require.Len(t, result.Allocations, 2)
}
