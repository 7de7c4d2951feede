package commission

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/employee"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/domain/rate"
	"github.com/sparkhq/spark-backend-go/internal/domain/sale"
	"github.com/sparkhq/spark-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	managers  map[int64]employee.Employee
	employees map[int64]employee.Employee
}

func (f *fakeEmployeeRepo) GetByUserID(ctx context.Context, userID int64) (employee.Employee, error) {
	e, ok := f.employees[userID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) ManagerOf(ctx context.Context, userID int64) (employee.Employee, error) {
	m, ok := f.managers[userID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return m, nil
}

func (f *fakeEmployeeRepo) DirectReports(ctx context.Context, managerUserID int64) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) SubordinateUserIDs(ctx context.Context, managerUserID int64) ([]int64, error) {
	return []int64{managerUserID}, nil
}

type fakeUserRepo struct {
	users map[int64]user.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

type fakeRateService struct {
	rates map[int64]rate.CommissionRate
}

func (f *fakeRateService) CreateRate(ctx context.Context, req rate.CreateRateRequest, actorID int64) (rate.RateResponse, error) {
	return rate.RateResponse{}, nil
}

func (f *fakeRateService) GetRate(ctx context.Context, ind industry.Industry, id int64) (rate.RateResponse, error) {
	return rate.RateResponse{}, nil
}

func (f *fakeRateService) ListRates(ctx context.Context, ind industry.Industry, filter rate.RateFilter) (rate.ListRateResponse, error) {
	return rate.ListRateResponse{}, nil
}

func (f *fakeRateService) UpdateRate(ctx context.Context, req rate.UpdateRateRequest, actorID int64) (rate.RateResponse, error) {
	return rate.RateResponse{}, nil
}

func (f *fakeRateService) DeactivateRate(ctx context.Context, ind industry.Industry, id int64, actorID int64) error {
	return nil
}

func (f *fakeRateService) Resolve(ctx context.Context, ind industry.Industry, userID int64, q rate.Query) (rate.CommissionRate, bool, error) {
	r, ok := f.rates[userID]
	return r, ok, nil
}

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func newTestService(employeeRepo *fakeEmployeeRepo, userRepo *fakeUserRepo, rateSvc *fakeRateService) *CommissionServiceImpl {
	return &CommissionServiceImpl{
		rateSvc:      rateSvc,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
	}
}

func TestAllocationAmount(t *testing.T) {
	got := allocationAmount(decimal.NewFromInt(100), decimal.NewFromInt(10), decimal.NewFromInt(5))
	assert.True(t, got.Equal(decimal.RequireFromString("15.00")), "got %s", got)

	// 5000 at 8 percent.
	got = allocationAmount(decimal.NewFromInt(5000), decimal.NewFromInt(8), decimal.Zero)
	assert.True(t, got.Equal(decimal.RequireFromString("400.00")), "got %s", got)

	// Rounds half up to cents.
	got = allocationAmount(decimal.RequireFromString("100.05"), decimal.NewFromInt(5), decimal.Zero)
	assert.True(t, got.Equal(decimal.RequireFromString("5.00")), "got %s", got)

	got = allocationAmount(decimal.RequireFromString("100.50"), decimal.NewFromInt(5), decimal.Zero)
	assert.True(t, got.Equal(decimal.RequireFromString("5.03")), "got %s", got)
}

func TestCommissionableAmount_InvalidMilestone(t *testing.T) {
	svc := newTestService(&fakeEmployeeRepo{}, &fakeUserRepo{}, &fakeRateService{})

	_, err := svc.CommissionableAmount(sale.Sale{Industry: industry.Solar}, 0)
	assert.ErrorIs(t, err, rate.ErrInvalidMilestone)

	_, err = svc.CommissionableAmount(sale.Sale{Industry: industry.Solar}, 3)
	assert.ErrorIs(t, err, rate.ErrInvalidMilestone)
}

func TestCommissionableAmount_Solar(t *testing.T) {
	svc := newTestService(&fakeEmployeeRepo{}, &fakeUserRepo{}, &fakeRateService{})

	withDetail := sale.Sale{
		Industry:       industry.Solar,
		ContractAmount: decimal.NewFromInt(40000),
		Solar:          &sale.SolarDetail{SystemSoldValue: decPtr("38000")},
	}
	got, err := svc.CommissionableAmount(withDetail, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(38000)))

	// Missing detail value falls back to half the contract amount.
	noDetail := sale.Sale{
		Industry:       industry.Solar,
		ContractAmount: decimal.NewFromInt(40000),
	}
	got, err = svc.CommissionableAmount(noDetail, 2)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(20000)))
}

func TestCommissionableAmount_Pest(t *testing.T) {
	svc := newTestService(&fakeEmployeeRepo{}, &fakeUserRepo{}, &fakeRateService{})

	s := sale.Sale{
		Industry:       industry.Pest,
		ContractAmount: decimal.NewFromInt(2400),
		Pest: &sale.PestDetail{
			InitialServicePrice: decPtr("150"),
			ContractTotalValue:  decPtr("2400"),
		},
	}

	got, err := svc.CommissionableAmount(s, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(150)))

	got, err = svc.CommissionableAmount(s, 2)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(2400)))
}

func TestCommissionableAmount_Roofing(t *testing.T) {
	svc := newTestService(&fakeEmployeeRepo{}, &fakeUserRepo{}, &fakeRateService{})

	s := sale.Sale{
		Industry:       industry.Roofing,
		ContractAmount: decimal.NewFromInt(10000),
		Roofing: &sale.RoofingDetail{
			FrontendReceivedAmount: decPtr("5000"),
		},
	}

	got, err := svc.CommissionableAmount(s, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(5000)))

	// Backend amount not yet received, milestone 2 falls back to half.
	got, err = svc.CommissionableAmount(s, 2)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(5000)))
}

func TestCommissionableAmount_Fiber(t *testing.T) {
	svc := newTestService(&fakeEmployeeRepo{}, &fakeUserRepo{}, &fakeRateService{})

	s := sale.Sale{
		Industry:       industry.Fiber,
		ContractAmount: decimal.NewFromInt(1800),
	}

	got, err := svc.CommissionableAmount(s, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1800)))
}

func TestCommissionableAmount_UnknownIndustry(t *testing.T) {
	svc := newTestService(&fakeEmployeeRepo{}, &fakeUserRepo{}, &fakeRateService{})

	_, err := svc.CommissionableAmount(sale.Sale{Industry: industry.Industry("timeshare")}, 1)
	assert.ErrorIs(t, err, industry.ErrUnknownIndustry)
}

func activeChain(length int) (*fakeEmployeeRepo, *fakeUserRepo) {
	employeeRepo := &fakeEmployeeRepo{managers: map[int64]employee.Employee{}, employees: map[int64]employee.Employee{}}
	userRepo := &fakeUserRepo{users: map[int64]user.User{}}

	// User 1 reports to 2, 2 to 3, and so on up the chain.
	for i := int64(1); i <= int64(length); i++ {
		employeeRepo.employees[i] = employee.Employee{UserID: i, IsActive: true}
		userRepo.users[i] = user.User{ID: i, IsActive: true}
		if i < int64(length) {
			employeeRepo.managers[i] = employee.Employee{UserID: i + 1, IsActive: true}
		}
	}
	return employeeRepo, userRepo
}

func overrideRate(percent string) rate.CommissionRate {
	return rate.CommissionRate{
		IsActive:       true,
		EffectiveStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PercentMp1:     decPtr(percent),
		PercentMp2:     decPtr(percent),
	}
}

func TestWalkOverrides_CapsAtFiveLevels(t *testing.T) {
	employeeRepo, userRepo := activeChain(11)
	rateSvc := &fakeRateService{rates: map[int64]rate.CommissionRate{}}
	for i := int64(2); i <= 11; i++ {
		rateSvc.rates[i] = overrideRate("1")
	}
	svc := newTestService(employeeRepo, userRepo, rateSvc)

	results, err := svc.WalkOverrides(context.Background(), industry.Solar, 1, decimal.NewFromInt(10000), 1, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, r := range results {
		assert.Equal(t, i+1, r.Level)
		assert.Equal(t, int64(i+2), r.ManagerUserID)
		assert.True(t, r.Amount.Equal(decimal.RequireFromString("100.00")), "level %d got %s", r.Level, r.Amount)
	}
}

func TestWalkOverrides_CycleStopsWalk(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{
		managers: map[int64]employee.Employee{
			1: {UserID: 2, IsActive: true},
			2: {UserID: 1, IsActive: true},
		},
		employees: map[int64]employee.Employee{},
	}
	userRepo := &fakeUserRepo{users: map[int64]user.User{
		1: {ID: 1, IsActive: true},
		2: {ID: 2, IsActive: true},
	}}
	rateSvc := &fakeRateService{rates: map[int64]rate.CommissionRate{
		1: overrideRate("2"),
		2: overrideRate("2"),
	}}
	svc := newTestService(employeeRepo, userRepo, rateSvc)

	results, err := svc.WalkOverrides(context.Background(), industry.Pest, 1, decimal.NewFromInt(1000), 1, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(2), results[0].ManagerUserID)
}

func TestWalkOverrides_InactiveManagerStopsWalk(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{
		managers: map[int64]employee.Employee{
			1: {UserID: 2, IsActive: true},
			2: {UserID: 3, IsActive: true},
		},
		employees: map[int64]employee.Employee{},
	}
	userRepo := &fakeUserRepo{users: map[int64]user.User{
		2: {ID: 2, IsActive: false},
		3: {ID: 3, IsActive: true},
	}}
	rateSvc := &fakeRateService{rates: map[int64]rate.CommissionRate{
		2: overrideRate("3"),
		3: overrideRate("3"),
	}}
	svc := newTestService(employeeRepo, userRepo, rateSvc)

	results, err := svc.WalkOverrides(context.Background(), industry.Roofing, 1, decimal.NewFromInt(1000), 1, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestWalkOverrides_FiltersZeroAmounts(t *testing.T) {
	employeeRepo, userRepo := activeChain(3)
	// Manager 2 has no rate, manager 3 does.
	rateSvc := &fakeRateService{rates: map[int64]rate.CommissionRate{
		3: overrideRate("1.5"),
	}}
	svc := newTestService(employeeRepo, userRepo, rateSvc)

	results, err := svc.WalkOverrides(context.Background(), industry.Fiber, 1, decimal.NewFromInt(2000), 2, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(3), results[0].ManagerUserID)
	assert.Equal(t, 2, results[0].Level)
	assert.True(t, results[0].Amount.Equal(decimal.RequireFromString("30.00")))
}

func TestWalkChain_EmitsZeroAmountLevels(t *testing.T) {
	employeeRepo, userRepo := activeChain(3)
	rateSvc := &fakeRateService{rates: map[int64]rate.CommissionRate{
		3: overrideRate("1.5"),
	}}
	svc := newTestService(employeeRepo, userRepo, rateSvc)

	steps, err := svc.walkChain(context.Background(), industry.Fiber, 1, decimal.NewFromInt(2000), 2, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.True(t, steps[0].Amount.IsZero())
	assert.False(t, steps[1].Amount.IsZero())
}
