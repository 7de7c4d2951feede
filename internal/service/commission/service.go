package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/commission"
	"github.com/sparkhq/spark-backend-go/internal/domain/employee"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/domain/rate"
	"github.com/sparkhq/spark-backend-go/internal/domain/sale"
	"github.com/sparkhq/spark-backend-go/internal/domain/user"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
	"github.com/sparkhq/spark-backend-go/internal/repository/postgresql"
)

// maxOverrideLevels caps the upward walk through the reporting chain.
const maxOverrideLevels = 5

var oneHundred = decimal.NewFromInt(100)

type CommissionServiceImpl struct {
	db           database.TxBeginner
	saleRepo     sale.SaleRepository
	rateSvc      rate.RateService
	allocRepo    allocation.AllocationRepository
	overrideRepo allocation.OverrideRepository
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
}

func NewCommissionService(
	db *database.DB,
	saleRepo sale.SaleRepository,
	rateSvc rate.RateService,
	allocRepo allocation.AllocationRepository,
	overrideRepo allocation.OverrideRepository,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
) commission.CommissionService {
	return &CommissionServiceImpl{
		db:           db,
		saleRepo:     saleRepo,
		rateSvc:      rateSvc,
		allocRepo:    allocRepo,
		overrideRepo: overrideRepo,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
	}
}

// CommissionableAmount implements commission.CommissionService.
//
// Each industry derives the milestone base from its detail record; any
// missing detail value falls back to half the contract amount.
func (s *CommissionServiceImpl) CommissionableAmount(sl sale.Sale, milestone int) (decimal.Decimal, error) {
	if milestone != 1 && milestone != 2 {
		return decimal.Zero, rate.ErrInvalidMilestone
	}

	half := sl.ContractAmount.Div(decimal.NewFromInt(2))

	switch sl.Industry {
	case industry.Solar:
		if sl.Solar != nil && sl.Solar.SystemSoldValue != nil {
			return *sl.Solar.SystemSoldValue, nil
		}
	case industry.Pest:
		if sl.Pest != nil {
			if milestone == 1 && sl.Pest.InitialServicePrice != nil {
				return *sl.Pest.InitialServicePrice, nil
			}
			if milestone == 2 && sl.Pest.ContractTotalValue != nil {
				return *sl.Pest.ContractTotalValue, nil
			}
		}
	case industry.Roofing:
		if sl.Roofing != nil {
			if milestone == 1 && sl.Roofing.FrontendReceivedAmount != nil {
				return *sl.Roofing.FrontendReceivedAmount, nil
			}
			if milestone == 2 && sl.Roofing.BackendReceivedAmount != nil {
				return *sl.Roofing.BackendReceivedAmount, nil
			}
		}
	case industry.Fiber:
		return sl.ContractAmount, nil
	default:
		return decimal.Zero, industry.ErrUnknownIndustry
	}

	return half, nil
}

// allocationAmount applies a resolved rate pair to a base amount, rounded to
// cents, half up.
func allocationAmount(base, percent, flat decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(oneHundred).Add(flat).Round(2)
}

// WalkOverrides implements commission.CommissionService.
func (s *CommissionServiceImpl) WalkOverrides(ctx context.Context, ind industry.Industry, salesRepUserID int64, base decimal.Decimal, milestone int, onDate time.Time) ([]commission.OverrideResult, error) {
	steps, err := s.walkChain(ctx, ind, salesRepUserID, base, milestone, onDate)
	if err != nil {
		return nil, err
	}

	var results []commission.OverrideResult
	for _, step := range steps {
		if step.Amount.IsPositive() {
			results = append(results, step)
		}
	}
	return results, nil
}

// walkChain climbs the reporting chain one manager per level and computes the
// override amount at each stop, zero amounts included so the upsert can
// converge stale rows.
func (s *CommissionServiceImpl) walkChain(ctx context.Context, ind industry.Industry, salesRepUserID int64, base decimal.Decimal, milestone int, onDate time.Time) ([]commission.OverrideResult, error) {
	var steps []commission.OverrideResult

	visited := map[int64]bool{salesRepUserID: true}
	currentUserID := salesRepUserID

	for level := 1; level <= maxOverrideLevels; level++ {
		manager, err := s.employeeRepo.ManagerOf(ctx, currentUserID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				break
			}
			return nil, err
		}
		if visited[manager.UserID] {
			break
		}
		visited[manager.UserID] = true

		managerUser, err := s.userRepo.GetByID(ctx, manager.UserID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				break
			}
			return nil, err
		}
		if !managerUser.IsActive || !manager.IsActive {
			break
		}

		// Override rates resolve without sale scoping, so a manager's
		// wildcard rate applies across every deal in the chain.
		amount := decimal.Zero
		managerRate, found, err := s.rateSvc.Resolve(ctx, ind, manager.UserID, rate.Query{OnDate: onDate})
		if err != nil {
			return nil, err
		}
		if found {
			percent, flat := managerRate.MilestonePair(milestone)
			amount = allocationAmount(base, percent, flat)
		}

		steps = append(steps, commission.OverrideResult{
			ManagerUserID: manager.UserID,
			Level:         level,
			Amount:        amount,
		})

		currentUserID = manager.UserID
	}

	return steps, nil
}

// SaveMilestoneAllocations implements commission.CommissionService.
func (s *CommissionServiceImpl) SaveMilestoneAllocations(ctx context.Context, saleID int64, milestone int, actorID int64) (commission.SaveResult, error) {
	if milestone != 1 && milestone != 2 {
		return commission.SaveResult{}, rate.ErrInvalidMilestone
	}

	result := commission.SaveResult{
		SaleID:    saleID,
		Milestone: milestone,
	}

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := database.WithTx(ctx, tx)

		if err := postgresql.AcquireSaleLock(txCtx, tx, saleID); err != nil {
			return err
		}

		sl, err := s.saleRepo.GetByID(txCtx, saleID)
		if err != nil {
			return err
		}
		if !sl.IsActive || sl.Status == sale.SaleStatusCancelled {
			return sale.ErrSaleAlreadyCancelled
		}

		base, err := s.CommissionableAmount(sl, milestone)
		if err != nil {
			return err
		}

		type overrideKey struct {
			managerUserID int64
			level         int
		}
		walked := map[overrideKey]bool{}

		for _, p := range sl.Participants {
			q := rate.Query{
				RoleID:      p.RoleID,
				InstallerID: sl.InstallerID(),
				StateCode:   sl.StateCode(),
				OnDate:      sl.SaleDate,
			}
			participantRate, found, err := s.rateSvc.Resolve(txCtx, sl.Industry, p.UserID, q)
			if err != nil {
				return err
			}
			if found {
				share := base.Mul(p.SplitPercent).Div(oneHundred)
				percent, flat := participantRate.MilestonePair(milestone)
				amount := allocationAmount(share, percent, flat)

				saved, err := s.upsertAllocation(txCtx, sl.Industry, saleID, p.UserID, milestone, amount)
				if err != nil {
					return err
				}
				if saved != nil {
					result.Allocations = append(result.Allocations, *saved)
				}
			} else {
				result.Warnings = append(result.Warnings, commission.ParticipantWarning{
					UserID: p.UserID,
					Reason: "no active commission rate matches",
				})
			}

			// Every participant's chain is walked, rate or no rate.
			// Chains that meet at a shared manager converge on the same
			// (sale, manager, level) row, so repeat stops are skipped.
			steps, err := s.walkChain(txCtx, sl.Industry, p.UserID, base, milestone, sl.SaleDate)
			if err != nil {
				return err
			}
			for _, o := range steps {
				key := overrideKey{managerUserID: o.ManagerUserID, level: o.Level}
				if walked[key] {
					continue
				}
				walked[key] = true

				saved, err := s.upsertOverride(txCtx, saleID, p.UserID, milestone, o)
				if err != nil {
					return err
				}
				if saved != nil {
					result.Overrides = append(result.Overrides, *saved)
				}
			}
		}

		return nil
	})
	if err != nil {
		return commission.SaveResult{}, err
	}

	return result, nil
}

// upsertAllocation converges the (sale, user, milestone) row to the computed
// amount. Zero amounts delete the row when present and are otherwise skipped.
func (s *CommissionServiceImpl) upsertAllocation(ctx context.Context, ind industry.Industry, saleID, userID int64, milestone int, amount decimal.Decimal) (*allocation.Allocation, error) {
	existing, err := s.allocRepo.GetByKey(ctx, ind, saleID, userID, milestone)
	if err != nil && !errors.Is(err, allocation.ErrAllocationNotFound) {
		return nil, err
	}
	exists := err == nil

	if !amount.IsPositive() {
		if exists {
			if existing.IsPaid {
				return nil, allocation.ErrAllocationAlreadyPaid
			}
			if err := s.allocRepo.DeleteByKey(ctx, ind, saleID, userID, milestone); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	if exists {
		if existing.IsPaid {
			return nil, allocation.ErrAllocationAlreadyPaid
		}
		if !existing.AllocatedAmount.Equal(amount) {
			if err := s.allocRepo.UpdateAmount(ctx, ind, existing.ID, amount); err != nil {
				return nil, err
			}
			existing.AllocatedAmount = amount
		}
		return &existing, nil
	}

	created, err := s.allocRepo.Insert(ctx, allocation.Allocation{
		Industry:        ind,
		SaleID:          saleID,
		UserID:          userID,
		MilestoneNumber: milestone,
		AllocatedAmount: amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create allocation: %w", err)
	}
	return &created, nil
}

// upsertOverride converges the (sale, user, level) row to the computed
// amount, with the same zero-delete rule as direct allocations.
func (s *CommissionServiceImpl) upsertOverride(ctx context.Context, saleID, sourceUserID int64, milestone int, o commission.OverrideResult) (*allocation.OverrideAllocation, error) {
	existing, err := s.overrideRepo.GetByKey(ctx, saleID, o.ManagerUserID, o.Level)
	if err != nil && !errors.Is(err, allocation.ErrOverrideNotFound) {
		return nil, err
	}
	exists := err == nil

	if !o.Amount.IsPositive() {
		if exists {
			if existing.IsPaid {
				return nil, allocation.ErrAllocationAlreadyPaid
			}
			if err := s.overrideRepo.DeleteByKey(ctx, saleID, o.ManagerUserID, o.Level); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	if exists {
		if existing.IsPaid {
			return nil, allocation.ErrAllocationAlreadyPaid
		}
		if !existing.AllocatedAmount.Equal(o.Amount) {
			if err := s.overrideRepo.UpdateAmount(ctx, existing.ID, o.Amount); err != nil {
				return nil, err
			}
			existing.AllocatedAmount = o.Amount
		}
		return &existing, nil
	}

	created, err := s.overrideRepo.Insert(ctx, allocation.OverrideAllocation{
		SaleID:          saleID,
		UserID:          o.ManagerUserID,
		SourceUserID:    sourceUserID,
		OverrideLevel:   o.Level,
		MilestoneNumber: milestone,
		AllocatedAmount: o.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create override allocation: %w", err)
	}
	return &created, nil
}
