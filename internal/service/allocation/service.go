package allocation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
	"github.com/sparkhq/spark-backend-go/internal/pkg/database"
)

type AllocationServiceImpl struct {
	db           *database.DB
	allocRepo    allocation.AllocationRepository
	overrideRepo allocation.OverrideRepository
	clawbackRepo allocation.ClawbackRepository
}

func NewAllocationService(db *database.DB, allocRepo allocation.AllocationRepository, overrideRepo allocation.OverrideRepository, clawbackRepo allocation.ClawbackRepository) allocation.AllocationService {
	return &AllocationServiceImpl{
		db:           db,
		allocRepo:    allocRepo,
		overrideRepo: overrideRepo,
		clawbackRepo: clawbackRepo,
	}
}

// AllocationsForSale implements allocation.AllocationService.
func (s *AllocationServiceImpl) AllocationsForSale(ctx context.Context, saleID int64) ([]allocation.UnifiedAllocationResponse, []allocation.OverrideResponse, error) {
	allocations, err := s.allocRepo.ListForSale(ctx, saleID)
	if err != nil {
		return nil, nil, err
	}
	overrides, err := s.overrideRepo.ListForSale(ctx, saleID)
	if err != nil {
		return nil, nil, err
	}

	return MapToUnifiedResponses(allocations), MapToOverrideResponses(overrides), nil
}

// AllocationsForUser implements allocation.AllocationService.
func (s *AllocationServiceImpl) AllocationsForUser(ctx context.Context, userID int64, filter allocation.AllocationFilter) (allocation.ListAllocationResponse, error) {
	filter.UserID = &userID
	return s.AllAllocations(ctx, filter)
}

// AllAllocations implements allocation.AllocationService.
func (s *AllocationServiceImpl) AllAllocations(ctx context.Context, filter allocation.AllocationFilter) (allocation.ListAllocationResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	allocations, total, err := s.allocRepo.List(ctx, filter)
	if err != nil {
		return allocation.ListAllocationResponse{}, err
	}

	return allocation.ListAllocationResponse{
		Data:       MapToUnifiedResponses(allocations),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ApproveAllocation implements allocation.AllocationService.
func (s *AllocationServiceImpl) ApproveAllocation(ctx context.Context, ind industry.Industry, id int64, actorID int64) error {
	return s.allocRepo.Approve(ctx, ind, id, actorID)
}

// ApproveOverride implements allocation.AllocationService.
func (s *AllocationServiceImpl) ApproveOverride(ctx context.Context, id int64, actorID int64) error {
	return s.overrideRepo.Approve(ctx, id, actorID)
}

// BatchApprove implements allocation.AllocationService.
func (s *AllocationServiceImpl) BatchApprove(ctx context.Context, req allocation.BatchApproveRequest, actorID int64) (allocation.BatchApproveResult, error) {
	if err := req.Validate(); err != nil {
		return allocation.BatchApproveResult{}, err
	}

	result := allocation.BatchApproveResult{Total: len(req.Items)}
	for _, item := range req.Items {
		var err error
		if item.IsOverride {
			err = s.overrideRepo.Approve(ctx, item.AllocationID, actorID)
		} else {
			err = s.allocRepo.Approve(ctx, industry.Industry(item.Industry), item.AllocationID, actorID)
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("allocation %d: %v", item.AllocationID, err))
			continue
		}
		result.Approved++
	}

	return result, nil
}

// PendingApprovals implements allocation.AllocationService.
func (s *AllocationServiceImpl) PendingApprovals(ctx context.Context, userIDs []int64, filter allocation.AllocationFilter) (allocation.ListAllocationResponse, error) {
	approved := false
	filter.IsApproved = &approved
	filter.UserIDs = userIDs
	return s.AllAllocations(ctx, filter)
}

// Paystub implements allocation.AllocationService.
func (s *AllocationServiceImpl) Paystub(ctx context.Context, userID int64) (allocation.PaystubResponse, error) {
	paid := true
	allocations, _, err := s.allocRepo.List(ctx, allocation.AllocationFilter{
		UserID: &userID,
		IsPaid: &paid,
	})
	if err != nil {
		return allocation.PaystubResponse{}, err
	}

	overrides, err := s.overrideRepo.ListForUser(ctx, userID)
	if err != nil {
		return allocation.PaystubResponse{}, err
	}

	resp := allocation.PaystubResponse{
		UserID:      userID,
		TotalPaid:   decimal.Zero,
		Allocations: MapToUnifiedResponses(allocations),
	}
	for _, a := range allocations {
		resp.TotalPaid = resp.TotalPaid.Add(a.AllocatedAmount)
	}
	for _, o := range overrides {
		if !o.IsPaid {
			continue
		}
		resp.Overrides = append(resp.Overrides, mapToOverrideResponse(o))
		resp.TotalPaid = resp.TotalPaid.Add(o.AllocatedAmount)
	}

	return resp, nil
}

// ListClawbacks implements allocation.AllocationService.
func (s *AllocationServiceImpl) ListClawbacks(ctx context.Context, filter allocation.ClawbackFilter) ([]allocation.ClawbackResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	clawbacks, total, err := s.clawbackRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]allocation.ClawbackResponse, 0, len(clawbacks))
	for _, c := range clawbacks {
		resp := allocation.ClawbackResponse{
			ID:          c.ID,
			Industry:    string(c.Industry),
			SaleID:      c.SaleID,
			UserID:      c.UserID,
			Amount:      c.Amount,
			Reason:      c.Reason,
			IsProcessed: c.IsProcessed,
		}
		if c.ProcessedAt != nil {
			t := c.ProcessedAt.Format("2006-01-02T15:04:05Z07:00")
			resp.ProcessedAt = &t
		}
		responses = append(responses, resp)
	}

	return responses, total, nil
}

// MapToUnifiedResponses converts allocation rows to their wire shape.
func MapToUnifiedResponses(allocations []allocation.Allocation) []allocation.UnifiedAllocationResponse {
	responses := make([]allocation.UnifiedAllocationResponse, 0, len(allocations))
	for _, a := range allocations {
		resp := allocation.UnifiedAllocationResponse{
			ID:              a.ID,
			Industry:        string(a.Industry),
			SaleID:          a.SaleID,
			UserID:          a.UserID,
			MilestoneNumber: a.MilestoneNumber,
			AllocatedAmount: a.AllocatedAmount,
			IsApproved:      a.IsApproved,
			ApprovedBy:      a.ApprovedBy,
			IsPaid:          a.IsPaid,
			PayrollBatchID:  a.PayrollBatchID,
			CreatedAt:       a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt:       a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if a.ApprovedAt != nil {
			t := a.ApprovedAt.Format("2006-01-02T15:04:05Z07:00")
			resp.ApprovedAt = &t
		}
		if a.PaidAt != nil {
			t := a.PaidAt.Format("2006-01-02T15:04:05Z07:00")
			resp.PaidAt = &t
		}
		responses = append(responses, resp)
	}
	return responses
}

// MapToOverrideResponses converts override rows to their wire shape.
func MapToOverrideResponses(overrides []allocation.OverrideAllocation) []allocation.OverrideResponse {
	responses := make([]allocation.OverrideResponse, 0, len(overrides))
	for _, o := range overrides {
		responses = append(responses, mapToOverrideResponse(o))
	}
	return responses
}

func mapToOverrideResponse(o allocation.OverrideAllocation) allocation.OverrideResponse {
	return allocation.OverrideResponse{
		ID:              o.ID,
		SaleID:          o.SaleID,
		UserID:          o.UserID,
		SourceUserID:    o.SourceUserID,
		OverrideLevel:   o.OverrideLevel,
		MilestoneNumber: o.MilestoneNumber,
		AllocatedAmount: o.AllocatedAmount,
		IsApproved:      o.IsApproved,
		IsPaid:          o.IsPaid,
		PayrollBatchID:  o.PayrollBatchID,
	}
}
