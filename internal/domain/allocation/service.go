package allocation

import (
	"context"

	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
)

// AllocationService exposes the unified allocation stream plus approval
// operations.
type AllocationService interface {
	AllocationsForSale(ctx context.Context, saleID int64) ([]UnifiedAllocationResponse, []OverrideResponse, error)
	AllocationsForUser(ctx context.Context, userID int64, filter AllocationFilter) (ListAllocationResponse, error)
	AllAllocations(ctx context.Context, filter AllocationFilter) (ListAllocationResponse, error)

	ApproveAllocation(ctx context.Context, ind industry.Industry, id int64, actorID int64) error
	ApproveOverride(ctx context.Context, id int64, actorID int64) error

	// BatchApprove applies approval per item and reports per-item errors.
	BatchApprove(ctx context.Context, req BatchApproveRequest, actorID int64) (BatchApproveResult, error)

	// PendingApprovals lists unapproved allocations for the given users.
	PendingApprovals(ctx context.Context, userIDs []int64, filter AllocationFilter) (ListAllocationResponse, error)

	// Paystub returns the user's paid-commission history across
	// industries, overrides included.
	Paystub(ctx context.Context, userID int64) (PaystubResponse, error)

	ListClawbacks(ctx context.Context, filter ClawbackFilter) ([]ClawbackResponse, int64, error)
}
