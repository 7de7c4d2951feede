package allocation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
)

// Allocation - one participant commission row, keyed by
// (sale, user, milestone) within its industry table. The Industry tag names
// the physical table the row lives in; callers never route on it themselves.
type Allocation struct {
	ID              int64
	Industry        industry.Industry
	SaleID          int64
	UserID          int64
	MilestoneNumber int
	AllocatedAmount decimal.Decimal
	IsApproved      bool
	ApprovedAt      *time.Time
	ApprovedBy      *int64
	IsPaid          bool
	PaidAt          *time.Time
	PayrollBatchID  *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OverrideAllocation - a manager commission row keyed by
// (sale, user, override level). Level 1 is the participant's direct manager.
type OverrideAllocation struct {
	ID              int64
	SaleID          int64
	UserID          int64
	SourceUserID    int64
	OverrideLevel   int
	MilestoneNumber int
	AllocatedAmount decimal.Decimal
	IsApproved      bool
	ApprovedAt      *time.Time
	ApprovedBy      *int64
	IsPaid          bool
	PaidAt          *time.Time
	PayrollBatchID  *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clawback - a recovery entry raised against a previously paid allocation,
// typically after a sale cancellation.
type Clawback struct {
	ID          int64
	Industry    industry.Industry
	SaleID      int64
	UserID      int64
	Amount      decimal.Decimal
	Reason      *string
	IsProcessed bool
	ProcessedAt *time.Time
	CreatedAt   time.Time
}
