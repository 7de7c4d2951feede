package allocation

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/industry"
)

// AllocationRepository is one repository over the four industry allocation
// tables, routed by the industry tag. Read methods return the unified stream.
type AllocationRepository interface {
	GetByID(ctx context.Context, ind industry.Industry, id int64) (Allocation, error)
	GetByKey(ctx context.Context, ind industry.Industry, saleID, userID int64, milestone int) (Allocation, error)
	Insert(ctx context.Context, a Allocation) (Allocation, error)
	UpdateAmount(ctx context.Context, ind industry.Industry, id int64, amount decimal.Decimal) error
	DeleteByKey(ctx context.Context, ind industry.Industry, saleID, userID int64, milestone int) error
	Approve(ctx context.Context, ind industry.Industry, id int64, actorID int64) error

	ListForSale(ctx context.Context, saleID int64) ([]Allocation, error)
	List(ctx context.Context, filter AllocationFilter) ([]Allocation, int64, error)
	ListForBatch(ctx context.Context, batchID int64) ([]Allocation, error)

	// SetBatch tags or clears (nil) the batch reference on an allocation.
	SetBatch(ctx context.Context, ind industry.Industry, id int64, batchID *int64) error

	// MarkPaidForBatch stamps isPaid/paidAt on every allocation in the
	// industry table tagged with the batch. Returns rows affected.
	MarkPaidForBatch(ctx context.Context, ind industry.Industry, batchID int64) (int64, error)
}

type OverrideRepository interface {
	GetByID(ctx context.Context, id int64) (OverrideAllocation, error)
	GetByKey(ctx context.Context, saleID, userID int64, level int) (OverrideAllocation, error)
	Insert(ctx context.Context, o OverrideAllocation) (OverrideAllocation, error)
	UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error
	DeleteByKey(ctx context.Context, saleID, userID int64, level int) error
	Approve(ctx context.Context, id int64, actorID int64) error

	ListForSale(ctx context.Context, saleID int64) ([]OverrideAllocation, error)
	ListForUser(ctx context.Context, userID int64) ([]OverrideAllocation, error)
	ListForBatch(ctx context.Context, batchID int64) ([]OverrideAllocation, error)

	SetBatch(ctx context.Context, id int64, batchID *int64) error
	MarkPaidForBatch(ctx context.Context, batchID int64) (int64, error)
}

type ClawbackRepository interface {
	List(ctx context.Context, filter ClawbackFilter) ([]Clawback, int64, error)
}
