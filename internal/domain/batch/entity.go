package batch

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus enum
type BatchStatus string

const (
	BatchStatusDraft     BatchStatus = "DRAFT"
	BatchStatusSubmitted BatchStatus = "SUBMITTED"
	BatchStatusApproved  BatchStatus = "APPROVED"
	BatchStatusExported  BatchStatus = "EXPORTED"
	BatchStatusPaid      BatchStatus = "PAID"
	BatchStatusCancelled BatchStatus = "CANCELLED"
)

// validTransitions maps each status to the statuses reachable from it.
// PAID and CANCELLED are terminal.
var validTransitions = map[BatchStatus][]BatchStatus{
	BatchStatusDraft:     {BatchStatusSubmitted, BatchStatusCancelled},
	BatchStatusSubmitted: {BatchStatusApproved, BatchStatusCancelled},
	BatchStatusApproved:  {BatchStatusExported, BatchStatusCancelled},
	BatchStatusExported:  {BatchStatusPaid, BatchStatusCancelled},
	BatchStatusPaid:      {},
	BatchStatusCancelled: {},
}

func (s BatchStatus) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s BatchStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s BatchStatus) CanTransitionTo(next BatchStatus) bool {
	for _, t := range validTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// RequiredSource returns the single status a transition to next must start
// from. Cancellation is reachable from every non-terminal status.
func RequiredSource(next BatchStatus) (BatchStatus, bool) {
	switch next {
	case BatchStatusSubmitted:
		return BatchStatusDraft, true
	case BatchStatusApproved:
		return BatchStatusSubmitted, true
	case BatchStatusExported:
		return BatchStatusApproved, true
	case BatchStatusPaid:
		return BatchStatusExported, true
	}
	return "", false
}

// PayrollBatch groups approved, unpaid allocations for payment. TotalAmount
// and RecordCount always equal the full re-aggregation over tagged rows.
type PayrollBatch struct {
	ID          int64
	Name        string
	Status      BatchStatus
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalAmount decimal.Decimal
	RecordCount int
	Notes       *string
	CreatedAt   time.Time
	CreatedBy   int64
	UpdatedAt   time.Time
	SubmittedAt *time.Time
	SubmittedBy *int64
	ApprovedAt  *time.Time
	ApprovedBy  *int64
	ExportedAt  *time.Time
	ExportedBy  *int64
	PaidAt      *time.Time
	PaidBy      *int64
	CancelledAt *time.Time
	CancelledBy *int64
	ExportPath  *string
}
