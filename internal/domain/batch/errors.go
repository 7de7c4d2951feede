package batch

import (
	"errors"
	"fmt"
)

var (
	ErrBatchNotFound       = errors.New("payroll batch not found")
	ErrBatchNotDraft       = errors.New("payroll batch is not in draft")
	ErrConcurrencyConflict = errors.New("payroll batch was modified concurrently, retry")
	ErrInvalidStatus       = errors.New("invalid payroll batch status")
)

// InvalidTransitionError names the status the batch must be in for the
// attempted transition. The batch itself is left unchanged. A zero
// Expected means any non-terminal status would do, as with cancellation.
type InvalidTransitionError struct {
	BatchID  int64
	Expected BatchStatus
	Actual   BatchStatus
	Target   BatchStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("batch %d cannot move to %s: requires a non-terminal status, current status is %s",
			e.BatchID, e.Target, e.Actual)
	}
	return fmt.Sprintf("batch %d cannot move to %s: requires status %s, current status is %s",
		e.BatchID, e.Target, e.Expected, e.Actual)
}
