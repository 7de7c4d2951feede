package allocation

import "errors"

var (
	ErrAllocationNotFound     = errors.New("allocation not found")
	ErrOverrideNotFound       = errors.New("override allocation not found")
	ErrAllocationAlreadyPaid  = errors.New("allocation already paid, cannot modify")
	ErrAllocationNotApproved  = errors.New("allocation is not approved")
	ErrAllocationInOtherBatch = errors.New("allocation already attached to another batch")
	ErrClawbackNotFound       = errors.New("clawback not found")
)
