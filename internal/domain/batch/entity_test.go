package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    BatchStatus
		to      BatchStatus
		allowed bool
	}{
		{BatchStatusDraft, BatchStatusSubmitted, true},
		{BatchStatusDraft, BatchStatusCancelled, true},
		{BatchStatusDraft, BatchStatusApproved, false},
		{BatchStatusDraft, BatchStatusPaid, false},
		{BatchStatusSubmitted, BatchStatusApproved, true},
		{BatchStatusSubmitted, BatchStatusCancelled, true},
		{BatchStatusSubmitted, BatchStatusDraft, false},
		{BatchStatusApproved, BatchStatusExported, true},
		{BatchStatusApproved, BatchStatusCancelled, true},
		{BatchStatusApproved, BatchStatusPaid, false},
		{BatchStatusExported, BatchStatusPaid, true},
		{BatchStatusExported, BatchStatusCancelled, true},
		{BatchStatusPaid, BatchStatusCancelled, false},
		{BatchStatusCancelled, BatchStatusDraft, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestBatchStatus_Terminal(t *testing.T) {
	assert.True(t, BatchStatusPaid.Terminal())
	assert.True(t, BatchStatusCancelled.Terminal())
	assert.False(t, BatchStatusDraft.Terminal())
	assert.False(t, BatchStatusSubmitted.Terminal())
	assert.False(t, BatchStatusApproved.Terminal())
	assert.False(t, BatchStatusExported.Terminal())
}

func TestBatchStatus_Valid(t *testing.T) {
	assert.True(t, BatchStatusDraft.Valid())
	assert.True(t, BatchStatusPaid.Valid())
	assert.False(t, BatchStatus("SHIPPED").Valid())
	assert.False(t, BatchStatus("").Valid())
}

func TestRequiredSource(t *testing.T) {
	src, ok := RequiredSource(BatchStatusSubmitted)
	require.True(t, ok)
	assert.Equal(t, BatchStatusDraft, src)

	src, ok = RequiredSource(BatchStatusApproved)
	require.True(t, ok)
	assert.Equal(t, BatchStatusSubmitted, src)

	src, ok = RequiredSource(BatchStatusExported)
	require.True(t, ok)
	assert.Equal(t, BatchStatusApproved, src)

	src, ok = RequiredSource(BatchStatusPaid)
	require.True(t, ok)
	assert.Equal(t, BatchStatusExported, src)

	// Cancellation has no single required source.
	_, ok = RequiredSource(BatchStatusCancelled)
	assert.False(t, ok)

	_, ok = RequiredSource(BatchStatusDraft)
	assert.False(t, ok)
}

func TestInvalidTransitionError_Message(t *testing.T) {
	err := &InvalidTransitionError{
		BatchID:  42,
		Expected: BatchStatusDraft,
		Actual:   BatchStatusSubmitted,
		Target:   BatchStatusSubmitted,
	}

	assert.Equal(t, "batch 42 cannot move to SUBMITTED: requires status DRAFT, current status is SUBMITTED", err.Error())
}

func TestInvalidTransitionError_CancelMessage(t *testing.T) {
	// Cancellation has four legal sources, so a rejected cancel names the
	// non-terminal requirement rather than any single status.
	err := &InvalidTransitionError{
		BatchID: 7,
		Actual:  BatchStatusPaid,
		Target:  BatchStatusCancelled,
	}

	assert.Equal(t, "batch 7 cannot move to CANCELLED: requires a non-terminal status, current status is PAID", err.Error())
}
