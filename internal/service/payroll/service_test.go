package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/batch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibleForBatch(t *testing.T) {
	batchID := int64(7)
	otherBatch := int64(9)

	assert.NoError(t, eligibleForBatch(true, false, nil, batchID))

	// Re-adding a row already tagged with the same batch is a no-op, not an
	// error.
	assert.NoError(t, eligibleForBatch(true, false, &batchID, batchID))

	assert.ErrorIs(t, eligibleForBatch(false, false, nil, batchID), allocation.ErrAllocationNotApproved)
	assert.ErrorIs(t, eligibleForBatch(true, true, nil, batchID), allocation.ErrAllocationAlreadyPaid)
	assert.ErrorIs(t, eligibleForBatch(true, false, &otherBatch, batchID), allocation.ErrAllocationInOtherBatch)
}

func TestMapToBatchResponse(t *testing.T) {
	submitted := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	notes := "March run"
	b := batch.PayrollBatch{
		ID:          3,
		Name:        "2026-03",
		Status:      batch.BatchStatusSubmitted,
		PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.RequireFromString("1234.56"),
		RecordCount: 4,
		Notes:       &notes,
		SubmittedAt: &submitted,
	}

	resp := mapToBatchResponse(b)

	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, "2026-03", resp.Name)
	assert.Equal(t, "SUBMITTED", resp.Status)
	assert.Equal(t, "2026-03-01", resp.PeriodStart)
	assert.Equal(t, "2026-03-31", resp.PeriodEnd)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, 4, resp.RecordCount)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "March run", *resp.Notes)
	require.NotNil(t, resp.SubmittedAt)
	assert.Equal(t, "2026-03-02T09:30:00Z", *resp.SubmittedAt)
	assert.Nil(t, resp.ApprovedAt)
	assert.Nil(t, resp.PaidAt)
}
