package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/batch"
)

func TestBatchWorkbook(t *testing.T) {
	b := batch.PayrollBatch{
		ID:          1,
		Name:        "2026-02",
		Status:      batch.BatchStatusApproved,
		PeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.RequireFromString("650.50"),
		RecordCount: 2,
	}
	allocations := []allocation.UnifiedAllocationResponse{
		{
			ID:              10,
			Industry:        "solar",
			SaleID:          100,
			UserID:          5,
			MilestoneNumber: 1,
			AllocatedAmount: decimal.RequireFromString("500.50"),
		},
	}
	overrides := []allocation.OverrideResponse{
		{
			ID:              20,
			SaleID:          100,
			UserID:          6,
			SourceUserID:    5,
			OverrideLevel:   1,
			MilestoneNumber: 1,
			AllocatedAmount: decimal.RequireFromString("150.00"),
		},
	}

	buf, err := BatchWorkbook(b, allocations, overrides)
	require.NoError(t, err)
	require.NotNil(t, buf)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Payroll Batch"

	name, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2026-02", name)

	period, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01 - 2026-02-28", period)

	total, err := f.GetCellValue(sheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "650.50", total)

	header, err := f.GetCellValue(sheet, "A6")
	require.NoError(t, err)
	assert.Equal(t, "Type", header)

	kind, err := f.GetCellValue(sheet, "A7")
	require.NoError(t, err)
	assert.Equal(t, "commission", kind)

	amount, err := f.GetCellValue(sheet, "G7")
	require.NoError(t, err)
	assert.Equal(t, "500.50", amount)

	kind, err = f.GetCellValue(sheet, "A8")
	require.NoError(t, err)
	assert.Equal(t, "override", kind)

	level, err := f.GetCellValue(sheet, "F8")
	require.NoError(t, err)
	assert.Equal(t, "1", level)
}
