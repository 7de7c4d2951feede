package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sparkhq/spark-backend-go/internal/domain/allocation"
	"github.com/sparkhq/spark-backend-go/internal/domain/batch"
)

// BatchWorkbook renders a payroll batch and its rows as an xlsx workbook.
// One row per allocation, direct commissions first, overrides after.
func BatchWorkbook(b batch.PayrollBatch, allocations []allocation.UnifiedAllocationResponse, overrides []allocation.OverrideResponse) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Payroll Batch"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheetName, "A1", "Batch")
	f.SetCellValue(sheetName, "B1", b.Name)
	f.SetCellValue(sheetName, "A2", "Period")
	f.SetCellValue(sheetName, "B2", fmt.Sprintf("%s - %s", b.PeriodStart.Format("2006-01-02"), b.PeriodEnd.Format("2006-01-02")))
	f.SetCellValue(sheetName, "A3", "Total")
	f.SetCellValue(sheetName, "B3", b.TotalAmount.StringFixed(2))
	f.SetCellValue(sheetName, "A4", "Records")
	f.SetCellValue(sheetName, "B4", b.RecordCount)

	headers := []string{"Type", "Industry", "Sale ID", "User ID", "Milestone", "Level", "Amount"}
	headerRow := 6
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheetName, cell, header)
	}

	row := headerRow + 1
	for _, a := range allocations {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "commission")
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), a.Industry)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), a.SaleID)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), a.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), a.MilestoneNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), a.AllocatedAmount.StringFixed(2))
		row++
	}
	for _, o := range overrides {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "override")
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), o.SaleID)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), o.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), o.MilestoneNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), o.OverrideLevel)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), o.AllocatedAmount.StringFixed(2))
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
