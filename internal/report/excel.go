package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/fkhayef/reimburse/internal/expense"
)

const sheetName = "Expenses"

var excelHeader = []any{
	"Expense ID",
	"Employee",
	"Category",
	"Amount Requested",
	"Amount Paid",
	"Status",
	"Created By",
	"Created At",
}

// renderExcel writes one row per expense. Amounts are numeric cells.
func renderExcel(expenses []*expense.Expense) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &excelHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "H1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, e := range expenses {
		createdBy := ""
		if e.CreatedBy != nil {
			createdBy = e.CreatedBy.Username
		}
		row := []any{
			e.ID,
			e.EmployeeName,
			e.CategoryName,
			e.AmountRequested.Float64(),
			e.AmountPaid.Float64(),
			string(e.Status),
			createdBy,
			e.CreatedAt.UTC().Format(expense.DateLayout),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write expense %d: %w", e.ID, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "H", 18); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
