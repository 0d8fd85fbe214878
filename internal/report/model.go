package report

import "github.com/fkhayef/reimburse/internal/expense"

// Content types of the rendered reports
const (
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF   = "application/pdf"
)

// File is a rendered report ready to be sent as an attachment
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// RangeRequest selects the expenses of a report by creation date. Both bounds or neither.
type RangeRequest struct {
	StartDate string `json:"start_date" example:"2026-03-01"`
	EndDate   string `json:"end_date" example:"2026-03-31"`
}

// filename names the attachment after the range it covers
func filename(rng expense.DateRange, ext string) string {
	if rng.IsZero() {
		return "expense_report_all." + ext
	}
	return "expense_report_" + rng.From.Format(expense.DateLayout) + "_to_" + rng.To.Format(expense.DateLayout) + "." + ext
}
