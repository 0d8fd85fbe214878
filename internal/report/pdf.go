package report

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/fkhayef/reimburse/internal/expense"
)

const (
	pdfMargin    = 10.0
	pdfRowHeight = 7.0
)

var (
	pdfHeader = []string{"Employee", "Category", "Amount Requested", "Amount Paid", "Remaining", "Status", "Date"}
	pdfWidths = []float64{40, 32, 30, 25, 25, 20, 18}
)

// writePDF renders an A4 table of expenses to w. The column header is repeated at the
// top of every page. It returns the number of pages written.
func writePDF(w io.Writer, expenses []*expense.Expense, rng expense.DateRange) (int, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Expense Report", false)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	tableHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(128, 128, 128)
		pdf.SetTextColor(245, 245, 245)
		for i, h := range pdfHeader {
			pdf.CellFormat(pdfWidths[i], pdfRowHeight+1, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 {
			pdf.SetFont("Helvetica", "B", 16)
			pdf.CellFormat(0, 10, "Expense Report", "", 1, "C", false, 0, "")
			if !rng.IsZero() {
				pdf.SetFont("Helvetica", "", 10)
				subtitle := fmt.Sprintf("%s to %s", rng.From.Format(expense.DateLayout), rng.To.Format(expense.DateLayout))
				pdf.CellFormat(0, 6, subtitle, "", 1, "C", false, 0, "")
			}
			pdf.Ln(4)
		}
		tableHeader()
	})

	pdf.AddPage()
	for _, e := range expenses {
		cells := []string{
			e.EmployeeName,
			e.CategoryName,
			e.AmountRequested.String(),
			e.AmountPaid.String(),
			e.Remaining().String(),
			string(e.Status),
			e.CreatedAt.UTC().Format(expense.DateLayout),
		}
		for i, c := range cells {
			align := "C"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, fit(pdf, c, pdfWidths[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pages := pdf.PageNo()
	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("failed to write pdf: %w", err)
	}
	return pages, nil
}

// fit truncates s so it stays inside a cell of width w
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	limit := w - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
