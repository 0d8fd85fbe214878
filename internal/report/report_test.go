package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/fkhayef/reimburse/internal/category"
	"github.com/fkhayef/reimburse/internal/database/databasetest"
	"github.com/fkhayef/reimburse/internal/employee"
	"github.com/fkhayef/reimburse/internal/expense"
	"github.com/fkhayef/reimburse/internal/money"
	"github.com/fkhayef/reimburse/internal/user"
)

func sampleExpenses(n int) []*expense.Expense {
	out := make([]*expense.Expense, n)
	for i := range out {
		out[i] = &expense.Expense{
			ID:              int64(i + 1),
			EmployeeName:    fmt.Sprintf("Employee %d", i+1),
			CategoryName:    "Travel",
			AmountRequested: 10000,
			AmountPaid:      4050,
			Status:          expense.StatusPartial,
			CreatedBy:       &user.Ref{ID: 1, Username: "admin"},
			CreatedAt:       time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		}
	}
	return out
}

func TestFilename(t *testing.T) {
	rng, err := expense.ParseDateRange("2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if got := filename(rng, "xlsx"); got != "expense_report_2026-03-01_to_2026-03-31.xlsx" {
		t.Errorf("filename = %q", got)
	}
	if got := filename(expense.DateRange{}, "pdf"); got != "expense_report_all.pdf" {
		t.Errorf("filename = %q", got)
	}
}

func TestRenderExcel(t *testing.T) {
	data, err := renderExcel(sampleExpenses(2))
	if err != nil {
		t.Fatalf("renderExcel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if strings.Join(rows[0], "|") != "Expense ID|Employee|Category|Amount Requested|Amount Paid|Status|Created By|Created At" {
		t.Errorf("header = %v", rows[0])
	}
	want := []string{"1", "Employee 1", "Travel", "100", "40.5", "PARTIAL", "admin", "2026-03-01"}
	if strings.Join(rows[1], "|") != strings.Join(want, "|") {
		t.Errorf("row = %v, want %v", rows[1], want)
	}

	typ, err := f.GetCellType(sheetName, "D2")
	if err != nil {
		t.Fatalf("GetCellType: %v", err)
	}
	if typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset {
		t.Errorf("amount cell type = %v, want numeric", typ)
	}
}

func TestWritePDF_RepeatsHeaderAcrossPages(t *testing.T) {
	var small bytes.Buffer
	pages, err := writePDF(&small, sampleExpenses(3), expense.DateRange{})
	if err != nil {
		t.Fatalf("writePDF: %v", err)
	}
	if pages != 1 || !bytes.HasPrefix(small.Bytes(), []byte("%PDF-")) {
		t.Errorf("pages = %d, prefix %q", pages, small.Bytes()[:5])
	}

	// An A4 page holds fewer than 40 rows of 7mm
	pages, err = writePDF(io.Discard, sampleExpenses(120), expense.DateRange{})
	if err != nil {
		t.Fatalf("writePDF: %v", err)
	}
	if pages < 3 {
		t.Errorf("pages = %d for 120 rows, want at least 3", pages)
	}
}

func TestService_RangeAndHandler(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	actorID := databasetest.SeedUser(t, db, "admin")
	employeeID := databasetest.SeedEmployee(t, db, "Ada")
	categoryID := databasetest.SeedCategory(t, db, "Travel")

	expenseRepo := expense.NewRepository(db)
	expenses := expense.NewService(expenseRepo, employee.NewRepository(db), category.NewRepository(db))
	for i, day := range []int{1, 15, 31} {
		e, err := expenses.Create(ctx, actorID, &expense.CreateExpenseRequest{EmployeeID: employeeID, CategoryID: categoryID, AmountRequested: money.Amount(1000 * (i + 1))})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		at := time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC)
		if _, err := db.ExecContext(ctx, `UPDATE expenses SET created_at = $2 WHERE id = $1`, e.ID, at); err != nil {
			t.Fatalf("backdate: %v", err)
		}
	}

	svc := NewService(expenseRepo, zerolog.Nop())

	f, err := svc.Excel(ctx, &RangeRequest{StartDate: "2026-03-01", EndDate: "2026-03-15"})
	if err != nil {
		t.Fatalf("Excel: %v", err)
	}
	wb, err := excelize.OpenReader(bytes.NewReader(f.Data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rows, _ := wb.GetRows(sheetName)
	wb.Close()
	if len(rows) != 3 || f.Name != "expense_report_2026-03-01_to_2026-03-15.xlsx" {
		t.Errorf("got %d rows in %s", len(rows), f.Name)
	}

	if _, err := svc.PDF(ctx, &RangeRequest{StartDate: "2026-03-01"}); !errors.Is(err, expense.ErrInvalidDateRange) {
		t.Errorf("half range err = %v", err)
	}

	routes := NewHandler(svc).Routes()
	tests := []struct {
		method, path, body string
		status             int
		disposition        string
	}{
		{http.MethodPost, "/excel", "", http.StatusOK, `attachment; filename="expense_report_all.xlsx"`},
		{http.MethodPost, "/pdf", `{"start_date":"2026-03-01","end_date":"2026-03-31"}`, http.StatusOK, `attachment; filename="expense_report_2026-03-01_to_2026-03-31.pdf"`},
		{http.MethodGet, "/pdf?start_date=2026-03-01&end_date=2026-03-02", "", http.StatusOK, `attachment; filename="expense_report_2026-03-01_to_2026-03-02.pdf"`},
		{http.MethodPost, "/excel", `{"start_date":"2026-03-31","end_date":"2026-03-01"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			routes.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			if rr.Code != tt.status {
				t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
			}
			if got := rr.Header().Get("Content-Disposition"); got != tt.disposition && tt.disposition != "" {
				t.Errorf("Content-Disposition = %q", got)
			}
		})
	}
}
