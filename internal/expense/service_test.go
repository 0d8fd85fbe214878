package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fkhayef/reimburse/internal/category"
	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/database/databasetest"
	"github.com/fkhayef/reimburse/internal/employee"
	"github.com/fkhayef/reimburse/internal/money"
)

type fixture struct {
	db         *database.DB
	svc        *Service
	actorID    int64
	employeeID int64
	categoryID int64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.Open(t)
	return &fixture{
		db:         db,
		svc:        NewService(NewRepository(db), employee.NewRepository(db), category.NewRepository(db)),
		actorID:    databasetest.SeedUser(t, db, "admin"),
		employeeID: databasetest.SeedEmployee(t, db, "Ada"),
		categoryID: databasetest.SeedCategory(t, db, "Travel"),
	}
}

func (f *fixture) create(t *testing.T, cents int64) *Expense {
	t.Helper()
	e, err := f.svc.Create(context.Background(), f.actorID, &CreateExpenseRequest{
		EmployeeID:      f.employeeID,
		CategoryID:      f.categoryID,
		AmountRequested: money.Amount(cents),
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	return e
}

// markPaid forces the terminal state directly in storage
func (f *fixture) markPaid(t *testing.T, id int64) {
	t.Helper()
	_, err := f.db.ExecContext(context.Background(), `UPDATE expenses SET amount_paid = amount_requested, status = 'PAID' WHERE id = $1`, id)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
}

func (f *fixture) setCreatedAt(t *testing.T, id int64, at time.Time) {
	t.Helper()
	if _, err := f.db.ExecContext(context.Background(), `UPDATE expenses SET created_at = $2 WHERE id = $1`, id, at); err != nil {
		t.Fatalf("set created_at: %v", err)
	}
}

func TestService_Create(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	e := f.create(t, 10000)
	if e.Status != StatusUnpaid || e.AmountPaid != 0 || e.Remaining() != 10000 {
		t.Errorf("new expense = %+v", e)
	}
	if e.EmployeeName != "Ada" || e.CategoryName != "Travel" {
		t.Errorf("joined names = %q, %q", e.EmployeeName, e.CategoryName)
	}
	if e.CreatedBy == nil || e.CreatedBy.Username != "admin" || e.UpdatedBy != nil {
		t.Errorf("stamps = %+v, %+v", e.CreatedBy, e.UpdatedBy)
	}

	inactiveEmployee := databasetest.SeedEmployee(t, f.db, "Gone")
	if _, err := f.db.ExecContext(ctx, `UPDATE employees SET is_active = $2 WHERE employee_id = $1`, inactiveEmployee, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	tests := []struct {
		name    string
		req     CreateExpenseRequest
		wantErr error
	}{
		{"zero amount", CreateExpenseRequest{EmployeeID: f.employeeID, CategoryID: f.categoryID, AmountRequested: 0}, ErrInvalidAmount},
		{"negative amount", CreateExpenseRequest{EmployeeID: f.employeeID, CategoryID: f.categoryID, AmountRequested: -100}, ErrInvalidAmount},
		{"missing employee", CreateExpenseRequest{EmployeeID: 999, CategoryID: f.categoryID, AmountRequested: 100}, employee.ErrEmployeeNotFound},
		{"inactive employee", CreateExpenseRequest{EmployeeID: inactiveEmployee, CategoryID: f.categoryID, AmountRequested: 100}, employee.ErrEmployeeInactive},
		{"missing category", CreateExpenseRequest{EmployeeID: f.employeeID, CategoryID: 999, AmountRequested: 100}, category.ErrCategoryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Create(ctx, f.actorID, &tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_UpdateAndDeleteRejectPaid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	meals := databasetest.SeedCategory(t, f.db, "Meals")

	open := f.create(t, 5000)
	updated, err := f.svc.Update(ctx, f.actorID, open.ID, &UpdateExpenseRequest{CategoryID: &meals})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CategoryName != "Meals" || updated.UpdatedBy == nil {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.AmountRequested != 5000 || updated.Status != StatusUnpaid {
		t.Errorf("update changed settlement fields: %+v", updated)
	}

	paid := f.create(t, 5000)
	f.markPaid(t, paid.ID)

	if _, err := f.svc.Update(ctx, f.actorID, paid.ID, &UpdateExpenseRequest{CategoryID: &meals}); !errors.Is(err, ErrExpensePaid) {
		t.Errorf("update paid err = %v", err)
	}
	if err := f.svc.Delete(ctx, paid.ID); !errors.Is(err, ErrExpensePaid) {
		t.Errorf("delete paid err = %v", err)
	}
	if _, err := f.svc.GetByID(ctx, paid.ID); err != nil {
		t.Errorf("paid expense must survive: %v", err)
	}

	if err := f.svc.Delete(ctx, open.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.GetByID(ctx, open.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("deleted expense err = %v", err)
	}
	if err := f.svc.Delete(ctx, open.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestService_DeleteCascadesPayments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e := f.create(t, 5000)

	_, err := f.db.ExecContext(ctx, `INSERT INTO payments (expense_id, amount, paid_at) VALUES ($1, $2, $3)`, e.ID, 1000, database.Now())
	if err != nil {
		t.Fatalf("insert payment: %v", err)
	}
	if err := f.svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var n int
	if err := f.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("payments left = %d, want 0", n)
	}
}

func TestService_ListFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	other := databasetest.SeedEmployee(t, f.db, "Grace")

	feb := f.create(t, 100)
	f.setCreatedAt(t, feb.ID, time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC))
	marchFirst := f.create(t, 200)
	f.setCreatedAt(t, marchFirst.ID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	marchLast := f.create(t, 300)
	f.setCreatedAt(t, marchLast.ID, time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC))

	graces, err := f.svc.Create(ctx, f.actorID, &CreateExpenseRequest{EmployeeID: other, CategoryID: f.categoryID, AmountRequested: 400})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.setCreatedAt(t, graces.ID, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	march, err := ParseDateRange("2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []int64
	}{
		{"all newest first", Filter{}, []int64{marchLast.ID, graces.ID, marchFirst.ID, feb.ID}},
		{"march inclusive", Filter{Range: march}, []int64{marchLast.ID, graces.ID, marchFirst.ID}},
		{"employee", Filter{EmployeeID: other}, []int64{graces.ID}},
		{"employee in march", Filter{EmployeeID: f.employeeID, Range: march}, []int64{marchLast.ID, marchFirst.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := f.svc.List(ctx, tt.filter, 1, 20)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != len(tt.wantIDs) || len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d rows (total %d), want %d", len(got), total, len(tt.wantIDs))
			}
			for i, e := range got {
				if e.ID != tt.wantIDs[i] {
					t.Errorf("row %d = expense %d, want %d", i, e.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestService_ListByEmployee(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.create(t, 100)
	f.create(t, 200)

	emp, expenses, err := f.svc.ListByEmployee(ctx, f.employeeID)
	if err != nil {
		t.Fatalf("ListByEmployee: %v", err)
	}
	if emp.FullName != "Ada" || len(expenses) != 2 {
		t.Errorf("got %s with %d expenses", emp.FullName, len(expenses))
	}

	if _, _, err := f.svc.ListByEmployee(ctx, 999); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Errorf("missing employee err = %v", err)
	}
}
