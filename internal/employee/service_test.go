package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/database/databasetest"
	"github.com/fkhayef/reimburse/internal/money"
)

func setup(t *testing.T) (*Service, *database.DB, int64) {
	t.Helper()
	db := databasetest.Open(t)
	actorID := databasetest.SeedUser(t, db, "admin")
	return NewService(NewRepository(db)), db, actorID
}

func TestService_CreateAndGet(t *testing.T) {
	svc, _, actorID := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, actorID, &CreateEmployeeRequest{FullName: "  Ada Lovelace ", Department: "R&D", Designation: "Analyst"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.FullName != "Ada Lovelace" || !created.IsActive {
		t.Errorf("unexpected employee %+v", created)
	}
	if created.CreatedBy == nil || created.CreatedBy.ID != actorID || created.CreatedBy.Username != "admin" {
		t.Errorf("CreatedBy = %+v", created.CreatedBy)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TotalRemaining != 0 {
		t.Errorf("TotalRemaining = %v, want 0", got.TotalRemaining)
	}

	if _, err := svc.GetByID(ctx, 999); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("missing employee err = %v", err)
	}
}

func TestService_TotalRemaining(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	employeeID := databasetest.SeedEmployee(t, db, "Grace Hopper")
	categoryID := databasetest.SeedCategory(t, db, "Travel")
	now := database.Now()

	for _, row := range []struct{ requested, paid money.Amount }{{10000, 4000}, {2550, 0}, {500, 500}} {
		status := "PARTIAL"
		if row.paid == 0 {
			status = "UNPAID"
		} else if row.paid == row.requested {
			status = "PAID"
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO expenses (employee_id, category_id, amount_requested, amount_paid, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
		`, employeeID, categoryID, row.requested, row.paid, status, now)
		if err != nil {
			t.Fatalf("insert expense: %v", err)
		}
	}

	got, err := svc.GetByID(ctx, employeeID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TotalRemaining != 8550 {
		t.Errorf("TotalRemaining = %v, want 85.50", got.TotalRemaining)
	}
}

func TestService_SoftDelete(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	keepID := databasetest.SeedEmployee(t, db, "Keep")
	goneID := databasetest.SeedEmployee(t, db, "Gone")

	if err := svc.Delete(ctx, goneID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, 999); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("delete missing err = %v", err)
	}

	list, total, err := svc.List(ctx, 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != keepID {
		t.Errorf("List = %d rows of %d, want only the active employee", len(list), total)
	}

	gone, err := svc.GetByID(ctx, goneID)
	if err != nil {
		t.Fatalf("soft-deleted employee must still be readable: %v", err)
	}
	if gone.IsActive {
		t.Error("employee still active")
	}
	if _, err := svc.GetActive(ctx, goneID); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("GetActive on inactive employee err = %v", err)
	}
}

func TestService_Update(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	id := databasetest.SeedEmployee(t, db, "Old Name")

	name := "New Name"
	updated, err := svc.Update(ctx, id, &UpdateEmployeeRequest{FullName: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.FullName != "New Name" || updated.Department != "Engineering" {
		t.Errorf("unexpected employee after update %+v", updated)
	}

	if _, err := svc.Update(ctx, 999, &UpdateEmployeeRequest{FullName: &name}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("update missing err = %v", err)
	}
}
