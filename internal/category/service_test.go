package category

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/database/databasetest"
)

func TestService_Lifecycle(t *testing.T) {
	svc := NewService(NewRepository(databasetest.Open(t)))
	ctx := context.Background()

	travel, err := svc.Create(ctx, &CreateCategoryRequest{Name: " Travel "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if travel.Name != "Travel" || !travel.IsActive {
		t.Errorf("unexpected category %+v", travel)
	}
	if _, err := svc.Create(ctx, &CreateCategoryRequest{Name: "Travel"}); !errors.Is(err, ErrNameTaken) {
		t.Errorf("duplicate name err = %v", err)
	}
	if _, err := svc.Create(ctx, &CreateCategoryRequest{Name: "Meals"}); err != nil {
		t.Fatalf("Create Meals: %v", err)
	}

	if err := svc.Delete(ctx, travel.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, 999); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("delete missing err = %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Meals" {
		t.Errorf("List = %+v, want only Meals", list)
	}

	got, err := svc.GetByID(ctx, travel.ID)
	if err != nil || got.IsActive {
		t.Errorf("soft deleted category = %+v, %v", got, err)
	}
}

func TestCategory_HardDeleteRestricted(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	employeeID := databasetest.SeedEmployee(t, db, "Ada")
	categoryID := databasetest.SeedCategory(t, db, "Travel")

	_, err := db.ExecContext(ctx, `
		INSERT INTO expenses (employee_id, category_id, amount_requested, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`, employeeID, categoryID, 1000, database.Now())
	if err != nil {
		t.Fatalf("insert expense: %v", err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM expense_categories WHERE id = $1`, categoryID); err == nil {
		t.Fatal("expected foreign key to block deleting a referenced category")
	}
}

func TestHandler_Create(t *testing.T) {
	routes := NewHandler(NewService(NewRepository(databasetest.Open(t)))).Routes()

	for body, want := range map[string]int{
		`{"name":"Travel"}`: http.StatusCreated,
		`{"name":""}`:       http.StatusBadRequest,
		`not json`:          http.StatusBadRequest,
	} {
		rr := httptest.NewRecorder()
		routes.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		if rr.Code != want {
			t.Errorf("POST %s status = %d, want %d", body, rr.Code, want)
		}
	}
}
