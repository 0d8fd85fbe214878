package databasetest

import (
	"context"
	"testing"

	"github.com/fkhayef/reimburse/internal/database"
)

// SeedUser inserts an active staff user with an unusable password hash and returns its id
func SeedUser(t testing.TB, db *database.DB, username string) int64 {
	t.Helper()

	var id int64
	now := database.Now()
	err := db.QueryRowContext(context.Background(), `
		INSERT INTO users (username, email, password_hash, is_active, is_staff, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`, username, username+"@example.com", "!", true, true, false, now).Scan(&id)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return id
}

// SeedEmployee inserts an active employee and returns its id
func SeedEmployee(t testing.TB, db *database.DB, fullName string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowContext(context.Background(), `
		INSERT INTO employees (full_name, department, designation, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING employee_id
	`, fullName, "Engineering", "Engineer", true, database.Now()).Scan(&id)
	if err != nil {
		t.Fatalf("seed employee %s: %v", fullName, err)
	}
	return id
}

// SeedCategory inserts an active category and returns its id
func SeedCategory(t testing.TB, db *database.DB, name string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO expense_categories (name, is_active) VALUES ($1, $2) RETURNING id`, name, true).Scan(&id)
	if err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return id
}
