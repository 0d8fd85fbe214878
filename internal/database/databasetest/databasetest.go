// Package databasetest opens throwaway SQLite databases with the schema applied.
package databasetest

import (
	"path/filepath"
	"testing"

	"github.com/fkhayef/reimburse/internal/database"
)

// Open returns a migrated database in a temp dir that is closed when the test ends
func Open(t testing.TB) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	if err := database.RunMigrations(database.DriverSQLite, path); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	db, err := database.Open(database.DriverSQLite, path)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
