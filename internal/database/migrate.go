package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Direction selects which way migrations run
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies the embedded schema for driver using its own connection
func RunMigrations(driver, dsn string) error {
	return Migrate(driver, dsn, Up)
}

// Migrate runs every pending migration in the given direction
func Migrate(driver, dsn string, direction Direction) error {
	sqlDriver, openDSN := "postgres", dsn
	if driver == DriverSQLite {
		sqlDriver, openDSN = "sqlite", SQLiteDSN(dsn)
	} else if driver != DriverPostgres {
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	// Separate connection so migrations never hold the application's pool
	migrateDB, err := sql.Open(sqlDriver, openDSN)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	var instance migratedb.Driver
	if driver == DriverSQLite {
		instance, err = sqlite.WithInstance(migrateDB, &sqlite.Config{})
	} else {
		instance, err = postgres.WithInstance(migrateDB, &postgres.Config{})
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch direction {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations %s: %w", direction, err)
	}

	return nil
}
