package db

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/joestump/sitegen/internal/db/migrations"
)

//go:embed migrations
var Migrations embed.FS

// Migrate applies all pending migrations. It must run before the HTTP server
// accepts requests.
func Migrate(conn *sqlx.DB, driver string) error {
	if err := setup(driver); err != nil {
		return err
	}
	defer goose.SetBaseFS(nil)
	if err := goose.Up(conn.DB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Status reports applied and pending migrations through goose's logger.
func Status(conn *sqlx.DB, driver string) error {
	if err := setup(driver); err != nil {
		return err
	}
	defer goose.SetBaseFS(nil)
	if err := goose.Status(conn.DB, "."); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

func setup(driver string) error {
	switch driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return fmt.Errorf("unknown driver for goose dialect: %q", driver)
	}
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	migrations.SetDialect(driver)

	sub, err := fs.Sub(Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("sub migrations fs: %w", err)
	}
	goose.SetBaseFS(sub)
	return nil
}
