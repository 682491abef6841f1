package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Flash messages live in scs sessions. Each scs store expects its own column
// types, so the table is created from Go rather than SQL.

func init() {
	goose.AddMigrationContext(upSessions, downSessions)
}

func sessionsDDL(d string) string {
	switch d {
	case "postgres":
		return `CREATE TABLE IF NOT EXISTS sessions (
    token  TEXT PRIMARY KEY,
    data   BYTEA NOT NULL,
    expiry TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		return `CREATE TABLE IF NOT EXISTS sessions (
    token  CHAR(43) PRIMARY KEY,
    data   BLOB NOT NULL,
    expiry TIMESTAMP(6) NOT NULL
)`
	default:
		return `CREATE TABLE IF NOT EXISTS sessions (
    token  TEXT PRIMARY KEY,
    data   BLOB NOT NULL,
    expiry REAL NOT NULL
)`
	}
}

func upSessions(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, sessionsDDL(dialect)); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE INDEX sessions_expiry_idx ON sessions (expiry)`); err != nil {
		return fmt.Errorf("create sessions index: %w", err)
	}
	return nil
}

func downSessions(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS sessions`)
	return err
}
