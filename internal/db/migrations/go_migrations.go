// Package migrations holds the embedded schema. SQL files cover the tables
// every driver agrees on; Go files cover the ones that differ by dialect.
package migrations

var dialect string

// SetDialect must be called before goose.Up. Valid values: sqlite3, postgres, mysql.
func SetDialect(d string) {
	dialect = d
}
