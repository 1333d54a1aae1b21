// Package migrations holds the Go migrations for the session store. They are
// Go rather than SQL because the sessions table differs per dialect.
package migrations

// dialect is the goose dialect of the database being migrated.
var dialect string

// SetDialect records the dialect ("sqlite3", "postgres" or "mysql") for the
// migrations. db.Migrate calls it before goose.Up.
func SetDialect(d string) {
	dialect = d
}
