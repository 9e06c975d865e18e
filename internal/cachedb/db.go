// Package cachedb maintains the local run index: every orchestrated run
// and every imported per-token score, in a SQLite database.
package cachedb

import (
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the run index database.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the run index at path and brings
// the schema up to date.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run index %s: %w", path, err)
	}

	wrapped := &DB{db}
	if err := wrapped.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return wrapped, nil
}
