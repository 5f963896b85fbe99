package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is not idempotent in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Authenticated session: the bearer token and the user it belongs to.
	// A single row keyed 'current'.
	`CREATE TABLE IF NOT EXISTS auth_session (
		id        TEXT PRIMARY KEY DEFAULT 'current' CHECK(id = 'current'),
		token     TEXT NOT NULL,
		user_json TEXT NOT NULL,
		saved_at  TEXT NOT NULL
	)`,

	// Last store/department picked for the shift grid, per user document.
	`CREATE TABLE IF NOT EXISTS grid_scope (
		user_document   TEXT PRIMARY KEY,
		store_id        TEXT NOT NULL,
		store_name      TEXT NOT NULL DEFAULT '',
		department_id   TEXT NOT NULL,
		department_name TEXT NOT NULL DEFAULT '',
		updated_at      TEXT NOT NULL
	)`,

	`ALTER TABLE grid_scope ADD COLUMN last_month TEXT NOT NULL DEFAULT ''`,
}
