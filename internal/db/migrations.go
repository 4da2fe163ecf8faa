package db

import (
	"context"
	"fmt"
)

// migrate runs all database migrations
func (db *DB) migrate(ctx context.Context) error {
	migrations := sqliteMigrations
	if db.driver == DriverPostgres {
		migrations = postgresMigrations
	}

	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

var sqliteMigrations = []string{
	`
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    parent INTEGER,
    type TEXT NOT NULL DEFAULT 'project'
);
`,
	`
CREATE TABLE IF NOT EXISTS entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    date_created TEXT NOT NULL,
    date_updated TEXT
);

CREATE INDEX IF NOT EXISTS idx_entries_project ON entries(project_id, date_created);
`,
	`
CREATE TABLE IF NOT EXISTS status (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    progress INTEGER NOT NULL DEFAULT 0,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    date_created TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_status_project ON status(project_id, date_created);
`,
	`
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT
);
`,
}

var postgresMigrations = []string{
	`
CREATE TABLE IF NOT EXISTS projects (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    parent BIGINT,
    type TEXT NOT NULL DEFAULT 'project'
);
`,
	`
CREATE TABLE IF NOT EXISTS entries (
    id BIGSERIAL PRIMARY KEY,
    project_id BIGINT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    date_created TEXT NOT NULL,
    date_updated TEXT
);

CREATE INDEX IF NOT EXISTS idx_entries_project ON entries(project_id, date_created);
`,
	`
CREATE TABLE IF NOT EXISTS status (
    id BIGSERIAL PRIMARY KEY,
    project_id BIGINT NOT NULL,
    progress INTEGER NOT NULL DEFAULT 0,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    date_created TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_status_project ON status(project_id, date_created);
`,
	`
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT
);
`,
}
