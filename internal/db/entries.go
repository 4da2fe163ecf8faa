package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/existflow/journal/internal/model"
)

const entryColumns = `id, project_id, content, date_created, date_updated`

// ListEntries returns a project's entries, oldest first
func (db *DB) ListEntries(ctx context.Context, projectID int64) ([]model.Entry, error) {
	return db.queryEntries(ctx, "list entries", `
		SELECT `+entryColumns+` FROM entries
		WHERE project_id = ?
		ORDER BY date_created, id`, projectID)
}

// ListEntriesInRange returns a project's entries created between start and end, both inclusive
func (db *DB) ListEntriesInRange(ctx context.Context, projectID int64, start, end time.Time) ([]model.Entry, error) {
	return db.queryEntries(ctx, "list entries in range", `
		SELECT `+entryColumns+` FROM entries
		WHERE project_id = ? AND date_created >= ? AND date_created <= ?
		ORDER BY date_created, id`,
		projectID, model.FormatTimestamp(start), model.FormatTimestamp(end))
}

// GetEntry returns a single entry of a project
func (db *DB) GetEntry(ctx context.Context, projectID, id int64) (model.Entry, error) {
	entries, err := db.queryEntries(ctx, "get entry", `
		SELECT `+entryColumns+` FROM entries
		WHERE project_id = ? AND id = ?`, projectID, id)
	if err != nil {
		return model.Entry{}, err
	}
	if len(entries) == 0 {
		return model.Entry{}, fmt.Errorf("get entry: %w", ErrNotFound)
	}
	return entries[0], nil
}

// CreateEntry inserts an entry and returns its id
func (db *DB) CreateEntry(ctx context.Context, projectID int64, createdAt, updatedAt time.Time, content string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, db.rebind(`
		INSERT INTO entries (project_id, date_created, date_updated, content)
		VALUES (?, ?, ?, ?) RETURNING id`),
		projectID, model.FormatTimestamp(createdAt), model.FormatTimestamp(updatedAt), content,
	).Scan(&id)
	if err != nil {
		return 0, wrap("create entry", err)
	}
	return id, nil
}

// UpdateEntry replaces an entry's content and refreshes date_updated
func (db *DB) UpdateEntry(ctx context.Context, projectID, id int64, content string, updatedAt time.Time) error {
	res, err := db.ExecContext(ctx, db.rebind(`
		UPDATE entries SET content = ?, date_updated = ?
		WHERE project_id = ? AND id = ?`),
		content, model.FormatTimestamp(updatedAt), projectID, id)
	if err != nil {
		return wrap("update entry", err)
	}
	return expectRow("update entry", res)
}

// DeleteEntry removes an entry
func (db *DB) DeleteEntry(ctx context.Context, projectID, id int64) error {
	res, err := db.ExecContext(ctx, db.rebind(`DELETE FROM entries WHERE project_id = ? AND id = ?`), projectID, id)
	if err != nil {
		return wrap("delete entry", err)
	}
	return expectRow("delete entry", res)
}

func (db *DB) queryEntries(ctx context.Context, op, query string, args ...any) ([]model.Entry, error) {
	rows, err := db.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var (
			e       model.Entry
			created string
			updated sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Content, &created, &updated); err != nil {
			return nil, wrap(op, err)
		}
		if e.DateCreated, err = model.ParseTimestamp(created); err != nil {
			return nil, wrap(op, err)
		}
		if updated.Valid && updated.String != "" {
			t, err := model.ParseTimestamp(updated.String)
			if err != nil {
				return nil, wrap(op, err)
			}
			e.DateUpdated = &t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return entries, nil
}
