package db

import (
	"context"
	"time"

	"github.com/existflow/journal/internal/model"
)

const statusColumns = `id, project_id, progress, start_date, end_date, date_created`

// ListStatus returns status rows for one project, or for all projects when projectID is nil
func (db *DB) ListStatus(ctx context.Context, projectID *int64) ([]model.Status, error) {
	if projectID == nil {
		return db.queryStatus(ctx, "list status", `
			SELECT `+statusColumns+` FROM status
			ORDER BY project_id, date_created, id`)
	}
	return db.queryStatus(ctx, "list status", `
		SELECT `+statusColumns+` FROM status
		WHERE project_id = ?
		ORDER BY date_created, id`, *projectID)
}

// CurrentStatus returns the most recently created status of a project
func (db *DB) CurrentStatus(ctx context.Context, projectID int64) (model.Status, error) {
	list, err := db.queryStatus(ctx, "current status", `
		SELECT `+statusColumns+` FROM status
		WHERE project_id = ?
		ORDER BY date_created DESC, id DESC
		LIMIT 1`, projectID)
	if err != nil {
		return model.Status{}, err
	}
	if len(list) == 0 {
		return model.Status{}, wrapNotFound("current status")
	}
	return list[0], nil
}

// LatestStatuses returns the current status of every project that has one, keyed by project id
func (db *DB) LatestStatuses(ctx context.Context) (map[int64]model.Status, error) {
	list, err := db.queryStatus(ctx, "latest statuses", `
		SELECT `+statusColumns+` FROM status s
		WHERE s.id = (
			SELECT s2.id FROM status s2
			WHERE s2.project_id = s.project_id
			ORDER BY s2.date_created DESC, s2.id DESC
			LIMIT 1
		)`)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]model.Status, len(list))
	for _, s := range list {
		out[s.ProjectID] = s
	}
	return out, nil
}

// CreateStatus records a progress snapshot stamped with the current time.
// start and end are stored as dates; the time of day is dropped.
func (db *DB) CreateStatus(ctx context.Context, projectID int64, progress int, start, end time.Time) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, db.rebind(`
		INSERT INTO status (project_id, progress, start_date, end_date, date_created)
		VALUES (?, ?, ?, ?, ?) RETURNING id`),
		projectID, progress, model.FormatDate(start), model.FormatDate(end), model.FormatTimestamp(db.now()),
	).Scan(&id)
	if err != nil {
		return 0, wrap("create status", err)
	}
	return id, nil
}

// UpdateStatus changes a snapshot's progress and date range
func (db *DB) UpdateStatus(ctx context.Context, projectID, id int64, progress int, start, end time.Time) error {
	res, err := db.ExecContext(ctx, db.rebind(`
		UPDATE status SET progress = ?, start_date = ?, end_date = ?
		WHERE project_id = ? AND id = ?`),
		progress, model.FormatDate(start), model.FormatDate(end), projectID, id)
	if err != nil {
		return wrap("update status", err)
	}
	return expectRow("update status", res)
}

// DeleteStatus removes a snapshot
func (db *DB) DeleteStatus(ctx context.Context, projectID, id int64) error {
	res, err := db.ExecContext(ctx, db.rebind(`DELETE FROM status WHERE project_id = ? AND id = ?`), projectID, id)
	if err != nil {
		return wrap("delete status", err)
	}
	return expectRow("delete status", res)
}

func (db *DB) queryStatus(ctx context.Context, op, query string, args ...any) ([]model.Status, error) {
	rows, err := db.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var list []model.Status
	for rows.Next() {
		var (
			s                     model.Status
			start, end, createdAt string
		)
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Progress, &start, &end, &createdAt); err != nil {
			return nil, wrap(op, err)
		}
		if s.StartDate, err = model.ParseDate(start); err != nil {
			return nil, wrap(op, err)
		}
		if s.EndDate, err = model.ParseDate(end); err != nil {
			return nil, wrap(op, err)
		}
		if s.DateCreated, err = model.ParseTimestamp(createdAt); err != nil {
			return nil, wrap(op, err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}
