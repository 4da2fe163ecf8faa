package db

import (
	"context"
	"database/sql"

	"github.com/existflow/journal/internal/logger"
	"github.com/existflow/journal/internal/model"
)

const projectColumns = `id, name, parent, type`

// ListProjects returns all projects with each parent directly followed by its children
func (db *DB) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		ORDER BY COALESCE(parent, id), COALESCE(parent, 0), id`)
	if err != nil {
		return nil, wrap("list projects", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, wrap("scan project", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list projects", err)
	}
	return projects, nil
}

// GetProject returns a single project
func (db *DB) GetProject(ctx context.Context, id int64) (model.Project, error) {
	row := db.QueryRowContext(ctx, db.rebind(`SELECT `+projectColumns+` FROM projects WHERE id = ?`), id)
	p, err := scanProject(row)
	if err != nil {
		return model.Project{}, wrap("get project", err)
	}
	return p, nil
}

// CreateProject inserts a top-level project of type "project" and returns its id
func (db *DB) CreateProject(ctx context.Context, name string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		db.rebind(`INSERT INTO projects (name, parent, type) VALUES (?, NULL, ?) RETURNING id`),
		name, string(model.TypeProject),
	).Scan(&id)
	if err != nil {
		return 0, wrap("create project", err)
	}
	logger.Debug("Project created", logger.F("id", id), logger.F("name", name))
	return id, nil
}

// RenameProject changes a project's name
func (db *DB) RenameProject(ctx context.Context, id int64, name string) error {
	res, err := db.ExecContext(ctx, db.rebind(`UPDATE projects SET name = ? WHERE id = ?`), name, id)
	if err != nil {
		return wrap("rename project", err)
	}
	return expectRow("rename project", res)
}

// SetProjectParent sets or clears (nil) a project's parent
func (db *DB) SetProjectParent(ctx context.Context, id int64, parent *int64) error {
	var p sql.NullInt64
	if parent != nil {
		p = sql.NullInt64{Int64: *parent, Valid: true}
	}
	res, err := db.ExecContext(ctx, db.rebind(`UPDATE projects SET parent = ? WHERE id = ?`), p, id)
	if err != nil {
		return wrap("set project parent", err)
	}
	return expectRow("set project parent", res)
}

// SetProjectType changes a project's type
func (db *DB) SetProjectType(ctx context.Context, id int64, t model.ProjectType) error {
	res, err := db.ExecContext(ctx, db.rebind(`UPDATE projects SET type = ? WHERE id = ?`), string(t), id)
	if err != nil {
		return wrap("set project type", err)
	}
	return expectRow("set project type", res)
}

// DeleteProject removes the project row only. Entries and status rows are left in place;
// callers that want them gone delete them first or use DeleteProjectCascade.
func (db *DB) DeleteProject(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, db.rebind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return wrap("delete project", err)
	}
	return expectRow("delete project", res)
}

// DeleteProjectCascade deletes a project's entries and status rows, then the project
func (db *DB) DeleteProjectCascade(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin delete project", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, q := range []string{
		`DELETE FROM entries WHERE project_id = ?`,
		`DELETE FROM status WHERE project_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, db.rebind(q), id); err != nil {
			return wrap("delete project dependents", err)
		}
	}

	res, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return wrap("delete project", err)
	}
	if err := expectRow("delete project", res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrap("commit delete project", err)
	}
	logger.Info("Project deleted with dependents", logger.F("id", id))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (model.Project, error) {
	var (
		p      model.Project
		parent sql.NullInt64
		typ    sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &parent, &typ); err != nil {
		return model.Project{}, err
	}
	if parent.Valid {
		v := parent.Int64
		p.Parent = &v
	}
	p.Type = model.TypeProject
	if typ.Valid && typ.String != "" {
		p.Type = model.ProjectType(typ.String)
	}
	return p, nil
}
