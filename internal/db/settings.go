package db

import (
	"context"
	"database/sql"
	"errors"
)

// GetSetting returns the stored value for key. An absent or empty value yields fallback;
// ok is false only when neither is available.
func (db *DB) GetSetting(ctx context.Context, key, fallback string) (string, bool, error) {
	var value sql.NullString
	err := db.QueryRowContext(ctx, db.rebind(`SELECT value FROM settings WHERE key = ?`), key).Scan(&value)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", false, wrap("get setting", err)
	}
	if value.Valid && value.String != "" {
		return value.String, true, nil
	}
	if fallback != "" {
		return fallback, true, nil
	}
	return "", false, nil
}

// SetSetting stores value under key, replacing any existing value
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`), key, value)
	if err != nil {
		return wrap("set setting", err)
	}
	return nil
}
