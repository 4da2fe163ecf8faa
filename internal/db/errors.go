package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no row matches the requested id
var ErrNotFound = errors.New("not found")

// StorageError reports a failed query or an unreachable store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// wrap converts a driver error into a StorageError, mapping sql.ErrNoRows to ErrNotFound
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &StorageError{Op: op, Err: err}
}

// expectRow returns ErrNotFound when an update or delete touched nothing
func expectRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func wrapNotFound(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNotFound)
}
