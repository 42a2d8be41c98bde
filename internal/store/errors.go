package store

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = errors.New("store is closed")

// PersistenceError reports a database failure: a constraint violation,
// a lost connection, or a failed transaction step.
type PersistenceError struct {
	Op  string // e.g. "insert", "commit", "create schema"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// RowError annotates a batch failure with the offending row. Err is either
// an *album.ValidationError or a *PersistenceError.
type RowError struct {
	Row  int // 1-based data row index, header excluded
	Line int // source line number, 0 if unknown
	Err  error
}

func (e *RowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("row %d (line %d): %v", e.Row, e.Line, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
