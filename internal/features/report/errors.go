package report

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no principal reached the engine. It always
	// surfaces to the caller before any store access happens.
	ErrUnauthenticated = errors.New("user not authenticated")

	// ErrInvalidSpec marks a report spec the engine refuses to run:
	// unknown data source or export format, inverted date range, or
	// columns that do not belong to the chosen data source.
	ErrInvalidSpec = errors.New("invalid report spec")
)

// StoreError wraps a failed entity-store query so callers can tell
// "no data" apart from "failed to fetch data".
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store query %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// RenderError wraps a format-specific encoding failure.
type RenderError struct {
	Format ExportFormat
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
