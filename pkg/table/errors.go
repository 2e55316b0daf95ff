package table

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when an operation needs at least one row.
var ErrEmptyInput = errors.New("table: empty input")

// OpenError reports a file that could not be opened or read.
type OpenError struct {
	// Path is the file being opened.
	Path string
	// Err is the underlying error.
	Err error
}

// Error returns the path and the underlying error.
func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpenError) Unwrap() error {
	return e.Err
}
