package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyField    = errors.New("empty field")
	ErrNoHeader      = errors.New("no header row")
)

// DataLoadError is returned by Load and Parse for a missing, unreadable or malformed input.
// Line is the 1-based CSV line, 0 when the failure is not tied to a line.
type DataLoadError struct {
	Path string
	Line int
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
