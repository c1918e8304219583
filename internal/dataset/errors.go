package dataset

import (
	"errors"
	"fmt"
)

// ErrEmpty indicates the uploaded file has no header row.
var ErrEmpty = errors.New("no columns to parse from file")

// ErrUnsupported indicates the file extension is not a known table format.
var ErrUnsupported = errors.New("unsupported file type")

// ParseError describes why an uploaded file could not be read as a table.
type ParseError struct {
	Format string // "csv" or "xlsx"
	Line   int    // 1-based line or row number; 0 when unknown
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s parse error on line %d: %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("%s parse error: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseResult is the outcome of parsing an upload: either a table or the
// reason there is none.
type ParseResult struct {
	Table Table
	Err   error
}

// OK reports whether parsing succeeded.
func (r ParseResult) OK() bool {
	return r.Err == nil
}

func failed(format string, line int, err error) ParseResult {
	return ParseResult{Err: &ParseError{Format: format, Line: line, Err: err}}
}
