// Package jsonutil provides shared helpers for reading and writing JSON:
// context-wrapped decode errors and consistent encoding.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeWithContext reads exactly one JSON value from r into v. Unknown
// fields and trailing data are errors. At most limit bytes are read when
// limit > 0.
func DecodeWithContext(r io.Reader, v any, limit int64, context string) error {
	if limit > 0 {
		r = io.LimitReader(r, limit)
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty body", context)
		}
		return fmt.Errorf("%s: %w", context, err)
	}
	if dec.More() {
		return fmt.Errorf("%s: unexpected data after JSON value", context)
	}
	return nil
}

// Encode writes v as JSON followed by a newline. indent selects two-space
// indentation for human readers.
func Encode(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
