// Package dataset holds the in-memory tables shown by the showcase: the
// randomly generated sample and whatever the user uploads.
package dataset

import (
	"fmt"
	"strconv"
)

// Table is a rectangular table of string cells with named columns.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Shape returns the number of rows and columns.
func (t Table) Shape() (rows, cols int) {
	return len(t.Rows), len(t.Columns)
}

// Head returns a table with at most the first n rows.
// The returned table shares no row slices with t.
func (t Table) Head(n int) Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, n),
	}
	for i := 0; i < n; i++ {
		out.Rows[i] = append([]string(nil), t.Rows[i]...)
	}
	return out
}

// ColumnIndex returns the index of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column, or nil if it does not exist.
func (t Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// Ints returns the named column parsed as integers.
func (t Table) Ints(name string) ([]int, error) {
	cells := t.Column(name)
	if cells == nil {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]int, len(cells))
	for i, c := range cells {
		v, err := strconv.Atoi(c)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Floats returns the named column parsed as float64.
func (t Table) Floats(name string) ([]float64, error) {
	cells := t.Column(name)
	if cells == nil {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		out[i] = v
	}
	return out, nil
}
