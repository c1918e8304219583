package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format names reported in ParseError and metrics.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatOf returns the table format implied by a file name.
// Names without an extension are treated as CSV.
func FormatOf(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", "":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(filename))
	}
}

// Parse reads r as the table format implied by filename.
func Parse(filename string, r io.Reader) ParseResult {
	format, err := FormatOf(filename)
	if err != nil {
		return ParseResult{Err: &ParseError{Format: strings.TrimPrefix(filepath.Ext(filename), "."), Err: err}}
	}
	if format == FormatXLSX {
		return ParseXLSX(r)
	}
	return ParseCSV(r)
}

// ParseCSV reads a comma separated table whose first record is the header.
// Records shorter than the header are padded with empty cells; longer
// records and a file without a header are failures. A quote inside an
// unquoted field is kept literally.
func ParseCSV(r io.Reader) ParseResult {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return failed(FormatCSV, 0, ErrEmpty)
	}
	if err != nil {
		return csvFailure(err)
	}

	t := Table{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return csvFailure(err)
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return failed(FormatCSV, line,
				fmt.Errorf("expected %d fields, saw %d", len(header), len(rec)))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		t.Rows = append(t.Rows, rec)
	}
	return ParseResult{Table: t}
}

func csvFailure(err error) ParseResult {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return failed(FormatCSV, pe.Line, pe.Err)
	}
	return failed(FormatCSV, 0, err)
}

// ParseXLSX reads the first worksheet of a workbook; its first row is the
// header. Cells to the right of the header get "Unnamed: N" columns.
func ParseXLSX(r io.Reader) ParseResult {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return failed(FormatXLSX, 0, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return failed(FormatXLSX, 0, ErrEmpty)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return failed(FormatXLSX, 0, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return failed(FormatXLSX, 0, ErrEmpty)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	t := Table{Columns: append([]string(nil), rows[0]...)}
	for i := len(t.Columns); i < width; i++ {
		t.Columns = append(t.Columns, fmt.Sprintf("Unnamed: %d", i))
	}
	for _, row := range rows[1:] {
		rec := append([]string(nil), row...)
		for len(rec) < width {
			rec = append(rec, "")
		}
		t.Rows = append(t.Rows, rec)
	}
	return ParseResult{Table: t}
}
