// Package csvio provides the CSV loading helpers shared by the dataset
// loaders: header-indexed access, tolerant numeric coercion, and Latin-1
// decoding for the FDIC SOD exports.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// Table is an in-memory CSV file with header-indexed column access.
type Table struct {
	Path    string
	Headers []string
	Rows    [][]string

	index map[string]int
}

// Read loads a UTF-8 CSV file.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrom(f, path)
}

// ReadLatin1 loads an ISO 8859-1 encoded CSV file. The FDIC SOD exports are
// Latin-1 and contain bytes that break a plain UTF-8 read.
func ReadLatin1(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrom(charmap.ISO8859_1.NewDecoder().Reader(f), path)
}

// ReadFrom parses CSV content from a reader. Ragged rows are tolerated;
// rows shorter than the header are padded with empty fields.
func ReadFrom(r io.Reader, path string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, fmt.Errorf("%s: failed to read header: %w", path, err)
	}

	// Strip UTF-8 BOM if present.
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read row: %w", path, err)
		}
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		}
		rows = append(rows, row)
	}

	return &Table{Path: path, Headers: headers, Rows: rows, index: index}, nil
}

// Col returns the index of the named column.
func (t *Table) Col(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// FirstCol returns the first candidate column name that exists in the table.
// Regulatory exports are inconsistent about header spelling, so the loaders
// probe a list of known variants.
func (t *Table) FirstCol(candidates ...string) (string, int, bool) {
	for _, name := range candidates {
		if i, ok := t.index[name]; ok {
			return name, i, true
		}
	}
	return "", 0, false
}

// Field returns the value of the named column in a row, or "" if the column
// does not exist.
func (t *Table) Field(row []string, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ParseFloat coerces a CSV field to a float. Thousand separators are
// stripped. Returns false for empty or non-numeric values instead of
// failing the row.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseInt coerces a CSV field to an integer. Values written as floats
// (e.g. "2020.0") are accepted.
func ParseInt(s string) (int64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// dateLayouts are the filing date formats seen across Edgar exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
}

// ParseDate parses a date field using the known layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseYear extracts a calendar year from a year or date field.
func ParseYear(s string) (int, bool) {
	if v, ok := ParseInt(s); ok && v >= 1800 && v <= 2200 {
		return int(v), true
	}
	if t, ok := ParseDate(s); ok {
		return t.Year(), true
	}
	return 0, false
}
