// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset reads and writes the tabular artifacts handed between
// pipeline stages. A Table is an ordered list of rows under a header; rows
// are identified only by position. Derived stages add one column and never
// drop or reorder rows.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrMissingColumn is returned when a stage's required input column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Table is an in-memory CSV artifact.
type Table struct {
	Header []string
	Rows   [][]string
}

// New returns an empty table with the given header.
func New(header ...string) *Table {
	return &Table{Header: slices.Clone(header)}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of column name in the header.
func (t *Table) Index(name string) (int, bool) {
	i := slices.Index(t.Header, name)
	return i, i >= 0
}

// Has reports whether the table has column name.
func (t *Table) Has(name string) bool {
	_, ok := t.Index(name)
	return ok
}

// Require returns an error wrapping ErrMissingColumn for the first absent name.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if !t.Has(n) {
			return fmt.Errorf("%w: %q (have %v)", ErrMissingColumn, n, t.Header)
		}
	}
	return nil
}

// Cell returns the value at row, col. Short rows read as "".
func (t *Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Get returns the value of column name in row, or "" when the column is absent.
func (t *Table) Get(row int, name string) string {
	i, ok := t.Index(name)
	if !ok {
		return ""
	}
	return t.Cell(row, i)
}

// Column returns every value of column name in row order. A missing column
// yields a slice of empty strings so callers can treat it as all-empty.
func (t *Table) Column(name string) []string {
	out := make([]string, len(t.Rows))
	i, ok := t.Index(name)
	if !ok {
		return out
	}
	for r := range t.Rows {
		out[r] = t.Cell(r, i)
	}
	return out
}

// Append adds a row. The row is padded or truncated to the header width.
func (t *Table) Append(row []string) {
	t.Rows = append(t.Rows, t.fit(row))
}

// SetColumn sets column name to values, adding the column at the end when
// it does not exist. len(values) must equal Len().
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	i, ok := t.Index(name)
	if !ok {
		t.Header = append(t.Header, name)
		i = len(t.Header) - 1
	}
	for r := range t.Rows {
		t.Rows[r] = t.fit(t.Rows[r])
		t.Rows[r][i] = values[r]
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{Header: slices.Clone(t.Header), Rows: make([][]string, len(t.Rows))}
	for i, r := range t.Rows {
		c.Rows[i] = slices.Clone(r)
	}
	return c
}

func (t *Table) fit(row []string) []string {
	switch {
	case len(row) == len(t.Header):
		return row
	case len(row) > len(t.Header):
		return row[:len(t.Header)]
	default:
		out := make([]string, len(t.Header))
		copy(out, row)
		return out
	}
}

// Read parses a CSV artifact. The first record is the header.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading header: empty file")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	// Strip a UTF-8 byte order mark written by spreadsheet tools.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := New(header...)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", t.Len()+1, err)
		}
		t.Append(rec)
	}
	return t, nil
}

// ReadFile opens and parses the CSV artifact at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Write encodes the table as CSV with a header row.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if err := cw.Write(t.fit(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile replaces the file at path with the table. The content is
// written to a temporary file in the same directory and renamed into
// place, so readers never see a partial artifact.
func (t *Table) WriteFile(path string) error {
	return WriteAtomic(path, t.Write)
}

// WriteAtomic creates or overwrites path with the bytes produced by write.
func WriteAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
