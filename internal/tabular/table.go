package tabular

import (
	"errors"
	"fmt"
	"slices"
)

// ErrMissingColumn marks structural input errors: a table lacks a column the
// pipeline requires.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError names the table and column that failed validation.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Table, ErrMissingColumn, e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// Row is one record. Absent keys are null.
type Row map[string]string

// Get returns the cell and whether it is non-null.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Value returns the cell, or "" when null.
func (r Row) Value(column string) string {
	return r[column]
}

// Set stores a non-null value.
func (r Row) Set(column, value string) {
	r[column] = value
}

// SetNull removes the cell so it reads as null.
func (r Row) SetNull(column string) {
	delete(r, column)
}

// SetOptional stores value, or null when ok is false.
func (r Row) SetOptional(column, value string, ok bool) {
	if !ok {
		delete(r, column)
		return
	}
	r[column] = value
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns and rows.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given columns.
func New(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: slices.Clone(columns)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether column is part of the header.
func (t *Table) HasColumn(column string) bool {
	return t != nil && slices.Contains(t.Columns, column)
}

// AddColumn appends column to the header if it is not present yet.
func (t *Table) AddColumn(column string) {
	if !t.HasColumn(column) {
		t.Columns = append(t.Columns, column)
	}
}

// RequireColumns fails with *MissingColumnError on the first column that is
// not part of the header. A table with no header at all reports its first
// required column as missing.
func (t *Table) RequireColumns(columns ...string) error {
	name := "table"
	if t != nil && t.Name != "" {
		name = t.Name
	}
	for _, col := range columns {
		if !t.HasColumn(col) {
			return &MissingColumnError{Table: name, Column: col}
		}
	}
	return nil
}
