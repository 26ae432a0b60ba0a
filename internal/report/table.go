// Package report holds the row-oriented table model and the loader for
// survey export files.
package report

import (
	"fmt"
)

// Row maps column names to cell values. A cell is missing when its key is
// absent from the map; the empty string is a distinct, valid value.
type Row map[string]string

// Get returns the cell value and whether it is present.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Value returns the cell value, or "" when missing.
func (r Row) Value(col string) string {
	return r[col]
}

// Has reports whether the cell is present.
func (r Row) Has(col string) bool {
	_, ok := r[col]
	return ok
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns plus rows keyed by column name.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates a table with the given column order and no rows.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Clone returns a deep copy: the column list and every row map are
// copied, so mutations of either table never reach the other.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// HasColumn reports whether the column is part of the table schema.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AddColumn appends a column to the schema if not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// RenameColumn renames a column in place. Rows are rewritten so existing
// cells stay addressable under the new name. Absent columns are tolerated.
func (t *Table) RenameColumn(from, to string) {
	idx := t.ColumnIndex(from)
	if idx < 0 || from == to {
		return
	}
	t.Columns[idx] = to
	for _, row := range t.Rows {
		if v, ok := row[from]; ok {
			row[to] = v
			delete(row, from)
		}
	}
}

// DropColumn removes a column and its cells. Absence is not an error.
func (t *Table) DropColumn(name string) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	for _, row := range t.Rows {
		delete(row, name)
	}
}

// Append adds a row.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Select projects the table onto the given columns, preserving row order.
// A requested column that the table does not carry is a configuration
// error and is reported by name.
func (t *Table) Select(columns ...string) (*Table, error) {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("required column %q not present in table", c)
		}
	}
	out := NewTable(columns...)
	for _, row := range t.Rows {
		sel := make(Row, len(columns))
		for _, c := range columns {
			if v, ok := row[c]; ok {
				sel[c] = v
			}
		}
		out.Append(sel)
	}
	return out, nil
}

// Intersect returns the subset of wanted columns the table actually has,
// preserving the wanted order.
func (t *Table) Intersect(wanted []string) []string {
	out := make([]string, 0, len(wanted))
	for _, c := range wanted {
		if t.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}
