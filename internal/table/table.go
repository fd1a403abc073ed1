package table

import (
	"github.com/rotisserie/eris"
)

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered set of fields decoded from a single response body.
type Record []Field

// Get returns the value for name, or null when the record lacks it.
func (r Record) Get(name string) Value {
	for _, f := range r {
		if f.Name == name {
			return f.Value
		}
	}
	return Null()
}

// Table is an ordered sequence of rows sharing one ordered column set.
// Every row holds exactly one value per column.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New creates an empty table with the given columns.
// Duplicate column names are ignored after their first occurrence.
func New(columns ...string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, ok := t.index[c]; ok {
			continue
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t
}

// FromRecords builds a table whose columns are the union of all record keys
// in first-seen order. Rows keep record order; missing keys become null.
func FromRecords(records []Record) *Table {
	t := New()
	for _, rec := range records {
		for _, f := range rec {
			if _, ok := t.index[f.Name]; !ok {
				t.index[f.Name] = len(t.columns)
				t.columns = append(t.columns, f.Name)
			}
		}
	}
	for _, rec := range records {
		row := make([]Value, len(t.columns))
		for _, f := range rec {
			row[t.index[f.Name]] = f.Value
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Columns returns a copy of the column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// ColumnIndex returns the position of col, or -1.
func (t *Table) ColumnIndex(col string) int {
	if i, ok := t.index[col]; ok {
		return i
	}
	return -1
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Get returns the value at row i, column col. Unknown columns read as null.
func (t *Table) Get(i int, col string) Value {
	j, ok := t.index[col]
	if !ok {
		return Null()
	}
	return t.rows[i][j]
}

// Column returns a copy of all values in col.
func (t *Table) Column(col string) ([]Value, bool) {
	j, ok := t.index[col]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out, true
}

// Append adds a row. It must have one value per column.
func (t *Table) Append(row []Value) error {
	if len(row) != len(t.columns) {
		return eris.Errorf("table: row has %d values, table has %d columns", len(row), len(t.columns))
	}
	cp := make([]Value, len(row))
	copy(cp, row)
	t.rows = append(t.rows, cp)
	return nil
}

// AddColumn appends a column holding vals, one per existing row.
func (t *Table) AddColumn(name string, vals []Value) error {
	if _, ok := t.index[name]; ok {
		return eris.Errorf("table: column %q already exists", name)
	}
	if len(vals) != len(t.rows) {
		return eris.Errorf("table: column %q has %d values, table has %d rows", name, len(vals), len(t.rows))
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], vals[i])
	}
	return nil
}

// SetColumn replaces the values of an existing column.
func (t *Table) SetColumn(name string, vals []Value) error {
	j, ok := t.index[name]
	if !ok {
		return eris.Errorf("table: unknown column %q", name)
	}
	if len(vals) != len(t.rows) {
		return eris.Errorf("table: column %q has %d values, table has %d rows", name, len(vals), len(t.rows))
	}
	for i := range t.rows {
		t.rows[i][j] = vals[i]
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.columns...)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = make([]Value, len(row))
		copy(out.rows[i], row)
	}
	return out
}

// Select returns a new table with the given columns in the given order.
// Columns absent from t are filled with nulls.
func (t *Table) Select(columns ...string) *Table {
	out := New(columns...)
	for _, row := range t.rows {
		nr := make([]Value, len(out.columns))
		for k, c := range out.columns {
			if j, ok := t.index[c]; ok {
				nr[k] = row[j]
			}
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(row []Value) bool) *Table {
	out := New(t.columns...)
	for _, row := range t.rows {
		if keep(row) {
			cp := make([]Value, len(row))
			copy(cp, row)
			out.rows = append(out.rows, cp)
		}
	}
	return out
}
