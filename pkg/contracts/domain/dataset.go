package domain

import (
	"math"
	"strconv"
)

// ColumnKind classifies a column's inferred type
type ColumnKind string

const (
	ColumnKindNumeric ColumnKind = "numeric"
	ColumnKindText    ColumnKind = "text"
)

// Column is a single named column of a Table. Numeric columns store their
// values in Float with NaN marking a missing cell; text columns store raw
// strings in Text with "" marking a missing cell.
type Column struct {
	Name  string     `json:"name"`
	Kind  ColumnKind `json:"kind"`
	Float []float64  `json:"-"`
	Text  []string   `json:"-"`
}

// Len returns the number of rows in the column
func (c *Column) Len() int {
	if c.Kind == ColumnKindNumeric {
		return len(c.Float)
	}
	return len(c.Text)
}

// IsNumeric reports whether the column holds numeric data
func (c *Column) IsNumeric() bool {
	return c.Kind == ColumnKindNumeric
}

// Missing reports whether the cell at row i is missing
func (c *Column) Missing(i int) bool {
	if c.Kind == ColumnKindNumeric {
		return math.IsNaN(c.Float[i])
	}
	return c.Text[i] == ""
}

// CellString renders the cell at row i for display and export.
// Missing cells render as the empty string; numeric cells use the
// shortest representation that round-trips.
func (c *Column) CellString(i int) string {
	if c.Kind == ColumnKindNumeric {
		v := c.Float[i]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return c.Text[i]
}

// NonMissing returns the non-missing values of a numeric column
func (c *Column) NonMissing() []float64 {
	out := make([]float64, 0, len(c.Float))
	for _, v := range c.Float {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// clone returns a deep copy of the column
func (c *Column) clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.Float != nil {
		out.Float = make([]float64, len(c.Float))
		copy(out.Float, c.Float)
	}
	if c.Text != nil {
		out.Text = make([]string, len(c.Text))
		copy(out.Text, c.Text)
	}
	return out
}

// Table is an ordered collection of equally sized columns. It is the
// unit of exchange between every pipeline stage: stages never mutate
// their input, they clone first and return the modified copy, so row
// count and row order are preserved end to end.
type Table struct {
	Columns []Column `json:"columns"`
}

// RowCount returns the number of rows in the table
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// ColumnNames returns all column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

// NumericColumnNames returns the names of numeric columns in table order
func (t *Table) NumericColumnNames() []string {
	var names []string
	for i := range t.Columns {
		if t.Columns[i].IsNumeric() {
			names = append(names, t.Columns[i].Name)
		}
	}
	return names
}

// Column returns the column with the given name, or nil if absent
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// HasColumn reports whether a column with the given name exists
func (t *Table) HasColumn(name string) bool {
	return t.Column(name) != nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{Columns: make([]Column, len(t.Columns))}
	for i := range t.Columns {
		out.Columns[i] = t.Columns[i].clone()
	}
	return out
}

// HeadRows returns up to n rows rendered as strings, for previews
func (t *Table) HeadRows(n int) [][]string {
	if n > t.RowCount() {
		n = t.RowCount()
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.Columns))
		for j := range t.Columns {
			row[j] = t.Columns[j].CellString(i)
		}
		rows[i] = row
	}
	return rows
}

// AllRows returns every row rendered as strings, for export
func (t *Table) AllRows() [][]string {
	return t.HeadRows(t.RowCount())
}
