// File path: internal/dataset/table.go

// Package dataset holds the in-memory table model plus the type
// normalization and cleaning passes applied to every ingested file. Tables
// are request-local values; every operation returns a new table and never
// mutates shared state.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the semantic type assigned to a column during normalization.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindDate
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	case KindCategorical:
		return "categorical"
	default:
		return "text"
	}
}

// Column is a homogeneous typed sequence of values with a missing mask.
// Exactly one of Floats, Times, or Texts is populated, matching Kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Times   []time.Time
	Texts   []string
	Missing []bool
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Missing) }

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// CellString renders cell i for samples, dedupe keys, and prompts.
func (c *Column) CellString(i int) string {
	if c.Missing[i] {
		return ""
	}
	switch c.Kind {
	case KindNumeric:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	case KindDate:
		return c.Times[i].Format("2006-01-02")
	default:
		return c.Texts[i]
	}
}

// Table is an ordered sequence of equally sized, uniquely named columns.
type Table struct {
	Columns []Column
}

// New validates column lengths and name uniqueness and builds a Table.
func New(cols []Column) (*Table, error) {
	seen := make(map[string]struct{}, len(cols))
	length := -1
	for i := range cols {
		name := strings.TrimSpace(cols[i].Name)
		if name == "" {
			return nil, fmt.Errorf("column %d has empty name", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		seen[name] = struct{}{}
		if length == -1 {
			length = cols[i].Len()
		} else if cols[i].Len() != length {
			return nil, fmt.Errorf("column %q has %d cells, want %d", name, cols[i].Len(), length)
		}
	}
	return &Table{Columns: cols}, nil
}

// Rows returns the row count; an empty table has zero rows.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i := range t.Columns {
		out[i] = t.Columns[i].Name
	}
	return out
}

// Col looks a column up by name.
func (t *Table) Col(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// NumericColumns returns the names of all numeric columns in table order.
func (t *Table) NumericColumns() []string {
	var out []string
	for i := range t.Columns {
		if t.Columns[i].Kind == KindNumeric {
			out = append(out, t.Columns[i].Name)
		}
	}
	return out
}

// Filter returns a new table keeping only rows where keep[i] is true.
func (t *Table) Filter(keep []bool) *Table {
	cols := make([]Column, len(t.Columns))
	for ci := range t.Columns {
		src := &t.Columns[ci]
		dst := Column{Name: src.Name, Kind: src.Kind}
		for i := 0; i < src.Len(); i++ {
			if !keep[i] {
				continue
			}
			dst.Missing = append(dst.Missing, src.Missing[i])
			switch src.Kind {
			case KindNumeric:
				dst.Floats = append(dst.Floats, src.Floats[i])
			case KindDate:
				dst.Times = append(dst.Times, src.Times[i])
			default:
				dst.Texts = append(dst.Texts, src.Texts[i])
			}
		}
		cols[ci] = dst
	}
	return &Table{Columns: cols}
}

// rowKey renders a full row for exact duplicate detection. Missing cells
// collapse to a marker distinct from any rendered value.
func (t *Table) rowKey(i int) string {
	var sb strings.Builder
	for ci := range t.Columns {
		c := &t.Columns[ci]
		if c.Missing[i] {
			sb.WriteString("\x00?")
		} else {
			sb.WriteString(c.CellString(i))
		}
		sb.WriteByte('\x1f')
	}
	return sb.String()
}

// TextColumn builds an untyped column from raw string cells; empty strings
// become missing. All ingested tabular data starts out this way and is
// promoted by Normalize.
func TextColumn(name string, cells []string) Column {
	col := Column{Name: name, Kind: KindText, Texts: make([]string, len(cells)), Missing: make([]bool, len(cells))}
	for i, v := range cells {
		v = strings.TrimSpace(v)
		col.Texts[i] = v
		col.Missing[i] = v == ""
	}
	return col
}

// NumericColumn builds a numeric column; NaN cells become missing.
func NumericColumn(name string, values []float64) Column {
	col := Column{Name: name, Kind: KindNumeric, Floats: make([]float64, len(values)), Missing: make([]bool, len(values))}
	for i, v := range values {
		col.Floats[i] = v
		col.Missing[i] = math.IsNaN(v)
	}
	return col
}
