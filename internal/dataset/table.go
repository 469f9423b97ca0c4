package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind describes how a column stores its values.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a single homogeneous column. Numeric columns use NaN for missing
// values; categorical columns use the empty string.
type Column struct {
	Name string
	Kind Kind
	Nums []float64
	Cats []string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Nums)
	}
	return len(c.Cats)
}

// Missing reports whether row i holds no value.
func (c *Column) Missing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Nums[i])
	}
	return c.Cats[i] == ""
}

// MissingCount returns how many rows hold no value.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.Missing(i) {
			n++
		}
	}
	return n
}

// Integral reports whether every present value is a whole number.
func (c *Column) Integral() bool {
	if c.Kind != Numeric {
		return false
	}
	for _, v := range c.Nums {
		if math.IsNaN(v) {
			continue
		}
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Format renders row i as text; missing values render as "".
func (c *Column) Format(i int) string {
	if c.Kind == Categorical {
		return c.Cats[i]
	}
	v := c.Nums[i]
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c *Column) clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Nums != nil {
		out.Nums = append([]float64(nil), c.Nums...)
	}
	if c.Cats != nil {
		out.Cats = append([]string(nil), c.Cats...)
	}
	return out
}

// Table is an ordered, column-oriented set of rows.
type Table struct {
	Name    string
	Columns []*Column
	index   map[string]int
}

// NewTable builds a table from columns which must all have the same length.
func NewTable(name string, cols ...*Column) (*Table, error) {
	t := &Table{Name: name}
	for _, c := range cols {
		if err := t.add(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(c *Column) error {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if _, dup := t.index[c.Name]; dup {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(t.Columns) > 0 && c.Len() != t.Rows() {
		return fmt.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.Rows())
	}
	t.index[c.Name] = len(t.Columns)
	t.Columns = append(t.Columns, c)
	return nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return t.Columns[i], nil
}

// Has reports whether the table contains the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{Name: t.Name}
	for _, c := range t.Columns {
		_ = out.add(c.clone())
	}
	return out
}

// Filter returns a new table holding only the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([]int, 0, t.Rows())
	for i := 0; i < t.Rows(); i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	out := &Table{Name: t.Name}
	for _, c := range t.Columns {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == Numeric {
			nc.Nums = make([]float64, len(rows))
			for j, r := range rows {
				nc.Nums[j] = c.Nums[r]
			}
		} else {
			nc.Cats = make([]string, len(rows))
			for j, r := range rows {
				nc.Cats[j] = c.Cats[r]
			}
		}
		_ = out.add(nc)
	}
	return out
}

// RowKey renders row i as a single string usable for equality checks.
// Missing values of either kind compare equal to each other.
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for j, c := range t.Columns {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(c.Format(i))
	}
	return b.String()
}

// Row returns row i rendered as text, in column order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Format(i)
	}
	return out
}
