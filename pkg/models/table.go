package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ColumnType is the closed set of scalar types a dataset column can hold.
type ColumnType string

const (
	TypeInteger   ColumnType = "integer"
	TypeText      ColumnType = "text"
	TypeBoolean   ColumnType = "boolean"
	TypeTimestamp ColumnType = "timestamp"
)

// ValidColumnTypes contains all valid column type values.
var ValidColumnTypes = []ColumnType{
	TypeInteger,
	TypeText,
	TypeBoolean,
	TypeTimestamp,
}

// IsValidColumnType checks if the given type is valid.
func IsValidColumnType(t ColumnType) bool {
	for _, v := range ValidColumnTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Value is a nullable scalar cell. The zero value is null.
type Value struct {
	valid bool
	typ   ColumnType
	i     int64
	s     string
	b     bool
	t     time.Time
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Int returns an integer value.
func Int(v int64) Value {
	return Value{valid: true, typ: TypeInteger, i: v}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{valid: true, typ: TypeText, s: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{valid: true, typ: TypeBoolean, b: b}
}

// Timestamp returns a timestamp value.
func Timestamp(t time.Time) Value {
	return Value{valid: true, typ: TypeTimestamp, t: t}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return !v.valid
}

// Type returns the scalar type of a non-null value. Null values have no type.
func (v Value) Type() ColumnType {
	return v.typ
}

// Int64 returns the integer payload. Only meaningful when Type() == TypeInteger.
func (v Value) Int64() int64 { return v.i }

// Text returns the text payload. Only meaningful when Type() == TypeText.
func (v Value) Text() string { return v.s }

// String renders the value for diagnostics and error messages.
func (v Value) String() string {
	if !v.valid {
		return "NULL"
	}
	switch v.typ {
	case TypeInteger:
		return strconv.FormatInt(v.i, 10)
	case TypeText:
		return v.s
	case TypeBoolean:
		return strconv.FormatBool(v.b)
	case TypeTimestamp:
		return v.t.Format(time.RFC3339)
	}
	return ""
}

// Bool returns the boolean payload. Only meaningful when Type() == TypeBoolean.
func (v Value) Bool() bool { return v.b }

// Time returns the timestamp payload. Only meaningful when Type() == TypeTimestamp.
func (v Value) Time() time.Time { return v.t }

// Equal reports whether two values are equal (null == null).
func (v Value) Equal(o Value) bool {
	if v.valid != o.valid {
		return false
	}
	if !v.valid {
		return true
	}
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeInteger:
		return v.i == o.i
	case TypeText:
		return v.s == o.s
	case TypeBoolean:
		return v.b == o.b
	case TypeTimestamp:
		return v.t.Equal(o.t)
	}
	return false
}

// CoerceInt converts the value to an integer where possible: integers pass
// through, text is parsed after trimming whitespace. The second result is
// false for null values, the error is non-nil when the value exists but
// cannot represent an integer.
func (v Value) CoerceInt() (int64, bool, error) {
	if !v.valid {
		return 0, false, nil
	}
	switch v.typ {
	case TypeInteger:
		return v.i, true, nil
	case TypeText:
		n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("value %q is not an integer", v.s)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("value of type %s is not an integer", v.typ)
	}
}

// Column describes one column of a table schema.
type Column struct {
	Name string
	Type ColumnType
}

// Table is an ordered sequence of rows over a fixed column schema.
// Row values are positional, aligned with Columns.
type Table struct {
	Columns []Column
	Rows    [][]Value
}

// NewTable creates an empty table with the given schema.
func NewTable(columns []Column) *Table {
	return &Table{Columns: columns, Rows: make([][]Value, 0)}
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the column names in schema order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// AppendRow adds a row. The row arity must match the schema.
func (t *Table) AppendRow(row []Value) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d values, schema has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Clone returns a deep copy of the table. Values are immutable, so only the
// schema and row slices are duplicated.
func (t *Table) Clone() *Table {
	columns := make([]Column, len(t.Columns))
	copy(columns, t.Columns)
	rows := make([][]Value, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]Value, len(r))
		copy(row, r)
		rows[i] = row
	}
	return &Table{Columns: columns, Rows: rows}
}

// SortRows orders rows by the given comparison function, keeping the
// relative order of equal rows stable.
func (t *Table) SortRows(less func(a, b []Value) bool) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return less(t.Rows[i], t.Rows[j])
	})
}
