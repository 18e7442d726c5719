package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueNull(t *testing.T) {
	v := Null()
	assert.True(t, v.IsNull())
	assert.True(t, v.Equal(Null()))
	assert.False(t, v.Equal(Int(0)))
	assert.Equal(t, "NULL", v.String())

	// The zero value is null too.
	var zero Value
	assert.True(t, zero.IsNull())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(7).Equal(Int(7)))
	assert.False(t, Int(7).Equal(Int(8)))
	assert.True(t, Text("a").Equal(Text("a")))
	assert.False(t, Text("a").Equal(Int(7)))
	assert.True(t, Bool(true).Equal(Bool(true)))

	now := time.Now()
	assert.True(t, Timestamp(now).Equal(Timestamp(now)))
}

func TestValueCoerceInt(t *testing.T) {
	n, ok, err := Int(42).CoerceInt()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	n, ok, err = Text(" 1234 ").CoerceInt()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1234), n)

	_, ok, err = Null().CoerceInt()
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Text("abc").CoerceInt()
	assert.Error(t, err)

	_, _, err = Bool(true).CoerceInt()
	assert.Error(t, err)
}

func TestTableColumnIndex(t *testing.T) {
	table := NewTable([]Column{
		{Name: "a", Type: TypeInteger},
		{Name: "b", Type: TypeText},
	})

	assert.Equal(t, 0, table.ColumnIndex("a"))
	assert.Equal(t, 1, table.ColumnIndex("b"))
	assert.Equal(t, -1, table.ColumnIndex("missing"))
	assert.Equal(t, []string{"a", "b"}, table.ColumnNames())
}

func TestTableAppendRowArity(t *testing.T) {
	table := NewTable([]Column{{Name: "a", Type: TypeInteger}})

	require.NoError(t, table.AppendRow([]Value{Int(1)}))
	assert.Error(t, table.AppendRow([]Value{Int(1), Int(2)}))
	assert.Equal(t, 1, table.NumRows())
}

func TestTableClone(t *testing.T) {
	table := NewTable([]Column{{Name: "a", Type: TypeInteger}})
	require.NoError(t, table.AppendRow([]Value{Int(1)}))

	clone := table.Clone()
	clone.Rows[0][0] = Int(99)
	clone.Columns[0].Name = "renamed"

	assert.True(t, table.Rows[0][0].Equal(Int(1)))
	assert.Equal(t, "a", table.Columns[0].Name)
}

func TestNodeProgressPercentage(t *testing.T) {
	p := &NodeProgress{Current: 1, Total: 4}
	assert.Equal(t, 25, p.Percentage())

	empty := &NodeProgress{}
	assert.Equal(t, 0, empty.Percentage())
}
