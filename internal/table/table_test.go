package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlowrance/python-unified-containers/internal/tensor"
)

func column[T tensor.Element](name string, values ...T) *tensor.View {
	v := tensor.VectorOf(values)
	v.SetName(name)
	return v
}

func inventory(t *testing.T) *Table {
	t.Helper()
	tab, err := New(
		column("item", "apple", "pear", "plum", "fig"),
		column("qty", int64(3), int64(0), int64(12), int64(7)),
		column("price", 0.5, 0.75, 0.2, 1.1),
	)
	require.NoError(t, err)
	return tab
}

func TestNew(t *testing.T) {
	tab := inventory(t)
	assert.Equal(t, 4, tab.NumRows())
	assert.Equal(t, 3, tab.NumColumns())
	assert.Equal(t, []string{"item", "qty", "price"}, tab.Columns())

	empty, err := New()
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NumRows())
}

func TestAddColumnErrors(t *testing.T) {
	released := column("gone", int64(1), int64(2), int64(3), int64(4))
	released.Release()

	m, err := tensor.NewMatrix(tensor.FromSlice([]int64{1, 2, 3, 4}), tensor.WithShape(2, 2), tensor.WithName("m"))
	require.NoError(t, err)

	tests := []struct {
		name string
		col  *tensor.View
		want error
	}{
		{"nil", nil, tensor.ErrConstruction},
		{"released", released, tensor.ErrReleased},
		{"matrix", m, tensor.ErrConstruction},
		{"unnamed", tensor.VectorOf([]int64{1, 2, 3, 4}), tensor.ErrConstruction},
		{"duplicate", column("qty", int64(1), int64(2), int64(3), int64(4)), tensor.ErrConstruction},
		{"short", column("extra", int64(1)), tensor.ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := inventory(t)
			assert.ErrorIs(t, tab.AddColumn(tt.col), tt.want)
			assert.Equal(t, 3, tab.NumColumns())
		})
	}
}

func TestColumnIsShared(t *testing.T) {
	qty := column("qty", int64(1), int64(2))
	tab, err := New(qty)
	require.NoError(t, err)

	got, err := tab.Column("qty")
	require.NoError(t, err)
	assert.Same(t, qty, got)

	_, err = tab.Column("nope")
	assert.ErrorIs(t, err, tensor.ErrIndexOutOfRange)
}

func TestRowsByMask(t *testing.T) {
	tab := inventory(t)
	inStock, err := tab.Where("qty", func(s tensor.Scalar) bool { return s.Value().(int64) > 0 })
	require.NoError(t, err)
	cheap, err := tab.Where("price", func(s tensor.Scalar) bool { return s.Value().(float64) < 1 })
	require.NoError(t, err)
	both, err := inStock.And(cheap)
	require.NoError(t, err)

	sel, err := tab.Rows(both)
	require.NoError(t, err)
	assert.Equal(t, 2, sel.NumRows())
	items, _ := sel.Column("item")
	vals, _ := tensor.ValuesOf[string](items)
	assert.Equal(t, []string{"apple", "plum"}, vals)
	assert.Equal(t, "item", items.Name())
}

func TestRowsByList(t *testing.T) {
	tab := inventory(t)
	sel, err := tab.Rows(tensor.Take(3, 0))
	require.NoError(t, err)
	qty, _ := sel.Column("qty")
	vals, _ := tensor.ValuesOf[int64](qty)
	assert.Equal(t, []int64{7, 3}, vals)

	_, err = tab.Rows(tensor.At(0))
	assert.ErrorIs(t, err, tensor.ErrIndexShape)

	_, err = tab.Rows(tensor.Take(9))
	assert.ErrorIs(t, err, tensor.ErrIndexOutOfRange)
}

func TestRowsFullShares(t *testing.T) {
	tab := inventory(t)
	all, err := tab.Rows(tensor.All())
	require.NoError(t, err)
	a, _ := all.Column("qty")
	b, _ := tab.Column("qty")
	assert.Same(t, a.Storage(), b.Storage())
}

func TestRow(t *testing.T) {
	tab := inventory(t)
	row, err := tab.Row(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"item", "qty", "price"}, row.Keys())

	e, err := row.Get("item")
	require.NoError(t, err)
	assert.Equal(t, "plum", e.Scalar().Value())
	name, ok := e.Scalar().Name()
	assert.True(t, ok)
	assert.Equal(t, "item", name)

	_, err = tab.Row(4)
	assert.ErrorIs(t, err, tensor.ErrIndexOutOfRange)
}

func TestSetWritesThrough(t *testing.T) {
	tab := inventory(t)
	empty, err := tab.Where("qty", func(s tensor.Scalar) bool { return s.Value().(int64) == 0 })
	require.NoError(t, err)
	require.NoError(t, tab.Set(empty, "qty", int64(100)))

	qty, _ := tab.Column("qty")
	vals, _ := tensor.ValuesOf[int64](qty)
	assert.Equal(t, []int64{3, 100, 12, 7}, vals)

	assert.ErrorIs(t, tab.Set(tensor.All(), "qty", "many"), tensor.ErrValueKindMismatch)
	assert.ErrorIs(t, tab.Set(tensor.All(), "nope", int64(1)), tensor.ErrIndexOutOfRange)
}

func TestChainedRowsAssignmentIsACopy(t *testing.T) {
	tab := inventory(t)
	sel, err := tab.Rows(tensor.Take(0, 1))
	require.NoError(t, err)
	require.NoError(t, sel.Set(tensor.All(), "qty", int64(-1)))

	qty, _ := tab.Column("qty")
	vals, _ := tensor.ValuesOf[int64](qty)
	assert.Equal(t, []int64{3, 0, 12, 7}, vals)
}

func TestString(t *testing.T) {
	tab, err := New(column("a", "x", "yy"), column("b", int64(1), int64(22)))
	require.NoError(t, err)
	assert.Equal(t, "a   b \nx   1 \nyy  22\n", tab.String())
}

func TestRenamedColumnKeepsTableName(t *testing.T) {
	qty := column("qty", int64(1), int64(2), int64(3))
	tab, err := New(qty)
	require.NoError(t, err)
	qty.SetName("quantity")

	assert.Equal(t, []string{"qty"}, tab.Columns())
	got, err := tab.Column("qty")
	require.NoError(t, err)
	assert.Same(t, qty, got)

	sel, err := tab.Rows(tensor.Take(2, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"qty"}, sel.Columns())
	c, err := sel.Column("qty")
	require.NoError(t, err)
	assert.Equal(t, "qty", c.Name())

	row, err := tab.Row(1)
	require.NoError(t, err)
	e, err := row.Get("qty")
	require.NoError(t, err)
	name, _ := e.Scalar().Name()
	assert.Equal(t, "qty", name)

	require.NoError(t, tab.AddColumn(column("quantity", int64(7), int64(8), int64(9))))
	assert.Equal(t, []string{"qty", "quantity"}, tab.Columns())
}
