package tensor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlowrance/python-unified-containers/internal/metrics"
)

func TestAddContiguous(t *testing.T) {
	before := metrics.Allocations(metrics.ReasonOp)

	sum, err := Add(VectorOf([]int64{1, 2, 3}), VectorOf([]int64{10, 20, 30}))
	require.NoError(t, err)
	vals, _ := ValuesOf[int64](sum)
	assert.Equal(t, []int64{11, 22, 33}, vals)
	assert.True(t, sum.IsContiguous())
	assert.Equal(t, before+1, metrics.Allocations(metrics.ReasonOp))

	f, err := Add(VectorOf([]float64{0.5}), VectorOf([]float64{0.25}))
	require.NoError(t, err)
	fv, _ := ValuesOf[float64](f)
	assert.Equal(t, []float64{0.75}, fv)

	d, err := Add(VectorOf([]time.Duration{time.Second}), VectorOf([]time.Duration{time.Minute}))
	require.NoError(t, err)
	dv, _ := ValuesOf[time.Duration](d)
	assert.Equal(t, []time.Duration{61 * time.Second}, dv)

	s, err := Add(VectorOf([]string{"a", "b"}), VectorOf([]string{"x", "y"}))
	require.NoError(t, err)
	sv, _ := ValuesOf[string](s)
	assert.Equal(t, []string{"ax", "by"}, sv)
}

func TestAddBoolWidens(t *testing.T) {
	sum, err := Add(VectorOf([]bool{true, true, false}), VectorOf([]bool{true, false, false}))
	require.NoError(t, err)
	assert.Equal(t, Int64, sum.Kind())
	vals, _ := ValuesOf[int64](sum)
	assert.Equal(t, []int64{2, 1, 0}, vals)
}

func TestAddStrided(t *testing.T) {
	m := matrix(t, 3, 3)
	tr, err := NewView(m.Storage(), WithShape(3, 3), WithStrides(1, 3))
	require.NoError(t, err)

	sum, err := Add(m, tr)
	require.NoError(t, err)
	vals, _ := ValuesOf[int64](sum)
	assert.Equal(t, []int64{0, 4, 8, 4, 8, 12, 8, 12, 16}, vals)

	col, err := m.Select(All(), At(1))
	require.NoError(t, err)
	sum, err = Add(col, VectorOf([]int64{1, 1, 1}))
	require.NoError(t, err)
	vals, _ = ValuesOf[int64](sum)
	assert.Equal(t, []int64{2, 5, 8}, vals)

	bools, err := NewVector(FromSlice([]bool{true, false, true, false}), WithShape(2), WithStrides(2))
	require.NoError(t, err)
	sum, err = Add(bools, bools)
	require.NoError(t, err)
	vals, _ = ValuesOf[int64](sum)
	assert.Equal(t, []int64{2, 2}, vals)
}

func TestAddOffsetContiguous(t *testing.T) {
	s := FromSlice(iota64(6))
	tail, err := NewVector(s, WithShape(3), WithOffsets(3))
	require.NoError(t, err)
	sum, err := Add(tail, tail)
	require.NoError(t, err)
	vals, _ := ValuesOf[int64](sum)
	assert.Equal(t, []int64{6, 8, 10}, vals)
}

func TestAddErrors(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		a, b *View
		want error
	}{
		{"kinds differ", VectorOf([]int64{1}), VectorOf([]float64{1}), ErrTypeMismatch},
		{"shapes differ", VectorOf([]int64{1, 2}), VectorOf([]int64{1}), ErrShapeMismatch},
		{"datetime", VectorOf([]time.Time{now}), VectorOf([]time.Time{now}), ErrArithmeticUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Add(tt.a, tt.b)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	obj, err := NewStorage(1, Object)
	require.NoError(t, err)
	ov, err := NewVector(obj)
	require.NoError(t, err)
	_, err = Add(ov, ov)
	assert.ErrorIs(t, err, ErrArithmeticUnsupported)

	released := VectorOf([]int64{1})
	released.Release()
	_, err = Add(released, VectorOf([]int64{1}))
	assert.ErrorIs(t, err, ErrReleased)
}
