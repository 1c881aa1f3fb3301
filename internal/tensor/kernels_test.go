package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withParallelism(t *testing.T, workers, minChunk int) {
	t.Helper()
	prev := kernels
	SetParallelism(workers, minChunk)
	t.Cleanup(func() { kernels = prev })
}

func TestParallelKernelsMatchSequential(t *testing.T) {
	const rows, cols = 64, 50
	m := matrix(t, rows, cols)
	tr, err := NewView(m.Storage(), WithShape(cols, rows), WithStrides(1, cols))
	require.NoError(t, err)
	mask := make([]bool, rows)
	for i := range mask {
		mask[i] = i%3 == 0
	}

	run := func() (contig, strided, gathered []int64) {
		sum, err := Add(m, m)
		require.NoError(t, err)
		contig, _ = ValuesOf[int64](sum)

		sum, err = Add(tr, tr)
		require.NoError(t, err)
		strided, _ = ValuesOf[int64](sum)

		sel, err := m.Select(Where(mask...), Take(49, 0, 7))
		require.NoError(t, err)
		gathered, _ = ValuesOf[int64](sel)
		return contig, strided, gathered
	}

	withParallelism(t, 1, 1)
	c1, s1, g1 := run()

	SetParallelism(8, 16)
	c2, s2, g2 := run()

	assert.Equal(t, c1, c2)
	assert.Equal(t, s1, s2)
	assert.Equal(t, g1, g2)
	assert.Equal(t, int64(2*(rows*cols-1)), c2[len(c2)-1])
}

func TestParallelBoolAdd(t *testing.T) {
	withParallelism(t, 4, 2)
	bools := make([]bool, 100)
	for i := range bools {
		bools[i] = i%2 == 0
	}
	sum, err := Add(VectorOf(bools), VectorOf(bools))
	require.NoError(t, err)
	vals, _ := ValuesOf[int64](sum)
	for i, v := range vals {
		want := int64(0)
		if i%2 == 0 {
			want = 2
		}
		assert.Equal(t, want, v, "element %d", i)
	}
}
