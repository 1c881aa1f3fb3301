package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexConstructors(t *testing.T) {
	assert.Equal(t, Full, Index{}.Form())
	assert.Equal(t, Full, All().Form())
	assert.Equal(t, -1, All().Count())

	assert.Equal(t, Single, At(3).Form())
	assert.Equal(t, 1, At(3).Count())

	src := []int{2, 0, 2}
	take := Take(src...)
	src[0] = 9
	assert.Equal(t, List, take.Form())
	assert.Equal(t, 3, take.Count())
	assert.Equal(t, "Take[2 0 2]", take.String(), "Take copies its positions")

	w := Where(true, false, true, true)
	assert.Equal(t, Mask, w.Form())
	assert.Equal(t, 3, w.Count())
	assert.Equal(t, []bool{true, false, true, true}, w.Bools())
	assert.Nil(t, take.Bools())
}

func TestMaskAlgebra(t *testing.T) {
	a := Where(true, true, false, false)
	b := Where(true, false, true, false)

	and, err := a.And(b)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false, false}, and.Bools())

	or, err := a.Or(b)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, false}, or.Bools())

	not, err := a.Not()
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true, true}, not.Bools())
	assert.Equal(t, []bool{true, true, false, false}, a.Bools(), "Not leaves its receiver intact")

	_, err = a.And(Where(true))
	assert.ErrorIs(t, err, ErrIndexShape)
	_, err = a.Or(Take(1))
	assert.ErrorIs(t, err, ErrIndexShape)
	_, err = At(0).Not()
	assert.ErrorIs(t, err, ErrIndexShape)
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name  string
		input any
		form  Form
		want  string
	}{
		{"index", At(2), Single, "At(2)"},
		{"nil", nil, Full, "All()"},
		{"int", 4, Single, "At(4)"},
		{"int32", int32(1), Single, "At(1)"},
		{"int64", int64(5), Single, "At(5)"},
		{"scalar", Of(int64(3)), Single, "At(3)"},
		{"int slice", []int{3, 1}, List, "Take[3 1]"},
		{"int64 slice", []int64{0, 0}, List, "Take[0 0]"},
		{"bool slice", []bool{true, false}, Mask, "Where(1 of 2)"},
		{"any ints", []any{1, 2}, List, "Take[1 2]"},
		{"any bools", []any{false, true, true}, Mask, "Where(2 of 3)"},
		{"empty any", []any{}, List, "Take[]"},
		{"bool storage", FromSlice([]bool{true, true}), Mask, "Where(2 of 2)"},
		{"int64 vector", VectorOf([]int64{2, 0}), List, "Take[2 0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := ParseIndex(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.form, ix.Form())
			assert.Equal(t, tt.want, ix.String())
		})
	}
}

func TestParseIndexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"float", 1.5},
		{"string", "0"},
		{"float scalar", Of(1.0)},
		{"mixed any", []any{1, true}},
		{"mixed int widths", []any{1, int64(2)}},
		{"string storage", FromSlice([]string{"a"})},
		{"matrix", matrixOf(2, 2)},
		{"nil storage", (*Storage)(nil)},
		{"nil view", (*View)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIndex(tt.input)
			assert.ErrorIs(t, err, ErrIndexShape)
		})
	}
}

func matrixOf(rows, cols int) *View {
	s := FromSlice(iota64(rows * cols))
	return newView(s, Shape{rows, cols}, []int{0, 0}, Shape{rows, cols}.ComputeStrides(), "")
}
