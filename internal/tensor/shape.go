package tensor

import (
	"fmt"
	"math"
	"slices"
)

// Shape represents the extent of each dimension of a view.
type Shape []int

// NumElements returns the total number of elements covered by the shape.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that the shape has at least one dimension, no negative extents,
// and an element count that fits in an int. Zero extents are allowed and describe
// an empty view.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("rank must be at least 1")
	}
	n := 1
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
		var ok bool
		if n, ok = mulInt(n, dim); !ok {
			return fmt.Errorf("element count of %v overflows int", []int(s))
		}
	}
	return nil
}

// mulInt returns a*b and whether the product fits in an int.
func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	c := a * b
	return c, c/b == a
}

// addInt returns a+b and whether the sum fits in an int.
func addInt(a, b int) (int, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

// Equal reports whether both shapes have the same extents.
func (s Shape) Equal(other Shape) bool {
	return slices.Equal(s, other)
}

// Clone returns a copy of the shape. The copy of a nil shape is empty, not nil.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}
