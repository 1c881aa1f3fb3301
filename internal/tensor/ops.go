package tensor

import (
	"time"

	"github.com/rlowrance/python-unified-containers/internal/metrics"
	"github.com/rlowrance/python-unified-containers/internal/parallel"
)

// Add returns the elementwise sum of two views of equal kind and shape as a new
// contiguous view. Per-element rules are those of Scalar.Add: Bool + Bool
// yields Int64, DateTime and Object fail with ArithmeticUnsupported.
//
// When both operands are contiguous the kernel walks the raw buffers directly;
// otherwise it follows each view's strides. Large operands are split across
// goroutines; see SetParallelism.
func Add(a, b *View) (*View, error) {
	const op = "add"
	if err := a.checkLive(op); err != nil {
		return nil, err
	}
	if err := b.checkLive(op); err != nil {
		return nil, err
	}
	if a.Kind() != b.Kind() {
		return nil, &Error{Code: TypeMismatch, Op: op, Detail: "operand kinds differ",
			Value: b.Kind().String(), Expected: []Kind{a.Kind()}}
	}
	if !a.shape.Equal(b.shape) {
		return nil, errorf(ShapeMismatch, op, "shapes differ: %v vs %v", []int(a.shape), []int(b.shape))
	}
	kind := a.Kind()
	if kind == DateTime || kind == Object {
		return nil, errorf(ArithmeticUnsupported, op, "cannot add values of kind %s", kind)
	}

	n := a.Size()
	out := allocStorage(sumKind(kind), n, metrics.ReasonOp)
	sa, aok := a.rawRange()
	sb, bok := b.rawRange()
	if aok && bok {
		parallel.Ranges(n, kernels, func(lo, hi int) {
			addContiguous(out, a.storage, b.storage, sa+lo, sb+lo, lo, hi)
		})
	} else {
		aa, ba := a.addresses(), b.addresses()
		parallel.Ranges(n, kernels, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				// Kinds without addition were rejected above.
				sum, _, _ := addValues(kind, a.storage.at(aa[i]), b.storage.at(ba[i]))
				out.put(i, sum)
			}
		})
	}
	return newView(out, a.shape.Clone(), make([]int, a.Rank()), a.shape.ComputeStrides(), a.name), nil
}

// addContiguous writes out[lo:hi] from the raw buffers of a and b starting at sa and sb.
func addContiguous(out, a, b *Storage, sa, sb, lo, hi int) {
	n := hi - lo
	switch a.kind {
	case Bool:
		x, y := a.buf.bools[sa:sa+n], b.buf.bools[sb:sb+n]
		dst := out.buf.ints[lo:hi]
		for i := range dst {
			dst[i] = boolToInt(x[i]) + boolToInt(y[i])
		}
	case Int64:
		addSlices(out.buf.ints[lo:hi], a.buf.ints[sa:sa+n], b.buf.ints[sb:sb+n])
	case Float64:
		addSlices(out.buf.floats[lo:hi], a.buf.floats[sa:sa+n], b.buf.floats[sb:sb+n])
	case TimeDelta:
		addSlices(out.buf.deltas[lo:hi], a.buf.deltas[sa:sa+n], b.buf.deltas[sb:sb+n])
	case String:
		addSlices(out.buf.strs[lo:hi], a.buf.strs[sa:sa+n], b.buf.strs[sb:sb+n])
	}
}

func addSlices[T int64 | float64 | time.Duration | string](dst, x, y []T) {
	for i := range dst {
		dst[i] = x[i] + y[i]
	}
}

// Fill assigns value to every element of the view, writing through to its storage.
func (v *View) Fill(value any) error {
	return v.Set(value)
}
