package tensor

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Form classifies how an Index selects positions along one dimension.
type Form uint8

// Index forms. The zero Index is Full.
const (
	// Full selects the entire dimension, preserving its stride.
	Full Form = iota
	// Single selects one position and collapses the dimension.
	Single
	// List selects explicit positions in the given order; duplicates are allowed.
	List
	// Mask selects the positions whose mask entry is true, in ascending order.
	Mask
)

// String returns the form name.
func (f Form) String() string {
	switch f {
	case Full:
		return "full"
	case Single:
		return "single"
	case List:
		return "list"
	case Mask:
		return "mask"
	default:
		return "unknown"
	}
}

// Index selects positions along one dimension of a View.
//
// Construct one with At, Take, Where or All, or convert a loosely typed value
// with ParseIndex. Mask selections are held as roaring bitmaps of the true
// positions together with the mask length.
type Index struct {
	form      Form
	pos       int
	positions []int
	mask      *roaring.Bitmap
	maskLen   int
}

// At selects the single position i.
func At(i int) Index {
	return Index{form: Single, pos: i}
}

// Take selects positions in the given order. The slice is copied.
func Take(positions ...int) Index {
	return Index{form: List, positions: append([]int{}, positions...)}
}

// Where selects the positions whose entry in mask is true.
func Where(mask ...bool) Index {
	bm := roaring.New()
	for i, b := range mask {
		if b {
			bm.Add(uint32(i))
		}
	}
	return Index{form: Mask, mask: bm, maskLen: len(mask)}
}

// All selects the whole dimension.
func All() Index {
	return Index{form: Full}
}

// Form returns the index form.
func (ix Index) Form() Form { return ix.form }

// Count returns how many positions the index selects, or -1 for Full,
// whose count depends on the dimension it is applied to.
func (ix Index) Count() int {
	switch ix.form {
	case Single:
		return 1
	case List:
		return len(ix.positions)
	case Mask:
		return int(ix.mask.GetCardinality())
	default:
		return -1
	}
}

// And combines two masks of equal length, selecting positions true in both.
func (ix Index) And(other Index) (Index, error) {
	if err := ix.checkMaskPair("mask and", other); err != nil {
		return Index{}, err
	}
	return Index{form: Mask, mask: roaring.And(ix.mask, other.mask), maskLen: ix.maskLen}, nil
}

// Or combines two masks of equal length, selecting positions true in either.
func (ix Index) Or(other Index) (Index, error) {
	if err := ix.checkMaskPair("mask or", other); err != nil {
		return Index{}, err
	}
	return Index{form: Mask, mask: roaring.Or(ix.mask, other.mask), maskLen: ix.maskLen}, nil
}

// Not inverts a mask.
func (ix Index) Not() (Index, error) {
	if ix.form != Mask {
		return Index{}, errorf(IndexShapeError, "mask not", "index is %s, not mask", ix.form)
	}
	return Index{form: Mask, mask: roaring.Flip(ix.mask, 0, uint64(ix.maskLen)), maskLen: ix.maskLen}, nil
}

func (ix Index) checkMaskPair(op string, other Index) error {
	if ix.form != Mask || other.form != Mask {
		return errorf(IndexShapeError, op, "both indexes must be masks, got %s and %s", ix.form, other.form)
	}
	if ix.maskLen != other.maskLen {
		return errorf(IndexShapeError, op, "mask lengths differ: %d vs %d", ix.maskLen, other.maskLen)
	}
	return nil
}

// Bools expands a mask back to one bool per position. Other forms return nil.
func (ix Index) Bools() []bool {
	if ix.form != Mask {
		return nil
	}
	out := make([]bool, ix.maskLen)
	it := ix.mask.Iterator()
	for it.HasNext() {
		out[it.Next()] = true
	}
	return out
}

// String returns a human-readable representation of the index.
func (ix Index) String() string {
	switch ix.form {
	case Single:
		return fmt.Sprintf("At(%d)", ix.pos)
	case List:
		return fmt.Sprintf("Take%v", ix.positions)
	case Mask:
		return fmt.Sprintf("Where(%d of %d)", ix.mask.GetCardinality(), ix.maskLen)
	default:
		return "All()"
	}
}

// ParseIndex converts a loosely typed index expression into an Index.
//
// Accepted forms:
//   - Index: returned as is
//   - nil: All()
//   - int, int32, int64, or an Int64 Scalar: At
//   - []int, []int32, []int64: Take
//   - []bool: Where
//   - []any: Take if every element is an integer, Where if every element is a bool
//   - *Storage or rank-1 *View of kind Bool: Where; of kind Int64: Take
//
// Anything else, including a []any mixing element types, fails with IndexShapeError.
func ParseIndex(x any) (Index, error) {
	const op = "parse index"
	switch v := x.(type) {
	case Index:
		return v, nil
	case nil:
		return All(), nil
	case int:
		return At(v), nil
	case int32:
		return At(int(v)), nil
	case int64:
		return At(int(v)), nil
	case Scalar:
		if v.Kind() != Int64 {
			return Index{}, &Error{Code: IndexShapeError, Op: op, Value: describe(v), Expected: []Kind{Int64}}
		}
		return At(int(v.Value().(int64))), nil
	case []int:
		return Take(v...), nil
	case []int32:
		return Take(widen(v)...), nil
	case []int64:
		return Take(widen(v)...), nil
	case []bool:
		return Where(v...), nil
	case []any:
		return parseAnySlice(v)
	case *Storage:
		if v == nil {
			return Index{}, errorf(IndexShapeError, op, "index storage is nil")
		}
		return parseElements(op, v.Kind(), v.Values())
	case *View:
		if v == nil {
			return Index{}, errorf(IndexShapeError, op, "index view is nil")
		}
		if err := v.checkLive(op); err != nil {
			return Index{}, err
		}
		if v.Rank() != 1 {
			return Index{}, errorf(IndexShapeError, op, "index view must have rank 1, got %d", v.Rank())
		}
		vals, _ := v.Values()
		return parseElements(op, v.Kind(), vals)
	default:
		return Index{}, &Error{Code: IndexShapeError, Op: op, Value: describe(x), Detail: "unsupported index expression"}
	}
}

func widen[T int32 | int64](xs []T) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = int(x)
	}
	return out
}

func parseElements(op string, kind Kind, vals []any) (Index, error) {
	switch kind {
	case Bool:
		mask := make([]bool, len(vals))
		for i, b := range vals {
			mask[i] = b.(bool)
		}
		return Where(mask...), nil
	case Int64:
		pos := make([]int, len(vals))
		for i, n := range vals {
			pos[i] = int(n.(int64))
		}
		return Take(pos...), nil
	default:
		return Index{}, &Error{Code: IndexShapeError, Op: op, Detail: fmt.Sprintf("cannot index with %s elements", kind),
			Expected: []Kind{Bool, Int64}}
	}
}

// parseAnySlice requires every element to share one element type.
func parseAnySlice(xs []any) (Index, error) {
	const op = "parse index"
	if len(xs) == 0 {
		return Take(), nil
	}
	if _, ok := xs[0].(bool); ok {
		mask := make([]bool, len(xs))
		for i, x := range xs {
			b, ok := x.(bool)
			if !ok {
				return Index{}, heterogeneous(op, i, x, xs[0])
			}
			mask[i] = b
		}
		return Where(mask...), nil
	}
	pos := make([]int, len(xs))
	for i, x := range xs {
		n, ok := Int64.accept(x)
		if !ok || fmt.Sprintf("%T", x) != fmt.Sprintf("%T", xs[0]) {
			return Index{}, heterogeneous(op, i, x, xs[0])
		}
		pos[i] = int(n.(int64))
	}
	return Take(pos...), nil
}

func heterogeneous(op string, i int, got, first any) *Error {
	return &Error{
		Code:   IndexShapeError,
		Op:     op,
		Value:  describe(got),
		Detail: fmt.Sprintf("list index element %d has type %T, expected %T", i, got, first),
	}
}
