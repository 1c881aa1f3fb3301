package tensor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rlowrance/python-unified-containers/internal/metrics"
)

// View is a shape/offset/stride window over a Storage.
//
// The storage address of logical index (k0, k1, ..., kn) is
//
//	sum over d of offsets[d] + k_d*strides[d]
//
// A Vector is a View of rank 1 and a Matrix a View of rank 2; they share every
// algorithm. Views over the same storage alias each other: a write through one is
// visible through all. Views are not safe for concurrent mutation.
type View struct {
	storage  *Storage
	shape    Shape
	offsets  []int
	strides  []int
	name     string
	released bool
}

// ViewOption configures view construction.
type ViewOption func(*viewConfig)

type viewConfig struct {
	shape   Shape
	offsets []int
	strides []int
	name    string
}

// WithShape sets the view's extent per dimension. Defaults to a rank-1 view of the whole storage.
func WithShape(dims ...int) ViewOption {
	return func(c *viewConfig) { c.shape = Shape(dims).Clone() }
}

// WithOffsets sets the per-dimension offsets. Defaults to zeros.
func WithOffsets(offsets ...int) ViewOption {
	return func(c *viewConfig) { c.offsets = append([]int(nil), offsets...) }
}

// WithStrides sets the per-dimension strides. Defaults to the row-major strides of the shape.
func WithStrides(strides ...int) ViewOption {
	return func(c *viewConfig) { c.strides = append([]int(nil), strides...) }
}

// WithName labels the view (for example with a column name).
func WithName(name string) ViewOption {
	return func(c *viewConfig) { c.name = name }
}

// NewView creates a view of any rank over s.
//
// Returns ConstructionError if the shape, offsets and strides disagree in
// length, if an extent is negative, or if any covered address falls outside the storage.
//
// Example:
//
//	s := tensor.FromSlice([]int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
//	every, err := tensor.NewView(s, tensor.WithShape(5), tensor.WithStrides(2)) // 0 2 4 6 8
func NewView(s *Storage, opts ...ViewOption) (*View, error) {
	if s == nil {
		return nil, errorf(ConstructionError, "new view", "storage is nil")
	}
	var cfg viewConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.shape == nil {
		cfg.shape = Shape{s.Len()}
	}
	if err := cfg.shape.Validate(); err != nil {
		return nil, errorf(ConstructionError, "new view", "invalid shape %v: %v", cfg.shape, err)
	}
	rank := len(cfg.shape)
	if cfg.offsets == nil {
		cfg.offsets = make([]int, rank)
	}
	if cfg.strides == nil {
		cfg.strides = cfg.shape.ComputeStrides()
	}
	if len(cfg.offsets) != rank || len(cfg.strides) != rank {
		return nil, errorf(ConstructionError, "new view",
			"shape %v, offsets %v and strides %v must all have length %d",
			cfg.shape, cfg.offsets, cfg.strides, rank)
	}
	if err := checkCoverage(s.Len(), cfg.shape, cfg.offsets, cfg.strides); err != nil {
		return nil, err
	}
	return newView(s, cfg.shape, cfg.offsets, cfg.strides, cfg.name), nil
}

// NewVector creates a rank-1 view over s.
func NewVector(s *Storage, opts ...ViewOption) (*View, error) {
	v, err := NewView(s, opts...)
	if err != nil {
		return nil, err
	}
	if v.Rank() != 1 {
		v.Release()
		return nil, errorf(ConstructionError, "new vector", "rank must be 1, got %d", v.Rank())
	}
	return v, nil
}

// NewMatrix creates a rank-2 view over s. A shape must be given.
func NewMatrix(s *Storage, opts ...ViewOption) (*View, error) {
	v, err := NewView(s, opts...)
	if err != nil {
		return nil, err
	}
	if v.Rank() != 2 {
		v.Release()
		return nil, errorf(ConstructionError, "new matrix", "rank must be 2, got %d", v.Rank())
	}
	return v, nil
}

// VectorOf builds a fresh storage from values and returns a vector over all of it.
func VectorOf[T Element](values []T) *View {
	s := FromSlice(values)
	return newView(s, Shape{s.Len()}, []int{0}, []int{1}, "")
}

// checkCoverage verifies every address reachable through the layout lies in [0, length).
// Shape must already be validated. Layouts whose address arithmetic overflows are rejected.
func checkCoverage(length int, shape Shape, offsets, strides []int) error {
	if shape.NumElements() == 0 {
		return nil
	}
	lo, hi := 0, 0
	ok := true
	for d := range shape {
		last, fits := mulInt(shape[d]-1, strides[d])
		ok = ok && fits
		var a, b bool
		lo, a = addInt(lo, offsets[d])
		hi, b = addInt(hi, offsets[d])
		ok = ok && a && b
		lo, a = addInt(lo, min(0, last))
		hi, b = addInt(hi, max(0, last))
		ok = ok && a && b
		if !ok {
			return errorf(ConstructionError, "new view",
				"layout shape=%v offsets=%v strides=%v overflows the address range", shape, offsets, strides)
		}
	}
	if lo < 0 || hi >= length {
		return errorf(ConstructionError, "new view",
			"layout shape=%v offsets=%v strides=%v reaches addresses [%d, %d] outside storage of length %d",
			shape, offsets, strides, lo, hi, length)
	}
	return nil
}

// newView wires a validated layout to s and registers the reference.
func newView(s *Storage, shape Shape, offsets, strides []int, name string) *View {
	s.addRef()
	return &View{
		storage: s,
		shape:   shape,
		offsets: offsets,
		strides: strides,
		name:    name,
	}
}

// Storage returns the backing storage.
func (v *View) Storage() *Storage { return v.storage }

// Kind returns the element kind.
func (v *View) Kind() Kind { return v.storage.kind }

// Rank returns the number of dimensions.
func (v *View) Rank() int { return len(v.shape) }

// Shape returns a copy of the view's shape.
func (v *View) Shape() Shape { return v.shape.Clone() }

// Offsets returns a copy of the per-dimension offsets.
func (v *View) Offsets() []int { return append([]int(nil), v.offsets...) }

// Strides returns a copy of the per-dimension strides.
func (v *View) Strides() []int { return append([]int(nil), v.strides...) }

// Name returns the view's label, or "" if none was given.
func (v *View) Name() string { return v.name }

// SetName relabels the view. Other views over the same storage keep their own names.
func (v *View) SetName(name string) { v.name = name }

// Len returns the extent of the outermost dimension; for a vector, its length.
func (v *View) Len() int { return v.shape[0] }

// Size returns the number of logical elements.
func (v *View) Size() int { return v.shape.NumElements() }

// IsContiguous reports whether the strides equal the canonical row-major strides of the shape.
func (v *View) IsContiguous() bool {
	return slices.Equal(v.strides, v.shape.ComputeStrides())
}

// Released reports whether Release has been called on this view.
func (v *View) Released() bool { return v.released }

// Release drops this view's reference to its storage. Every later operation on
// the view fails with Released. Releasing twice is a no-op.
func (v *View) Release() {
	if v.released {
		return
	}
	v.released = true
	v.storage.release()
}

// Copy returns a new view with the same layout over the same storage.
// Writes through either view are visible through the other.
func (v *View) Copy() (*View, error) {
	if err := v.checkLive("copy"); err != nil {
		return nil, err
	}
	return newView(v.storage, v.shape.Clone(), v.Offsets(), v.Strides(), v.name), nil
}

// DeepCopy materializes the view's logical elements, in row-major order, into a
// new storage and returns a contiguous, zero-offset view over it. The result
// shares nothing with v.
func (v *View) DeepCopy() (*View, error) {
	if err := v.checkLive("deepcopy"); err != nil {
		return nil, err
	}
	return v.materialize(metrics.ReasonDeepCopy), nil
}

// DeepContiguousCopy has the same contract as DeepCopy. It exists so elementwise
// kernels can request a buffer they are guaranteed to walk linearly.
func (v *View) DeepContiguousCopy() (*View, error) {
	if err := v.checkLive("deep contiguous copy"); err != nil {
		return nil, err
	}
	return v.materialize(metrics.ReasonDeepCopy), nil
}

func (v *View) materialize(reason string) *View {
	s := v.storage.gather(v.addresses(), reason)
	shape := v.shape.Clone()
	return newView(s, shape, make([]int, len(shape)), shape.ComputeStrides(), v.name)
}

// Values returns the logical elements in row-major order.
func (v *View) Values() ([]any, error) {
	if err := v.checkLive("values"); err != nil {
		return nil, err
	}
	addrs := v.addresses()
	out := make([]any, len(addrs))
	for i, a := range addrs {
		out[i] = v.storage.at(a)
	}
	return out, nil
}

// ValuesOf returns the logical elements of v as a typed slice.
// Returns ValueKindMismatch if T does not correspond to v's kind.
func ValuesOf[T Element](v *View) ([]T, error) {
	if err := v.checkLive("values"); err != nil {
		return nil, err
	}
	if want := kindOf[T](); want != v.Kind() {
		return nil, kindMismatch("values", v.Kind(), want)
	}
	addrs := v.addresses()
	out := make([]T, len(addrs))
	for i, a := range addrs {
		out[i] = v.storage.at(a).(T)
	}
	return out, nil
}

// Equal reports whether v and other have the same kind, shape and elements.
// Layout and storage identity are ignored. A nil view equals nothing.
func (v *View) Equal(other *View) bool {
	if v == nil || other == nil || v.released || other.released || v.Kind() != other.Kind() || !v.shape.Equal(other.shape) {
		return false
	}
	a, b := v.addresses(), other.addresses()
	for i := range a {
		if !v.Kind().equalValues(v.storage.at(a[i]), other.storage.at(b[i])) {
			return false
		}
	}
	return true
}

// String returns a human-readable representation of the view.
func (v *View) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "View[%s]%v", v.Kind(), []int(v.shape))
	if v.name != "" {
		fmt.Fprintf(&b, " %q", v.name)
	}
	if v.released {
		b.WriteString(" (released)")
		return b.String()
	}
	if v.Size() <= 16 {
		vals, _ := v.Values()
		fmt.Fprintf(&b, " %v", vals)
	}
	return b.String()
}

func (v *View) checkLive(op string) error {
	if v.released {
		return errorf(Released, op, "view over storage %s was released", v.storage.id)
	}
	return nil
}

// base returns the storage address of the first logical element.
func (v *View) base() int {
	b := 0
	for _, o := range v.offsets {
		b += o
	}
	return b
}

// addresses lists the storage address of every logical element in row-major order.
func (v *View) addresses() []int {
	n := v.Size()
	addrs := make([]int, 0, n)
	if n == 0 {
		return addrs
	}
	rank := len(v.shape)
	idx := make([]int, rank)
	addr := v.base()
	for {
		addrs = append(addrs, addr)
		// Odometer increment from the innermost dimension.
		d := rank - 1
		for ; d >= 0; d-- {
			idx[d]++
			addr += v.strides[d]
			if idx[d] < v.shape[d] {
				break
			}
			addr -= idx[d] * v.strides[d]
			idx[d] = 0
		}
		if d < 0 {
			return addrs
		}
	}
}

// rawRange reports whether the view covers storage[base : base+Size] in order,
// so elementwise kernels may walk the buffer directly.
func (v *View) rawRange() (start int, ok bool) {
	if !v.IsContiguous() {
		return 0, false
	}
	return v.base(), true
}
