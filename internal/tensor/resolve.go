package tensor

import (
	"fmt"

	"github.com/rlowrance/python-unified-containers/internal/metrics"
)

// Result is what indexing a View produces: either a Scalar or a View.
type Result struct {
	scalar Scalar
	view   *View
}

// IsScalar reports whether the result is a single element.
func (r Result) IsScalar() bool { return r.view == nil }

// Scalar returns the element when IsScalar is true.
func (r Result) Scalar() Scalar { return r.scalar }

// View returns the view when IsScalar is false.
func (r Result) View() *View { return r.view }

// String returns the string form of whichever value the result holds.
func (r Result) String() string {
	if r.IsScalar() {
		return r.scalar.String()
	}
	return r.view.String()
}

// axis is one dimension of a resolved selection.
type axis struct {
	form      Form
	extent    int   // dimension extent in the source view
	positions []int // selected positions in selection order; nil for Full
}

// count is the number of positions the axis selects.
func (a axis) count() int {
	if a.form == Full {
		return a.extent
	}
	return len(a.positions)
}

// at returns the i-th selected position.
func (a axis) at(i int) int {
	if a.form == Full {
		return i
	}
	return a.positions[i]
}

// fancy reports whether any axis needs a gather to be expressed.
func fancy(axes []axis) bool {
	for _, a := range axes {
		if a.form == List || a.form == Mask {
			return true
		}
	}
	return false
}

// selectionShape is the extent of every non-collapsed axis.
func selectionShape(axes []axis) Shape {
	shape := Shape{}
	for _, a := range axes {
		if a.form != Single {
			shape = append(shape, a.count())
		}
	}
	return shape
}

// resolve validates idx against the view and classifies each dimension.
// Missing trailing indexes select the full dimension.
func (v *View) resolve(op string, idx []Index) ([]axis, error) {
	if len(idx) > v.Rank() {
		return nil, errorf(IndexShapeError, op, "%d indexes for a view of rank %d", len(idx), v.Rank())
	}
	axes := make([]axis, v.Rank())
	for d := range axes {
		ix := All()
		if d < len(idx) {
			ix = idx[d]
		}
		n := v.shape[d]
		a := axis{form: ix.form, extent: n}
		switch ix.form {
		case Full:
		case Single:
			if err := checkBounds(op, d, ix.pos, n); err != nil {
				return nil, err
			}
			a.positions = []int{ix.pos}
		case List:
			for _, p := range ix.positions {
				if err := checkBounds(op, d, p, n); err != nil {
					return nil, err
				}
			}
			a.positions = ix.positions
		case Mask:
			if ix.maskLen != n {
				return nil, errorf(IndexShapeError, op,
					"mask of length %d does not match dimension %d of extent %d", ix.maskLen, d, n)
			}
			a.positions = make([]int, 0, ix.mask.GetCardinality())
			it := ix.mask.Iterator()
			for it.HasNext() {
				a.positions = append(a.positions, int(it.Next()))
			}
		default:
			return nil, errorf(IndexShapeError, op, "unknown index form %d", ix.form)
		}
		axes[d] = a
	}
	return axes, nil
}

func checkBounds(op string, dim, pos, extent int) error {
	if pos < 0 || pos >= extent {
		return &Error{
			Code:   IndexOutOfRange,
			Op:     op,
			Value:  fmt.Sprint(pos),
			Detail: fmt.Sprintf("dimension %d has extent %d", dim, extent),
		}
	}
	return nil
}

// selectAddresses lists the storage address of every selected element: the
// cross product of the per-axis selections, in row-major order.
func (v *View) selectAddresses(axes []axis) []int {
	n := 1
	for _, a := range axes {
		n *= a.count()
	}
	addrs := make([]int, 0, n)
	if n == 0 {
		return addrs
	}
	rank := len(axes)
	cursor := make([]int, rank)
	base := v.base()
	for {
		addr := base
		for d, a := range axes {
			addr += a.at(cursor[d]) * v.strides[d]
		}
		addrs = append(addrs, addr)
		d := rank - 1
		for ; d >= 0; d-- {
			cursor[d]++
			if cursor[d] < axes[d].count() {
				break
			}
			cursor[d] = 0
		}
		if d < 0 {
			return addrs
		}
	}
}

// Get resolves idx against the view.
//
// If every index is Single or Full the result shares v's storage: Single
// dimensions collapse, Full dimensions keep their extent and stride, and if
// every dimension collapses the result is a Scalar. If any index is a List or
// Mask the selection is the cross product of the per-dimension selections,
// gathered into a new storage; the result no longer aliases v.
//
// Example:
//
//	m, _ := tensor.NewMatrix(s, tensor.WithShape(3, 4))
//	row, _ := m.Get(tensor.At(1))                      // vector sharing s
//	sub, _ := m.Get(tensor.Take(0, 2), tensor.At(1))   // materialized copy
func (v *View) Get(idx ...Index) (Result, error) {
	const op = "view get"
	if err := v.checkLive(op); err != nil {
		return Result{}, err
	}
	axes, err := v.resolve(op, idx)
	if err != nil {
		return Result{}, err
	}
	if fancy(axes) {
		return Result{view: v.gatherSelection(axes)}, nil
	}

	extra := 0
	var (
		shape   Shape
		offsets []int
		strides []int
	)
	for d, a := range axes {
		if a.form == Single {
			extra += v.offsets[d] + a.positions[0]*v.strides[d]
			continue
		}
		shape = append(shape, v.shape[d])
		offsets = append(offsets, v.offsets[d])
		strides = append(strides, v.strides[d])
	}
	if len(shape) == 0 {
		s := Scalar{kind: v.Kind(), value: v.storage.at(extra)}
		if v.name != "" {
			s = s.WithName(v.name)
		}
		return Result{scalar: s}, nil
	}
	offsets[0] += extra
	return Result{view: newView(v.storage, shape, offsets, strides, v.name)}, nil
}

func (v *View) gatherSelection(axes []axis) *View {
	addrs := v.selectAddresses(axes)
	shape := selectionShape(axes)
	s := v.storage.gather(addrs, metrics.ReasonGather)
	logger.Debug("selection materialized",
		"source", v.storage.id.String(), "target", s.id.String(), "shape", []int(shape))
	return newView(s, shape, make([]int, len(shape)), shape.ComputeStrides(), v.name)
}

// At returns the element at the given position, one index per dimension.
func (v *View) At(pos ...int) (Scalar, error) {
	if len(pos) != v.Rank() {
		return Scalar{}, errorf(IndexShapeError, "view at", "%d positions for a view of rank %d", len(pos), v.Rank())
	}
	r, err := v.Get(singles(pos)...)
	if err != nil {
		return Scalar{}, err
	}
	return r.Scalar(), nil
}

// Select is Get for selections that must produce a view.
// A selection collapsing every dimension fails with IndexShapeError.
func (v *View) Select(idx ...Index) (*View, error) {
	r, err := v.Get(idx...)
	if err != nil {
		return nil, err
	}
	if r.IsScalar() {
		return nil, errorf(IndexShapeError, "view select", "selection collapses to a scalar")
	}
	return r.View(), nil
}

// Index is Get with loosely typed index expressions; see ParseIndex.
func (v *View) Index(idx ...any) (Result, error) {
	parsed, err := parseAll(idx)
	if err != nil {
		return Result{}, err
	}
	return v.Get(parsed...)
}

// Count returns how many elements idx selects, without reading or writing any.
func (v *View) Count(idx ...Index) (int, error) {
	const op = "view count"
	if err := v.checkLive(op); err != nil {
		return 0, err
	}
	axes, err := v.resolve(op, idx)
	if err != nil {
		return 0, err
	}
	n := 1
	for _, a := range axes {
		n *= a.count()
	}
	return n, nil
}

// Set assigns value to every element idx selects, writing through to v's storage.
//
// value is either a single Scalar or native value, broadcast to every selected
// element, or a *View holding exactly one element per selected position,
// assigned in selection order. Its kind must equal v's kind
// (ValueKindMismatch); any other shape fails with ShapeMismatch. Nothing is
// written unless the whole call is valid.
//
// Selecting rows and a column in a single call writes through to v. Selecting
// rows first with Get or Select and then assigning into that result does not:
// a List or Mask selection is a copy, so the write lands in the copy and v is
// unchanged.
func (v *View) Set(value any, idx ...Index) error {
	const op = "view set"
	if err := v.checkLive(op); err != nil {
		return err
	}
	axes, err := v.resolve(op, idx)
	if err != nil {
		return err
	}
	addrs := v.selectAddresses(axes)
	source, err := v.assignment(op, value, len(addrs), selectionShape(axes))
	if err != nil {
		return err
	}
	for i, a := range addrs {
		v.storage.put(a, source(i))
	}
	return nil
}

// SetAt assigns value to the element at the given position, one index per dimension.
func (v *View) SetAt(value any, pos ...int) error {
	if len(pos) != v.Rank() {
		return errorf(IndexShapeError, "view set at", "%d positions for a view of rank %d", len(pos), v.Rank())
	}
	return v.Set(value, singles(pos)...)
}

// Assign is Set with loosely typed index expressions; see ParseIndex.
func (v *View) Assign(value any, idx ...any) error {
	parsed, err := parseAll(idx)
	if err != nil {
		return err
	}
	return v.Set(value, parsed...)
}

// assignment validates value against a selection of n elements and returns a
// function yielding the canonical value for the i-th selected element.
// Vector sources are snapshotted so overlapping source and target views behave.
func (v *View) assignment(op string, value any, n int, shape Shape) (func(int) any, error) {
	src, ok := value.(*View)
	if !ok {
		c, err := coerce(op, v.Kind(), value)
		if err != nil && isSequence(value) {
			return nil, &Error{Code: ShapeMismatch, Op: op, Value: describe(value),
				Detail: fmt.Sprintf("a %T is neither a scalar nor a vector view", value)}
		}
		if err != nil {
			return nil, err
		}
		return func(int) any { return c }, nil
	}
	if src == nil {
		return nil, errorf(ShapeMismatch, op, "value view is nil")
	}
	if err := src.checkLive(op); err != nil {
		return nil, err
	}
	if src.Kind() != v.Kind() {
		return nil, kindMismatch(op, src.Kind(), v.Kind())
	}
	if src.Size() != n || (src.Rank() != 1 && !src.shape.Equal(shape)) {
		return nil, &Error{
			Code:   ShapeMismatch,
			Op:     op,
			Detail: fmt.Sprintf("value of shape %v cannot fill a selection of shape %v", []int(src.shape), []int(shape)),
		}
	}
	vals, err := src.Values()
	if err != nil {
		return nil, err
	}
	return func(i int) any { return vals[i] }, nil
}

func singles(pos []int) []Index {
	idx := make([]Index, len(pos))
	for i, p := range pos {
		idx[i] = At(p)
	}
	return idx
}

func parseAll(raw []any) ([]Index, error) {
	out := make([]Index, len(raw))
	for i, x := range raw {
		ix, err := ParseIndex(x)
		if err != nil {
			return nil, err
		}
		out[i] = ix
	}
	return out, nil
}
