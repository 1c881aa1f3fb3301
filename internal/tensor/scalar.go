package tensor

import (
	"fmt"
	"time"
)

// Scalar is a single immutable value tagged with its Kind.
//
// A Scalar is obtained by explicit construction or by indexing a View down to a
// single element. The zero Scalar has InvalidKind and is never returned by a
// successful operation.
type Scalar struct {
	kind  Kind
	value any
	name  string
	named bool
}

// NewScalar creates a Scalar of the given kind.
// Returns TypeMismatch if value is not an accepted representation of kind.
//
// Example:
//
//	s, err := tensor.NewScalar(42, tensor.Int64) // s.Value() == int64(42)
func NewScalar(value any, kind Kind) (Scalar, error) {
	if !kind.Valid() {
		return Scalar{}, errorf(ConstructionError, "scalar", "invalid kind %d", kind)
	}
	canonical, ok := kind.accept(value)
	if !ok {
		return Scalar{}, typeMismatch("scalar", value, kind)
	}
	return Scalar{kind: kind, value: canonical}, nil
}

// NewNamedScalar creates a Scalar carrying a label such as a column name.
// name must be nil (no label) or a string; anything else is a ConstructionError.
func NewNamedScalar(value any, kind Kind, name any) (Scalar, error) {
	s, err := NewScalar(value, kind)
	if err != nil {
		return Scalar{}, err
	}
	switch n := name.(type) {
	case nil:
		return s, nil
	case string:
		return s.WithName(n), nil
	default:
		return Scalar{}, &Error{
			Code:   ConstructionError,
			Op:     "scalar",
			Value:  describe(name),
			Detail: "name must be a string",
		}
	}
}

// MustScalar is like NewScalar but panics on error.
// Intended for literals in tests and examples.
func MustScalar(value any, kind Kind) Scalar {
	s, err := NewScalar(value, kind)
	if err != nil {
		panic(err)
	}
	return s
}

// Of creates a Scalar from a native element, inferring its Kind.
func Of[T Element](value T) Scalar {
	return Scalar{kind: kindOf[T](), value: value}
}

// Kind returns the scalar's kind.
func (s Scalar) Kind() Kind { return s.kind }

// Value returns the canonical native value.
func (s Scalar) Value() any { return s.value }

// Name returns the label and whether one is set.
func (s Scalar) Name() (string, bool) { return s.name, s.named }

// WithName returns a copy of s labelled name.
func (s Scalar) WithName(name string) Scalar {
	s.name = name
	s.named = true
	return s
}

// Equal reports whether s and other have the same kind and value. Names are ignored.
func (s Scalar) Equal(other Scalar) bool {
	if s.kind != other.kind || !s.kind.Valid() {
		return false
	}
	return s.kind.equalValues(s.value, other.value)
}

// Add returns s + other.
//
// Both operands must share a kind (TypeMismatch otherwise). Bool + Bool is the
// only widening case and yields an Int64 count of true operands. DateTime and
// Object do not support addition (ArithmeticUnsupported). String concatenates.
func (s Scalar) Add(other Scalar) (Scalar, error) {
	if s.kind != other.kind {
		return Scalar{}, typeMismatch("scalar add", other, s.kind)
	}
	v, kind, err := addValues(s.kind, s.value, other.value)
	if err != nil {
		return Scalar{}, err
	}
	return Scalar{kind: kind, value: v}, nil
}

// addValues combines two canonical values of kind k and reports the result kind.
func addValues(k Kind, a, b any) (any, Kind, error) {
	switch k {
	case Bool:
		return boolToInt(a.(bool)) + boolToInt(b.(bool)), Int64, nil
	case Int64:
		return a.(int64) + b.(int64), Int64, nil
	case Float64:
		return a.(float64) + b.(float64), Float64, nil
	case TimeDelta:
		return a.(time.Duration) + b.(time.Duration), TimeDelta, nil
	case String:
		return a.(string) + b.(string), String, nil
	case DateTime, Object:
		return nil, InvalidKind, errorf(ArithmeticUnsupported, "scalar add", "cannot add values of kind %s", k)
	default:
		return nil, InvalidKind, errorf(ConstructionError, "scalar add", "invalid kind %d", k)
	}
}

// sumKind returns the kind produced by adding two values of kind k.
func sumKind(k Kind) Kind {
	if k == Bool {
		return Int64
	}
	return k
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// String returns a human-readable representation of the scalar.
func (s Scalar) String() string {
	if s.named {
		return fmt.Sprintf("Scalar[%s](%v, name=%s)", s.kind, s.value, s.name)
	}
	return fmt.Sprintf("Scalar[%s](%v)", s.kind, s.value)
}
