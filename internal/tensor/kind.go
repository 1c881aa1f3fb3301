// Package tensor provides the typed storage, strided views and index resolution
// that every container in this module is built on.
package tensor

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Element is a constraint for the native Go types that map one-to-one onto a Kind.
// Object has no native type and is reachable only through the untyped API.
type Element interface {
	bool | int64 | float64 | time.Time | time.Duration | string
}

// Kind is the closed set of element kinds a Scalar, Storage or View can hold.
type Kind uint8

// Supported element kinds.
const (
	InvalidKind Kind = iota
	Bool
	Int64
	Float64
	DateTime
	TimeDelta
	String
	Object
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{Bool, Int64, Float64, DateTime, TimeDelta, String, Object}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case DateTime:
		return "datetime"
	case TimeDelta:
		return "timedelta"
	case String:
		return "string"
	case Object:
		return "object"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k >= Bool && k <= Object
}

// ParseKind maps a kind name (as returned by Kind.String) back to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return InvalidKind, &Error{
		Code:   ConstructionError,
		Op:     "parse kind",
		Value:  name,
		Detail: "unknown kind name",
	}
}

// accept checks v against the kind's accepted representations and returns the
// canonical form stored in buffers.
//
// Int64 accepts int, int32 and int64; bool is deliberately not an integer here.
func (k Kind) accept(v any) (any, bool) {
	switch k {
	case Bool:
		b, ok := v.(bool)
		return b, ok
	case Int64:
		switch n := v.(type) {
		case int:
			return int64(n), true
		case int32:
			return int64(n), true
		case int64:
			return n, true
		}
		return nil, false
	case Float64:
		f, ok := v.(float64)
		return f, ok
	case DateTime:
		t, ok := v.(time.Time)
		return t, ok
	case TimeDelta:
		d, ok := v.(time.Duration)
		return d, ok
	case String:
		s, ok := v.(string)
		return s, ok
	case Object:
		return v, true
	default:
		return nil, false
	}
}

// equalValues compares two canonical values of kind k.
func (k Kind) equalValues(a, b any) bool {
	switch k {
	case DateTime:
		return a.(time.Time).Equal(b.(time.Time))
	case Object:
		return reflect.DeepEqual(a, b)
	default:
		return a == b
	}
}

// kindOf infers the Kind for the native element type T.
func kindOf[T Element]() Kind {
	var dummy T
	switch any(dummy).(type) {
	case bool:
		return Bool
	case int64:
		return Int64
	case float64:
		return Float64
	case time.Time:
		return DateTime
	case time.Duration:
		return TimeDelta
	case string:
		return String
	}
	panic(fmt.Sprintf("unsupported element type %T", dummy))
}

// isSequence reports whether x is a native slice or array, which can only ever
// fill a selection as a vector.
func isSequence(x any) bool {
	if x == nil {
		return false
	}
	switch reflect.TypeOf(x).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}
