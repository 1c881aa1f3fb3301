package tensor

import (
	"fmt"
	"strings"
)

// Code classifies every failure reported by this package.
type Code uint8

// Error codes.
const (
	// TypeMismatch: a value is not an accepted representation of a kind.
	TypeMismatch Code = iota + 1
	// ConstructionError: structurally invalid constructor arguments.
	ConstructionError
	// IndexOutOfRange: a position is negative or not less than the extent.
	IndexOutOfRange
	// IndexShapeError: a malformed index expression.
	IndexShapeError
	// ValueKindMismatch: an assigned value's kind differs from the target's kind.
	ValueKindMismatch
	// ShapeMismatch: an assigned value's shape does not fit the selection.
	ShapeMismatch
	// ArithmeticUnsupported: addition on a kind that forbids it.
	ArithmeticUnsupported
	// Released: the view was released and no longer references its storage.
	Released
)

// String returns the code name.
func (c Code) String() string {
	switch c {
	case TypeMismatch:
		return "type mismatch"
	case ConstructionError:
		return "construction error"
	case IndexOutOfRange:
		return "index out of range"
	case IndexShapeError:
		return "index shape error"
	case ValueKindMismatch:
		return "value kind mismatch"
	case ShapeMismatch:
		return "shape mismatch"
	case ArithmeticUnsupported:
		return "arithmetic unsupported"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Sentinel errors for use with errors.Is. Any *Error matches the sentinel with the same Code.
var (
	ErrTypeMismatch          = &Error{Code: TypeMismatch}
	ErrConstruction          = &Error{Code: ConstructionError}
	ErrIndexOutOfRange       = &Error{Code: IndexOutOfRange}
	ErrIndexShape            = &Error{Code: IndexShapeError}
	ErrValueKindMismatch     = &Error{Code: ValueKindMismatch}
	ErrShapeMismatch         = &Error{Code: ShapeMismatch}
	ErrArithmeticUnsupported = &Error{Code: ArithmeticUnsupported}
	ErrReleased              = &Error{Code: Released}
)

// Error carries the code plus the context needed to report a failure.
type Error struct {
	Code     Code   // What went wrong
	Op       string // Operation that failed (e.g. "storage set", "view get")
	Value    string // Textual form of the offending value, if any
	Expected []Kind // Kinds that would have been accepted, if relevant
	Detail   string // Additional details
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("tensor: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Code.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " (value %s)", e.Value)
	}
	switch len(e.Expected) {
	case 0:
	case 1:
		fmt.Fprintf(&b, " (expected %s)", e.Expected[0])
	default:
		fmt.Fprintf(&b, " (expected one of %v)", e.Expected)
	}
	return b.String()
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func errorf(code Code, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// describe renders a value for error payloads.
func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case Scalar:
		return x.String()
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v (%T)", x, x)
	}
}

func typeMismatch(op string, v any, expected ...Kind) *Error {
	return &Error{Code: TypeMismatch, Op: op, Value: describe(v), Expected: expected}
}

func kindMismatch(op string, got, want Kind) *Error {
	return &Error{
		Code:     ValueKindMismatch,
		Op:       op,
		Detail:   fmt.Sprintf("cannot assign %s to %s", got, want),
		Expected: []Kind{want},
	}
}
