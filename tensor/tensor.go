// Copyright 2025 The python-unified-containers Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"log/slog"

	"github.com/rlowrance/python-unified-containers/internal/tensor"
)

// Type aliases for public API

// Kind is the closed set of element kinds.
type Kind = tensor.Kind

// Kind constants.
const (
	InvalidKind Kind = tensor.InvalidKind
	Bool        Kind = tensor.Bool
	Int64       Kind = tensor.Int64
	Float64     Kind = tensor.Float64
	DateTime    Kind = tensor.DateTime
	TimeDelta   Kind = tensor.TimeDelta
	String      Kind = tensor.String
	Object      Kind = tensor.Object
)

// Element is a constraint for the native Go types that map onto a Kind.
type Element = tensor.Element

// Scalar is a single immutable value tagged with its Kind.
type Scalar = tensor.Scalar

// Place identifies where a storage buffer lives.
type Place = tensor.Place

// Place constants. Only Memory is implemented.
const (
	Memory Place = tensor.Memory
	GPU    Place = tensor.GPU
	Disk   Place = tensor.Disk
)

// Storage is a fixed-length buffer of a single kind.
type Storage = tensor.Storage

// StorageOption configures storage construction.
type StorageOption = tensor.StorageOption

// Shape is the extent of each dimension of a view.
type Shape = tensor.Shape

// View is a shape/offset/stride window over a Storage.
type View = tensor.View

// ViewOption configures view construction.
type ViewOption = tensor.ViewOption

// Form classifies how an Index selects positions.
type Form = tensor.Form

// Index forms.
const (
	Full   Form = tensor.Full
	Single Form = tensor.Single
	List   Form = tensor.List
	Mask   Form = tensor.Mask
)

// Index selects positions along one dimension of a View.
type Index = tensor.Index

// Result is either a Scalar or a View produced by indexing.
type Result = tensor.Result

// Error is the structured error returned by every operation.
type Error = tensor.Error

// Code classifies an Error.
type Code = tensor.Code

// Error codes.
const (
	TypeMismatch          Code = tensor.TypeMismatch
	ConstructionError     Code = tensor.ConstructionError
	IndexOutOfRange       Code = tensor.IndexOutOfRange
	IndexShapeError       Code = tensor.IndexShapeError
	ValueKindMismatch     Code = tensor.ValueKindMismatch
	ShapeMismatch         Code = tensor.ShapeMismatch
	ArithmeticUnsupported Code = tensor.ArithmeticUnsupported
	Released              Code = tensor.Released
)

// Sentinel errors for use with errors.Is.
var (
	ErrTypeMismatch          = tensor.ErrTypeMismatch
	ErrConstruction          = tensor.ErrConstruction
	ErrIndexOutOfRange       = tensor.ErrIndexOutOfRange
	ErrIndexShape            = tensor.ErrIndexShape
	ErrValueKindMismatch     = tensor.ErrValueKindMismatch
	ErrShapeMismatch         = tensor.ErrShapeMismatch
	ErrArithmeticUnsupported = tensor.ErrArithmeticUnsupported
	ErrReleased              = tensor.ErrReleased
)

// Scalars

// NewScalar creates a Scalar of the given kind.
//
// Example:
//
//	s, err := tensor.NewScalar(42, tensor.Int64)
func NewScalar(value any, kind Kind) (Scalar, error) {
	return tensor.NewScalar(value, kind)
}

// NewNamedScalar creates a Scalar labelled with name, which must be nil or a string.
func NewNamedScalar(value any, kind Kind, name any) (Scalar, error) {
	return tensor.NewNamedScalar(value, kind, name)
}

// MustScalar is like NewScalar but panics on error.
func MustScalar(value any, kind Kind) Scalar {
	return tensor.MustScalar(value, kind)
}

// Of creates a Scalar from a native element, inferring its kind.
func Of[T Element](value T) Scalar {
	return tensor.Of(value)
}

// ParseKind maps a kind name such as "int64" to its Kind.
func ParseKind(name string) (Kind, error) {
	return tensor.ParseKind(name)
}

// Storage

// NewStorage allocates length default-valued elements of kind.
//
// Example:
//
//	s, err := tensor.NewStorage(4, tensor.Int64) // [0 0 0 0]
func NewStorage(length int, kind Kind, opts ...StorageOption) (*Storage, error) {
	return tensor.NewStorage(length, kind, opts...)
}

// StorageOf builds a storage from explicit values validated against kind.
func StorageOf(values []any, kind Kind, opts ...StorageOption) (*Storage, error) {
	return tensor.StorageOf(values, kind, opts...)
}

// FromSlice builds a storage from a typed slice, inferring the kind.
func FromSlice[T Element](values []T) *Storage {
	return tensor.FromSlice(values)
}

// WithPlace selects where a storage lives.
func WithPlace(p Place) StorageOption {
	return tensor.WithPlace(p)
}

// Views

// NewView creates a view of any rank over s.
//
// Example:
//
//	s := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6})
//	t, err := tensor.NewView(s, tensor.WithShape(3, 2), tensor.WithStrides(1, 3))
func NewView(s *Storage, opts ...ViewOption) (*View, error) {
	return tensor.NewView(s, opts...)
}

// NewVector creates a rank-1 view over s.
func NewVector(s *Storage, opts ...ViewOption) (*View, error) {
	return tensor.NewVector(s, opts...)
}

// NewMatrix creates a rank-2 view over s.
func NewMatrix(s *Storage, opts ...ViewOption) (*View, error) {
	return tensor.NewMatrix(s, opts...)
}

// VectorOf builds a fresh storage from values and returns a vector over it.
func VectorOf[T Element](values []T) *View {
	return tensor.VectorOf(values)
}

// ValuesOf returns the elements of v as a typed slice in row-major order.
func ValuesOf[T Element](v *View) ([]T, error) {
	return tensor.ValuesOf[T](v)
}

// WithShape sets a view's extents.
func WithShape(dims ...int) ViewOption { return tensor.WithShape(dims...) }

// WithOffsets sets a view's per-dimension offsets.
func WithOffsets(offsets ...int) ViewOption { return tensor.WithOffsets(offsets...) }

// WithStrides sets a view's per-dimension strides.
func WithStrides(strides ...int) ViewOption { return tensor.WithStrides(strides...) }

// WithName labels a view.
func WithName(name string) ViewOption { return tensor.WithName(name) }

// Indexes

// At selects a single position.
func At(i int) Index { return tensor.At(i) }

// Take selects explicit positions in order.
func Take(positions ...int) Index { return tensor.Take(positions...) }

// Where selects the positions whose mask entry is true.
func Where(mask ...bool) Index { return tensor.Where(mask...) }

// All selects an entire dimension.
func All() Index { return tensor.All() }

// ParseIndex converts a loosely typed index expression into an Index.
func ParseIndex(x any) (Index, error) {
	return tensor.ParseIndex(x)
}

// Operations

// Add returns the elementwise sum of two views of equal kind and shape.
func Add(a, b *View) (*View, error) {
	return tensor.Add(a, b)
}

// SetLogger installs the logger that receives allocation and materialization
// debug records. A nil logger discards them.
func SetLogger(l *slog.Logger) {
	tensor.SetLogger(l)
}

// SetParallelism sets how many goroutines gathers and elementwise operations
// may use and the smallest range each one handles.
func SetParallelism(workers, minChunk int) {
	tensor.SetParallelism(workers, minChunk)
}
