// Package dict provides an ordered key to value mapping whose values are
// tensor Views or Scalars.
//
// A Dictionary owns no storage. Entries hold the same *tensor.View the caller
// stored, so writes through a dictionary entry are visible through every other
// view of that storage.
package dict

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rlowrance/python-unified-containers/internal/tensor"
)

// Entry is a dictionary value: either a Scalar or a View.
type Entry struct {
	scalar tensor.Scalar
	view   *tensor.View
}

// ScalarEntry wraps a scalar value.
func ScalarEntry(s tensor.Scalar) Entry { return Entry{scalar: s} }

// ViewEntry wraps a view value. The view is shared, not copied.
func ViewEntry(v *tensor.View) Entry { return Entry{view: v} }

// IsScalar reports whether the entry holds a scalar.
func (e Entry) IsScalar() bool { return e.view == nil }

// Scalar returns the scalar when IsScalar is true.
func (e Entry) Scalar() tensor.Scalar { return e.scalar }

// View returns the view when IsScalar is false.
func (e Entry) View() *tensor.View { return e.view }

// Kind returns the kind of the held value.
func (e Entry) Kind() tensor.Kind {
	if e.view != nil {
		return e.view.Kind()
	}
	return e.scalar.Kind()
}

// String returns the string form of the held value.
func (e Entry) String() string {
	if e.view != nil {
		return e.view.String()
	}
	return e.scalar.String()
}

// Dictionary is an insertion-ordered mapping from K to Entry.
// The zero value is not usable; create one with New.
type Dictionary[K comparable] struct {
	keys    []K
	entries map[K]Entry
}

// New creates an empty dictionary.
func New[K comparable]() *Dictionary[K] {
	return &Dictionary[K]{entries: make(map[K]Entry)}
}

// Len returns the number of keys.
func (d *Dictionary[K]) Len() int { return len(d.keys) }

// Keys returns the keys in insertion order.
func (d *Dictionary[K]) Keys() []K { return append([]K(nil), d.keys...) }

// Has reports whether key is present.
func (d *Dictionary[K]) Has(key K) bool {
	_, ok := d.entries[key]
	return ok
}

// Set stores value under key. value must be a tensor.Scalar, a *tensor.View
// or an Entry. Replacing a key keeps its position in the order.
func (d *Dictionary[K]) Set(key K, value any) error {
	var e Entry
	switch v := value.(type) {
	case Entry:
		e = v
	case tensor.Scalar:
		e = ScalarEntry(v)
	case *tensor.View:
		if v == nil {
			return &tensor.Error{Code: tensor.ConstructionError, Op: "dict set", Detail: "view is nil"}
		}
		e = ViewEntry(v)
	default:
		return &tensor.Error{
			Code:   tensor.ConstructionError,
			Op:     "dict set",
			Value:  fmt.Sprintf("%v (%T)", value, value),
			Detail: "value must be a Scalar or a View",
		}
	}
	if !e.IsScalar() && e.view.Released() {
		return &tensor.Error{Code: tensor.Released, Op: "dict set", Detail: "view was released"}
	}
	if _, ok := d.entries[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = e
	return nil
}

// Get returns the entry stored under key. The entry's view is shared.
// A missing key fails with IndexOutOfRange.
func (d *Dictionary[K]) Get(key K) (Entry, error) {
	e, ok := d.entries[key]
	if !ok {
		return Entry{}, missingKey("dict get", key)
	}
	return e, nil
}

// Delete removes key and reports whether it was present.
func (d *Dictionary[K]) Delete(key K) bool {
	if _, ok := d.entries[key]; !ok {
		return false
	}
	delete(d.entries, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

// GetMany returns a new dictionary holding the entries for keys, in the given
// order. The entries reference the same views as d.
func (d *Dictionary[K]) GetMany(keys ...K) (*Dictionary[K], error) {
	out := New[K]()
	for _, k := range keys {
		e, ok := d.entries[k]
		if !ok {
			return nil, missingKey("dict get many", k)
		}
		if _, dup := out.entries[k]; !dup {
			out.keys = append(out.keys, k)
		}
		out.entries[k] = e
	}
	return out, nil
}

// Field gathers, for every entry in key order, the single element idx selects
// and returns them as a new vector. Scalar entries contribute themselves and
// accept no index. Every element must share one kind.
//
// The result is a copy. Assigning into it does not change the entries; use
// SetField to write through.
func (d *Dictionary[K]) Field(idx ...tensor.Index) (*tensor.View, error) {
	const op = "dict field"
	if len(d.keys) == 0 {
		return nil, &tensor.Error{Code: tensor.IndexShapeError, Op: op, Detail: "dictionary is empty"}
	}
	values := make([]any, len(d.keys))
	var kind tensor.Kind
	for i, k := range d.keys {
		s, err := fieldOf(op, d.entries[k], idx)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			kind = s.Kind()
		} else if s.Kind() != kind {
			return nil, &tensor.Error{
				Code:     tensor.TypeMismatch,
				Op:       op,
				Value:    s.String(),
				Detail:   fmt.Sprintf("entry %v", k),
				Expected: []tensor.Kind{kind},
			}
		}
		values[i] = s.Value()
	}
	s, err := tensor.StorageOf(values, kind)
	if err != nil {
		return nil, err
	}
	return tensor.NewVector(s)
}

func fieldOf(op string, e Entry, idx []tensor.Index) (tensor.Scalar, error) {
	if e.IsScalar() {
		if len(idx) != 0 {
			return tensor.Scalar{}, &tensor.Error{Code: tensor.IndexShapeError, Op: op, Detail: "cannot index a scalar entry"}
		}
		return e.scalar, nil
	}
	r, err := e.view.Get(idx...)
	if err != nil {
		return tensor.Scalar{}, err
	}
	if !r.IsScalar() {
		return tensor.Scalar{}, &tensor.Error{Code: tensor.IndexShapeError, Op: op,
			Detail: "field index must select a single element of each entry"}
	}
	return r.Scalar(), nil
}

// SetField assigns value to the element idx selects in the view of every key,
// writing through to the views' storage. value is a single Scalar or native
// value (broadcast) or a vector with one element per key, assigned in key order.
// All keys, kinds and positions are validated before anything is written.
func (d *Dictionary[K]) SetField(keys []K, value any, idx ...tensor.Index) error {
	const op = "dict set field"
	views := make([]*tensor.View, len(keys))
	for i, k := range keys {
		e, ok := d.entries[k]
		if !ok {
			return missingKey(op, k)
		}
		if e.IsScalar() {
			return &tensor.Error{Code: tensor.IndexShapeError, Op: op,
				Detail: fmt.Sprintf("entry %v is a scalar and cannot be assigned into", k)}
		}
		n, err := e.view.Count(idx...)
		if err != nil {
			return err
		}
		if n != 1 {
			return &tensor.Error{Code: tensor.IndexShapeError, Op: op,
				Detail: fmt.Sprintf("field index selects %d elements of entry %v, want 1", n, k)}
		}
		views[i] = e.view
	}

	items := make([]any, len(keys))
	if src, ok := value.(*tensor.View); ok {
		if src == nil || src.Released() {
			return &tensor.Error{Code: tensor.ShapeMismatch, Op: op, Detail: "value view is unusable"}
		}
		if src.Rank() != 1 || src.Len() != len(keys) {
			return &tensor.Error{Code: tensor.ShapeMismatch, Op: op,
				Detail: fmt.Sprintf("value of shape %v for %d keys", []int(src.Shape()), len(keys))}
		}
		vals, err := src.Values()
		if err != nil {
			return err
		}
		for i, x := range vals {
			s, err := tensor.NewScalar(x, src.Kind())
			if err != nil {
				return err
			}
			items[i] = s
		}
	} else {
		for i := range items {
			items[i] = value
		}
	}

	for i, v := range views {
		if err := checkAssignable(op, v.Kind(), items[i]); err != nil {
			return err
		}
	}
	for i, v := range views {
		if err := v.Set(items[i], idx...); err != nil {
			return err
		}
	}
	return nil
}

// checkAssignable mirrors the view's own kind check so SetField can fail
// before its first write.
func checkAssignable(op string, kind tensor.Kind, value any) error {
	if s, ok := value.(tensor.Scalar); ok {
		if s.Kind() != kind {
			return &tensor.Error{Code: tensor.ValueKindMismatch, Op: op,
				Detail: fmt.Sprintf("cannot assign %s to %s", s.Kind(), kind), Expected: []tensor.Kind{kind}}
		}
		return nil
	}
	if _, err := tensor.NewScalar(value, kind); err != nil {
		if t := reflect.TypeOf(value); t != nil && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
			return &tensor.Error{Code: tensor.ShapeMismatch, Op: op,
				Detail: fmt.Sprintf("a %T is neither a scalar nor a vector view", value)}
		}
		return &tensor.Error{Code: tensor.ValueKindMismatch, Op: op,
			Detail: fmt.Sprintf("cannot assign %T to %s", value, kind), Expected: []tensor.Kind{kind}}
	}
	return nil
}

// String returns a human-readable representation of the dictionary.
func (d *Dictionary[K]) String() string {
	var b strings.Builder
	b.WriteString("Dictionary{")
	for i, k := range d.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %s", k, d.entries[k])
	}
	b.WriteString("}")
	return b.String()
}

func missingKey(op string, key any) error {
	return &tensor.Error{
		Code:   tensor.IndexOutOfRange,
		Op:     op,
		Value:  fmt.Sprintf("%v", key),
		Detail: "key not found",
	}
}
