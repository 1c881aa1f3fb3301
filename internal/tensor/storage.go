package tensor

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rlowrance/python-unified-containers/internal/metrics"
	"github.com/rlowrance/python-unified-containers/internal/parallel"
)

// Place identifies where a storage buffer lives.
type Place int

// Storage placements. Only Memory is implemented; the others are reserved.
const (
	Memory Place = iota
	GPU
	Disk
)

// String returns a human-readable placement name.
func (p Place) String() string {
	switch p {
	case Memory:
		return "memory"
	case GPU:
		return "gpu"
	case Disk:
		return "disk"
	default:
		return "unknown"
	}
}

// buffer is the homogeneous backing array. Exactly one slice is non-nil,
// selected by the owning storage's kind.
type buffer struct {
	bools  []bool
	ints   []int64
	floats []float64
	times  []time.Time
	deltas []time.Duration
	strs   []string
	objs   []any
}

func newBuffer(kind Kind, n int) buffer {
	var b buffer
	switch kind {
	case Bool:
		b.bools = make([]bool, n)
	case Int64:
		b.ints = make([]int64, n)
	case Float64:
		b.floats = make([]float64, n)
	case DateTime:
		b.times = make([]time.Time, n)
	case TimeDelta:
		b.deltas = make([]time.Duration, n)
	case String:
		b.strs = make([]string, n)
	case Object:
		b.objs = make([]any, n)
	}
	return b
}

// Storage is an owned, fixed-length, homogeneously-kinded buffer.
//
// Storage is the single source of truth for element values: every View over it
// reads and writes the same buffer. Kind and length never change after
// construction. Views register themselves with the storage, so Refs reports how
// many live views currently share it; the buffer itself is reclaimed by the
// garbage collector once neither a view nor the caller holds the storage.
//
// Storage performs no locking. Concurrent mutation must be serialized by the caller.
type Storage struct {
	id     uuid.UUID
	kind   Kind
	place  Place
	length int
	buf    buffer
	refs   atomic.Int32
}

// StorageOption configures storage construction.
type StorageOption func(*storageConfig)

type storageConfig struct {
	place Place
}

// WithPlace selects where the storage lives. Only Memory is supported.
func WithPlace(p Place) StorageOption {
	return func(c *storageConfig) { c.place = p }
}

func buildStorageConfig(op string, opts []StorageOption) (storageConfig, error) {
	cfg := storageConfig{place: Memory}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.place != Memory {
		return cfg, errorf(ConstructionError, op, "placement %s is not supported", cfg.place)
	}
	return cfg, nil
}

// NewStorage allocates length default-valued elements of kind.
//
// Example:
//
//	s, err := tensor.NewStorage(4, tensor.Int64) // [0 0 0 0]
func NewStorage(length int, kind Kind, opts ...StorageOption) (*Storage, error) {
	if !kind.Valid() {
		return nil, errorf(ConstructionError, "new storage", "invalid kind %d", kind)
	}
	if length < 0 {
		return nil, errorf(ConstructionError, "new storage", "negative length %d", length)
	}
	cfg, err := buildStorageConfig("new storage", opts)
	if err != nil {
		return nil, err
	}
	s := allocStorage(kind, length, metrics.ReasonConstruct)
	s.place = cfg.place
	// Buffers are already default-valued by make().
	return s, nil
}

// StorageOf builds a storage from explicit values, each validated against kind.
// The first invalid element fails the whole call with TypeMismatch; nothing is allocated.
//
// Example:
//
//	s, err := tensor.StorageOf([]any{true, false, true}, tensor.Bool)
func StorageOf(values []any, kind Kind, opts ...StorageOption) (*Storage, error) {
	if !kind.Valid() {
		return nil, errorf(ConstructionError, "storage of", "invalid kind %d", kind)
	}
	cfg, err := buildStorageConfig("storage of", opts)
	if err != nil {
		return nil, err
	}

	canonical := make([]any, len(values))
	for i, v := range values {
		c, ok := kind.accept(v)
		if !ok {
			e := typeMismatch("storage of", v, kind)
			e.Detail = fmt.Sprintf("element %d", i)
			return nil, e
		}
		canonical[i] = c
	}

	s := allocStorage(kind, len(values), metrics.ReasonConstruct)
	s.place = cfg.place
	for i, c := range canonical {
		s.put(i, c)
	}
	return s, nil
}

// FromSlice builds a storage from a typed Go slice, inferring the kind.
// The slice is copied.
func FromSlice[T Element](values []T) *Storage {
	kind := kindOf[T]()
	s := allocStorage(kind, len(values), metrics.ReasonConstruct)
	switch kind {
	case Bool:
		copy(s.buf.bools, any(values).([]bool))
	case Int64:
		copy(s.buf.ints, any(values).([]int64))
	case Float64:
		copy(s.buf.floats, any(values).([]float64))
	case DateTime:
		copy(s.buf.times, any(values).([]time.Time))
	case TimeDelta:
		copy(s.buf.deltas, any(values).([]time.Duration))
	case String:
		copy(s.buf.strs, any(values).([]string))
	}
	return s
}

// allocStorage is the single allocation point for storage buffers.
func allocStorage(kind Kind, n int, reason string) *Storage {
	s := &Storage{
		id:     uuid.New(),
		kind:   kind,
		place:  Memory,
		length: n,
		buf:    newBuffer(kind, n),
	}
	metrics.RecordAllocation(reason, n)
	logger.Debug("storage allocated",
		"storage", s.id.String(), "kind", kind.String(), "length", n, "reason", reason)
	return s
}

// ID returns the storage's unique identifier.
func (s *Storage) ID() uuid.UUID { return s.id }

// Kind returns the element kind.
func (s *Storage) Kind() Kind { return s.kind }

// Len returns the number of elements.
func (s *Storage) Len() int { return s.length }

// Place returns where the storage lives.
func (s *Storage) Place() Place { return s.place }

// Refs returns the number of live views sharing this storage.
func (s *Storage) Refs() int { return int(s.refs.Load()) }

func (s *Storage) addRef() { s.refs.Add(1) }

func (s *Storage) release() { s.refs.Add(-1) }

// Get returns the element at position as a Scalar.
func (s *Storage) Get(position int) (Scalar, error) {
	if err := s.checkPosition("storage get", position); err != nil {
		return Scalar{}, err
	}
	return Scalar{kind: s.kind, value: s.at(position)}, nil
}

// Set writes value at position. value may be a Scalar or a native value; its
// kind must match the storage's kind exactly (ValueKindMismatch otherwise).
// The write is visible through every view covering position.
func (s *Storage) Set(position int, value any) error {
	if err := s.checkPosition("storage set", position); err != nil {
		return err
	}
	c, err := coerce("storage set", s.kind, value)
	if err != nil {
		return err
	}
	s.put(position, c)
	return nil
}

// Values returns a copy of every element in position order.
func (s *Storage) Values() []any {
	out := make([]any, s.length)
	for i := range out {
		out[i] = s.at(i)
	}
	return out
}

// String returns a human-readable description of the storage.
func (s *Storage) String() string {
	return fmt.Sprintf("Storage[%s](len=%d, place=%s, id=%s)", s.kind, s.length, s.place, s.id)
}

func (s *Storage) checkPosition(op string, position int) error {
	if position < 0 || position >= s.length {
		return &Error{
			Code:   IndexOutOfRange,
			Op:     op,
			Value:  fmt.Sprint(position),
			Detail: fmt.Sprintf("position must be in [0, %d)", s.length),
		}
	}
	return nil
}

// at reads a canonical value without bounds checks.
func (s *Storage) at(i int) any {
	switch s.kind {
	case Bool:
		return s.buf.bools[i]
	case Int64:
		return s.buf.ints[i]
	case Float64:
		return s.buf.floats[i]
	case DateTime:
		return s.buf.times[i]
	case TimeDelta:
		return s.buf.deltas[i]
	case String:
		return s.buf.strs[i]
	case Object:
		return s.buf.objs[i]
	default:
		panic(fmt.Sprintf("storage has invalid kind %d", s.kind))
	}
}

// put writes a canonical value without bounds or kind checks.
func (s *Storage) put(i int, v any) {
	switch s.kind {
	case Bool:
		s.buf.bools[i] = v.(bool)
	case Int64:
		s.buf.ints[i] = v.(int64)
	case Float64:
		s.buf.floats[i] = v.(float64)
	case DateTime:
		s.buf.times[i] = v.(time.Time)
	case TimeDelta:
		s.buf.deltas[i] = v.(time.Duration)
	case String:
		s.buf.strs[i] = v.(string)
	case Object:
		s.buf.objs[i] = v
	default:
		panic(fmt.Sprintf("storage has invalid kind %d", s.kind))
	}
}

// gather copies the elements at addrs, in order, into a new storage.
func (s *Storage) gather(addrs []int, reason string) *Storage {
	out := allocStorage(s.kind, len(addrs), reason)
	parallel.Ranges(len(addrs), kernels, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out.put(i, s.at(addrs[i]))
		}
	})
	return out
}

// coerce validates value for assignment into kind and returns its canonical form.
// A Scalar must have exactly kind; a native value must be an accepted representation.
func coerce(op string, kind Kind, value any) (any, error) {
	if sc, ok := value.(Scalar); ok {
		if sc.kind != kind {
			return nil, kindMismatch(op, sc.kind, kind)
		}
		return sc.value, nil
	}
	c, ok := kind.accept(value)
	if !ok {
		e := kindMismatch(op, InvalidKind, kind)
		e.Detail = fmt.Sprintf("cannot assign %T to %s", value, kind)
		e.Value = describe(value)
		return nil, e
	}
	return c, nil
}
