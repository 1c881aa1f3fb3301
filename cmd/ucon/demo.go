package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/davecgh/go-spew/spew"

	"github.com/rlowrance/python-unified-containers/internal/config"
	"github.com/rlowrance/python-unified-containers/internal/metrics"
	"github.com/rlowrance/python-unified-containers/table"
	"github.com/rlowrance/python-unified-containers/tensor"
)

// demo prints a guided tour of the container API.
type demo struct {
	out  io.Writer
	cfg  config.DemoConfig
	dump bool
}

// layout is the dump form of a view.
type layout struct {
	Name       string
	Kind       string
	Shape      []int
	Offsets    []int
	Strides    []int
	Contiguous bool
	Storage    string
	Refs       int
}

func (d *demo) run() error {
	steps := []struct {
		title string
		fn    func() error
	}{
		{"storage", d.storage},
		{"vectors", d.vectors},
		{"matrices", d.matrices},
		{"dictionaries", d.dictionaries},
		{"tables", d.tables},
		{"end to end", d.endToEnd},
	}
	for _, step := range steps {
		fmt.Fprintf(d.out, "== %s ==\n", step.title)
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.title, err)
		}
	}
	return nil
}

func (d *demo) show(label string, v fmt.Stringer) {
	fmt.Fprintf(d.out, "%-28s %s\n", label, v)
	if !d.dump {
		return
	}
	if view, ok := v.(*tensor.View); ok && !view.Released() {
		spew.Fdump(d.out, layout{
			Name:       view.Name(),
			Kind:       view.Kind().String(),
			Shape:      view.Shape(),
			Offsets:    view.Offsets(),
			Strides:    view.Strides(),
			Contiguous: view.IsContiguous(),
			Storage:    view.Storage().ID().String(),
			Refs:       view.Storage().Refs(),
		})
	}
}

func (d *demo) storage() error {
	for _, kind := range []tensor.Kind{tensor.Bool, tensor.Int64, tensor.Float64, tensor.String} {
		s, err := tensor.NewStorage(d.cfg.Length, kind)
		if err != nil {
			return err
		}
		d.show("new storage", s)
	}
	mask, err := tensor.StorageOf([]any{false, true, true, false}, tensor.Bool)
	if err != nil {
		return err
	}
	d.show("storage of values", mask)

	if _, err := tensor.StorageOf([]any{1, "two"}, tensor.Int64); err != nil {
		fmt.Fprintf(d.out, "%-28s %v\n", "rejected values", err)
	}
	return nil
}

func (d *demo) sequence() []int64 {
	vals := make([]int64, d.cfg.Length)
	for i := range vals {
		vals[i] = int64(i * 10)
	}
	return vals
}

func (d *demo) vectors() error {
	s := tensor.FromSlice(d.sequence())
	n := d.cfg.Length

	all, err := tensor.NewVector(s)
	if err != nil {
		return err
	}
	d.show("all elements", all)

	head, err := tensor.NewVector(s, tensor.WithShape(n-2))
	if err != nil {
		return err
	}
	d.show("first n-2", head)

	every, err := tensor.NewVector(s, tensor.WithShape((n+1)/2), tensor.WithStrides(2))
	if err != nil {
		return err
	}
	d.show("every other", every)

	x, err := all.At(3)
	if err != nil {
		return err
	}
	d.show("v[3]", x)

	picked, err := all.Select(tensor.Take(0, 3))
	if err != nil {
		return err
	}
	d.show("v[[0, 3]]", picked)

	mask := make([]bool, n)
	for i := range mask {
		mask[i] = i%3 == 1
	}
	masked, err := all.Select(tensor.Where(mask...))
	if err != nil {
		return err
	}
	d.show("v[mask]", masked)

	sum, err := tensor.Add(all, all)
	if err != nil {
		return err
	}
	d.show("v + v", sum)
	return nil
}

func (d *demo) matrices() error {
	rows, cols := d.cfg.Rows, d.cfg.Cols
	vals := make([]int64, rows*cols)
	for i := range vals {
		vals[i] = int64(i)
	}
	m, err := tensor.NewMatrix(tensor.FromSlice(vals), tensor.WithShape(rows, cols))
	if err != nil {
		return err
	}
	d.show("matrix", m)

	tr, err := tensor.NewMatrix(m.Storage(), tensor.WithShape(cols, rows), tensor.WithStrides(1, cols))
	if err != nil {
		return err
	}
	d.show("transpose", tr)

	shallow, err := tr.Copy()
	if err != nil {
		return err
	}
	d.show("copy", shallow)

	deep, err := tr.DeepContiguousCopy()
	if err != nil {
		return err
	}
	d.show("deep contiguous copy", deep)

	update := tensor.VectorOf([]int64{-1, -2})
	chained, err := m.Select(tensor.Take(0, rows-1))
	if err != nil {
		return err
	}
	if err := chained.Set(update, tensor.All(), tensor.At(1)); err != nil {
		return err
	}
	d.show("chained write (copy)", chained)
	d.show("original after chained", m)

	if err := m.Set(update, tensor.Take(0, rows-1), tensor.At(1)); err != nil {
		return err
	}
	d.show("original after combined", m)
	return nil
}

func (d *demo) dictionaries() error {
	people := table.NewDictionary[string]()
	if err := people.Set("alice", tensor.VectorOf([]int64{30, 160})); err != nil {
		return err
	}
	if err := people.Set("bob", tensor.VectorOf([]int64{40, 180})); err != nil {
		return err
	}
	if err := people.Set("unit", tensor.Of("cm")); err != nil {
		return err
	}

	keys := []string{"alice", "bob"}
	pair, err := people.GetMany(keys...)
	if err != nil {
		return err
	}
	ages, err := pair.Field(tensor.At(0))
	if err != nil {
		return err
	}
	d.show("ages", ages)

	if err := people.SetField(keys, tensor.VectorOf([]int64{31, 41}), tensor.At(0)); err != nil {
		return err
	}
	ages, err = pair.Field(tensor.At(0))
	if err != nil {
		return err
	}
	d.show("ages after set field", ages)

	unit, err := people.Get("unit")
	if err != nil {
		return err
	}
	d.show("unit", unit)
	return nil
}

func (d *demo) tables() error {
	c1 := tensor.VectorOf([]string{"a", "b", "c"})
	c1.SetName("letter")
	c2 := tensor.VectorOf([]int64{10, 20, 30})
	c2.SetName("value")
	tab, err := table.New(c1, c2)
	if err != nil {
		return err
	}
	fmt.Fprint(d.out, tab)

	big, err := tab.Where("value", func(s tensor.Scalar) bool { return s.Value().(int64) >= 20 })
	if err != nil {
		return err
	}
	sel, err := tab.Rows(big)
	if err != nil {
		return err
	}
	fmt.Fprint(d.out, sel)

	if err := tab.Set(big, "value", int64(0)); err != nil {
		return err
	}
	row, err := tab.Row(1)
	if err != nil {
		return err
	}
	d.show("row 1 after set", row)
	return nil
}

func (d *demo) endToEnd() error {
	s, err := tensor.NewStorage(4, tensor.Int64)
	if err != nil {
		return err
	}
	v, err := tensor.NewVector(s)
	if err != nil {
		return err
	}
	if err := v.SetAt(int64(7), 2); err != nil {
		return err
	}
	deep, err := v.DeepCopy()
	if err != nil {
		return err
	}
	if err := v.SetAt(int64(9), 2); err != nil {
		return err
	}
	d.show("vector", v)
	d.show("deep copy", deep)
	return nil
}

func printSnapshot(w io.Writer, snap metrics.Snapshot) {
	reasons := make([]string, 0, len(snap.Allocations))
	for r := range snap.Allocations {
		reasons = append(reasons, r)
	}
	slices.Sort(reasons)
	fmt.Fprintf(w, "%-10s %12s %12s\n", "reason", "buffers", "elements")
	for _, r := range reasons {
		fmt.Fprintf(w, "%-10s %12.0f %12.0f\n", r, snap.Allocations[r], snap.Elements[r])
	}
}
