// Package table provides a column-oriented table: an ordered set of named
// vectors of equal length.
//
// Columns are ordinary tensor vectors, so every row selection is a List or Mask
// index applied to all columns at once and follows the same copy and aliasing
// rules as indexing a single vector.
package table

import (
	"fmt"
	"strings"

	"github.com/rlowrance/python-unified-containers/internal/dict"
	"github.com/rlowrance/python-unified-containers/internal/tensor"
)

// Table is an ordered mapping from column name to vector.
type Table struct {
	cols *dict.Dictionary[string]
	rows int
}

// New creates a table from named rank-1 views of equal length. The views are
// shared, not copied.
//
// Example:
//
//	c1 := tensor.VectorOf([]string{"a", "b", "c"})
//	c1.SetName("letter")
//	c2 := tensor.VectorOf([]int64{10, 20, 30})
//	c2.SetName("value")
//	tab, err := table.New(c1, c2)
func New(columns ...*tensor.View) (*Table, error) {
	t := &Table{cols: dict.New[string]()}
	for _, c := range columns {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a named rank-1 view whose length matches the table.
// The column is keyed by the view's name at the time it is added; renaming
// the view afterwards does not rename the column.
func (t *Table) AddColumn(col *tensor.View) error {
	const op = "table add column"
	switch {
	case col == nil:
		return constructionError(op, "column is nil")
	case col.Released():
		return &tensor.Error{Code: tensor.Released, Op: op, Detail: "column was released"}
	case col.Rank() != 1:
		return constructionError(op, fmt.Sprintf("column %q has rank %d, want 1", col.Name(), col.Rank()))
	}
	return t.add(op, col.Name(), col)
}

func (t *Table) add(op, name string, col *tensor.View) error {
	switch {
	case name == "":
		return constructionError(op, "column has no name")
	case t.cols.Has(name):
		return constructionError(op, fmt.Sprintf("duplicate column %q", name))
	}
	if t.cols.Len() == 0 {
		t.rows = col.Len()
	} else if col.Len() != t.rows {
		return &tensor.Error{Code: tensor.ShapeMismatch, Op: op,
			Detail: fmt.Sprintf("column %q has %d rows, table has %d", name, col.Len(), t.rows)}
	}
	return t.cols.Set(name, col)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return t.cols.Len() }

// Columns returns the column names in order.
func (t *Table) Columns() []string { return t.cols.Keys() }

// Column returns the named column. The view is shared with the table.
func (t *Table) Column(name string) (*tensor.View, error) {
	e, err := t.cols.Get(name)
	if err != nil {
		return nil, err
	}
	return e.View(), nil
}

// Rows selects rows with a List, Mask or Full index and returns a new table.
// List and Mask selections are copies; a Full selection shares every column.
func (t *Table) Rows(idx tensor.Index) (*Table, error) {
	const op = "table rows"
	if idx.Form() == tensor.Single {
		return nil, &tensor.Error{Code: tensor.IndexShapeError, Op: op, Detail: "use Row for a single row"}
	}
	names := t.cols.Keys()
	selected := make([]*tensor.View, 0, len(names))
	for _, name := range names {
		col, _ := t.Column(name)
		sel, err := col.Select(idx)
		if err != nil {
			return nil, err
		}
		sel.SetName(name)
		selected = append(selected, sel)
	}
	out := &Table{cols: dict.New[string]()}
	for i, c := range selected {
		if err := out.add(op, names[i], c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Row returns row i as a dictionary of scalars named after their columns.
func (t *Table) Row(i int) (*dict.Dictionary[string], error) {
	row := dict.New[string]()
	for _, name := range t.cols.Keys() {
		col, _ := t.Column(name)
		s, err := col.At(i)
		if err != nil {
			return nil, err
		}
		if err := row.Set(name, s.WithName(name)); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// Where builds a row mask from pred evaluated on every element of the named column.
// Masks combine with Index.And, Or and Not.
func (t *Table) Where(column string, pred func(tensor.Scalar) bool) (tensor.Index, error) {
	col, err := t.Column(column)
	if err != nil {
		return tensor.Index{}, err
	}
	mask := make([]bool, t.rows)
	for i := range mask {
		s, err := col.At(i)
		if err != nil {
			return tensor.Index{}, err
		}
		mask[i] = pred(s)
	}
	return tensor.Where(mask...), nil
}

// Set assigns value to the selected rows of one column, writing through to the
// column's storage. value is a scalar (broadcast) or a vector with one element
// per selected row.
//
// Selecting the rows first with Rows and then assigning into the result does
// not change this table, because Rows returns a copy.
func (t *Table) Set(rows tensor.Index, column string, value any) error {
	col, err := t.Column(column)
	if err != nil {
		return err
	}
	return col.Set(value, rows)
}

// String renders the table as aligned text.
func (t *Table) String() string {
	names := t.cols.Keys()
	cells := make([][]string, t.rows+1)
	cells[0] = names
	for r := 0; r < t.rows; r++ {
		cells[r+1] = make([]string, len(names))
		for c, name := range names {
			col, _ := t.Column(name)
			s, err := col.At(r)
			if err != nil {
				cells[r+1][c] = "?"
				continue
			}
			cells[r+1][c] = fmt.Sprint(s.Value())
		}
	}
	widths := make([]int, len(names))
	for _, row := range cells {
		for c, cell := range row {
			widths[c] = max(widths[c], len(cell))
		}
	}
	var b strings.Builder
	for _, row := range cells {
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[c], cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func constructionError(op, detail string) error {
	return &tensor.Error{Code: tensor.ConstructionError, Op: op, Detail: detail}
}
