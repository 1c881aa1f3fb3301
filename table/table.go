// Copyright 2025 The python-unified-containers Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package table provides the public API for dictionaries and column-oriented
// tables built on tensor views.
//
// A Dictionary maps keys to Scalars or Views without copying them. A Table is
// an ordered set of named vectors of equal length; row selections apply one
// Take or Where index to every column.
//
// Example:
//
//	item := tensor.VectorOf([]string{"apple", "pear", "plum"})
//	item.SetName("item")
//	qty := tensor.VectorOf([]int64{3, 0, 12})
//	qty.SetName("qty")
//
//	tab, _ := table.New(item, qty)
//	empty, _ := tab.Where("qty", func(s tensor.Scalar) bool { return s.Value() == int64(0) })
//	_ = tab.Set(empty, "qty", int64(100)) // writes through to qty
package table

import (
	"github.com/rlowrance/python-unified-containers/internal/dict"
	"github.com/rlowrance/python-unified-containers/internal/table"
	"github.com/rlowrance/python-unified-containers/tensor"
)

// Table is an ordered mapping from column name to vector.
type Table = table.Table

// Dictionary is an insertion-ordered mapping from K to a Scalar or View.
type Dictionary[K comparable] = dict.Dictionary[K]

// Entry is a dictionary value.
type Entry = dict.Entry

// New creates a table from named rank-1 views of equal length.
func New(columns ...*tensor.View) (*Table, error) {
	return table.New(columns...)
}

// NewDictionary creates an empty dictionary.
func NewDictionary[K comparable]() *Dictionary[K] {
	return dict.New[K]()
}

// ScalarEntry wraps a scalar as a dictionary value.
func ScalarEntry(s tensor.Scalar) Entry { return dict.ScalarEntry(s) }

// ViewEntry wraps a view as a dictionary value. The view is shared.
func ViewEntry(v *tensor.View) Entry { return dict.ViewEntry(v) }
