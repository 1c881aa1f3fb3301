// Copyright 2025 The python-unified-containers Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides typed storage and strided views for the unified
// containers module.
//
// # Overview
//
// Every container is built from two pieces:
//   - Storage: a fixed-length buffer holding elements of a single Kind
//   - View: a shape, per-dimension offsets and strides over a Storage
//
// A Vector is a View of rank 1 and a Matrix a View of rank 2. Views over the
// same storage alias each other, so a write through one is visible through
// all of them.
//
// # Basic Usage
//
//	s, _ := tensor.NewStorage(12, tensor.Int64)
//	m, _ := tensor.NewMatrix(s, tensor.WithShape(3, 4))
//
//	row, _ := m.Select(tensor.At(1))                       // shares s
//	sub, _ := m.Select(tensor.Take(0, 2), tensor.At(1))    // a copy
//	_ = m.Set(tensor.VectorOf([]int64{7, 8}), tensor.Take(0, 2), tensor.At(1))
//
// # Indexing
//
// An Index selects positions along one dimension: At (one position, the
// dimension collapses), Take (explicit positions), Where (boolean mask) or
// All. Selections made only of At and All return views that share storage.
// Any Take or Where materializes the cross product of the per-dimension
// selections into a new storage.
//
// A consequence: assigning into the result of a Take or Where selection never
// changes the source. To write through, pass every index to a single Set call.
//
// # Kinds
//
// The supported kinds and their Go representations:
//   - Bool: bool
//   - Int64: int, int32, int64
//   - Float64: float64
//   - DateTime: time.Time
//   - TimeDelta: time.Duration
//   - String: string
//   - Object: any value
//
// # Errors
//
// Every failure is an *Error carrying a Code. Compare with errors.Is against
// the Err* sentinels.
package tensor
