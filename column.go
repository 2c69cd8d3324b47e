// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tensorcolumn implements a column type storing fixed-shape,
// multi-dimensional numeric values (tensors) as elements of an array
// backed by a single contiguous buffer.
//
// Construction from a sequence of tensors is provided by FromTensors and
// FromTensorsWithType, concatenation by Concat. The conversion to and
// from the Arrow columnar format is provided by package arrowext.
package tensorcolumn

// Column is the set of capabilities a tensor column exposes to a host
// data-frame framework.
type Column interface {
	Len() int
	Get(i int) (Tensor, error)
	Set(i int, v Tensor) error
	Take(indices []int, allowFill bool, fill *Tensor) (*Array, error)
	IsMissing() []bool
	Copy() *Array
	StructurallyEqual(other *Array) bool
	Where(cond []bool, other Replacement) (*Array, error)
	Format(opts FormatOptions) []string
	ColumnType() TensorDType
}

var _ Column = (*Array)(nil)
