// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import (
	"github.com/nlpodyssey/tensorcolumn/dtype"
)

// An Array is a column of N tensors, all sharing the same element shape
// and data type, physically backed by one contiguous buffer logically
// shaped (N, d1, ..., dk), with k >= 1.
//
// The buffer holds little-endian values in row-major order, so that the
// bytes of each row are contiguous and equal in number (see RowBytes).
//
// An Array is not safe for concurrent use when any goroutine mutates it.
// Views obtained with Slice and View share the same buffer: callers are
// responsible for allowing at most one writer across all of them.
type Array struct {
	dType dtype.DType
	// shape of each element, excluding the row dimension.
	shape    []int
	n        int
	rowBytes int
	data     []byte
}

// NewArray creates an Array from a flat typed slice (see Tensor for the
// accepted data types) and the full buffer shape (N, d1, ..., dk).
//
// The data is copied to a new buffer.
func NewArray(dType dtype.DType, shape []int, data any) (*Array, error) {
	if len(shape) < 2 {
		return nil, Errorf(KindRank, "array must have at least 2 dimensions, got %d", len(shape))
	}
	a, err := newArray(dType, shape[1:], shape[0])
	if err != nil {
		return nil, err
	}
	dataLen, err := checkTypesAndGetDataLen(dType, data)
	if err != nil {
		return nil, Wrap(err, KindType, "invalid array data")
	}
	if dataLen*dType.Size() != len(a.data) {
		return nil, Errorf(KindShape, "the size computed from shape %v does not match data length (%d)", shape, dataLen)
	}
	if a.data, err = appendData(a.data[:0], dType, data); err != nil {
		return nil, Wrap(err, KindType, "invalid array data")
	}
	return a, nil
}

// FromBytes creates an Array from little-endian, row-major raw bytes and
// the full buffer shape (N, d1, ..., dk).
//
// The data is NOT copied: the Array takes ownership of it.
func FromBytes(dType dtype.DType, shape []int, data []byte) (*Array, error) {
	if len(shape) < 2 {
		return nil, Errorf(KindRank, "array must have at least 2 dimensions, got %d", len(shape))
	}
	a, err := newArray(dType, shape[1:], 0)
	if err != nil {
		return nil, err
	}
	if shape[0] < 0 {
		return nil, Errorf(KindShape, "negative number of rows %d", shape[0])
	}
	size, err := checkedMul(shape[0], a.rowBytes)
	if err != nil {
		return nil, Wrap(err, KindShape, "array too large")
	}
	if size != len(data) {
		return nil, Errorf(KindShape, "the size computed from shape %v (%d bytes) does not match data length (%d bytes)", shape, size, len(data))
	}
	a.n = shape[0]
	a.data = data
	return a, nil
}

// FromTensors stacks the given tensors along a new leading axis.
//
// All items must share the same data type and shape; their shape must
// have at least one dimension. Since data type and shape are inferred
// from the first item, an empty sequence is rejected: use
// FromTensorsWithType or NewEmpty instead.
func FromTensors(items []Tensor) (*Array, error) {
	if len(items) == 0 {
		return nil, Errorf(KindValue, "cannot infer type and shape from an empty sequence")
	}
	first := items[0]
	if len(first.shape) == 0 {
		return nil, Errorf(KindRank, "array must have at least 2 dimensions, got 1")
	}
	for i, t := range items[1:] {
		if t.dType != first.dType {
			return nil, Errorf(KindType, "item %d has type %s, expected %s", i+1, t.dType, first.dType)
		}
		if !equalShapes(t.shape, first.shape) {
			return nil, Errorf(KindShape, "item %d has shape %v, expected %v", i+1, t.shape, first.shape)
		}
	}
	return FromTensorsWithType(first.dType, first.shape, items)
}

// FromTensorsWithType stacks the given tensors along a new leading axis,
// checking each of them against an explicit data type and element shape.
//
// It can be used to create a column with zero rows.
func FromTensorsWithType(dType dtype.DType, shape []int, items []Tensor) (*Array, error) {
	a, err := newArray(dType, shape, len(items))
	if err != nil {
		return nil, err
	}
	buf := a.data[:0]
	for i, t := range items {
		if t.dType != dType {
			return nil, Errorf(KindType, "item %d has type %s, expected %s", i, t.dType, dType)
		}
		if !equalShapes(t.shape, a.shape) {
			return nil, Errorf(KindShape, "item %d has shape %v, expected %v", i, t.shape, a.shape)
		}
		if buf, err = appendData(buf, dType, t.data); err != nil {
			return nil, Wrap(err, KindType, "invalid item data")
		}
	}
	a.data = buf
	return a, nil
}

// NewEmpty creates an Array with zero rows.
func NewEmpty(dType dtype.DType, shape []int) (*Array, error) {
	return newArray(dType, shape, 0)
}

// newArray validates data type and element shape, allocating a
// zero-filled buffer for n rows.
func newArray(dType dtype.DType, shape []int, n int) (*Array, error) {
	if err := dType.Validate(); err != nil {
		return nil, Wrap(err, KindType, "invalid element type")
	}
	if len(shape) == 0 {
		return nil, Errorf(KindRank, "array must have at least 2 dimensions, got 1")
	}
	for _, d := range shape {
		if d <= 0 {
			return nil, Errorf(KindShape, "element shape %v contains non-positive value %d", shape, d)
		}
	}
	if n < 0 {
		return nil, Errorf(KindShape, "negative number of rows %d", n)
	}
	size, err := shapeSize(shape)
	if err != nil {
		return nil, Wrap(err, KindShape, "invalid element shape")
	}
	rowBytes, err := checkedMul(size, dType.Size())
	if err != nil {
		return nil, Wrap(err, KindShape, "element too large")
	}
	total, err := checkedMul(rowBytes, n)
	if err != nil {
		return nil, Wrap(err, KindShape, "array too large")
	}
	return &Array{
		dType:    dType,
		shape:    copyShape(shape),
		n:        n,
		rowBytes: rowBytes,
		data:     make([]byte, total),
	}, nil
}

// Len returns the number of rows.
func (a *Array) Len() int {
	return a.n
}

// DType returns the data type of the elements' values.
func (a *Array) DType() dtype.DType {
	return a.dType
}

// ElementShape returns the shape of each element, excluding the row
// dimension.
func (a *Array) ElementShape() []int {
	return copyShape(a.shape)
}

// Shape returns the full shape of the buffer (N, d1, ..., dk).
func (a *Array) Shape() []int {
	return append([]int{a.n}, a.shape...)
}

// Ndim returns the number of dimensions of the buffer, row dimension
// included.
func (a *Array) Ndim() int {
	return len(a.shape) + 1
}

// RowBytes returns the size in bytes of one element.
func (a *Array) RowBytes() int {
	return a.rowBytes
}

// Bytes returns the backing buffer. The value returned is NOT a copy.
func (a *Array) Bytes() []byte {
	return a.data
}

// ColumnType returns the element type descriptor of the column.
func (a *Array) ColumnType() TensorDType {
	return TensorDType{}
}

func (a *Array) row(i int) []byte {
	return a.data[i*a.rowBytes : (i+1)*a.rowBytes]
}

func (a *Array) normalizeIndex(i int) (int, error) {
	j := i
	if j < 0 {
		j += a.n
	}
	if j < 0 || j >= a.n {
		return 0, Errorf(KindIndex, "index %d is out of bounds for length %d", i, a.n)
	}
	return j, nil
}

func (a *Array) tensorAt(i int) Tensor {
	data, err := readData(a.dType, a.row(i))
	if err != nil {
		panic(err) // unreachable for a valid Array
	}
	return Tensor{dType: a.dType, shape: copyShape(a.shape), data: data}
}

// Get returns a copy of the element at position i. Negative positions
// count from the end.
func (a *Array) Get(i int) (Tensor, error) {
	j, err := a.normalizeIndex(i)
	if err != nil {
		return Tensor{}, err
	}
	return a.tensorAt(j), nil
}

// Slice returns a view over rows [start, stop), sharing the same buffer.
// Bounds are interpreted like Python slices: negative values count from
// the end, and out-of-range values are clamped.
func (a *Array) Slice(start, stop int) *Array {
	start = clampSliceBound(start, a.n)
	stop = clampSliceBound(stop, a.n)
	if stop < start {
		stop = start
	}
	lo, hi := start*a.rowBytes, stop*a.rowBytes
	return &Array{
		dType:    a.dType,
		shape:    a.shape,
		n:        stop - start,
		rowBytes: a.rowBytes,
		data:     a.data[lo:hi:hi],
	}
}

func clampSliceBound(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

// Filter returns a new Array with the rows for which mask is true.
func (a *Array) Filter(mask []bool) (*Array, error) {
	if len(mask) != a.n {
		return nil, Errorf(KindIndex, "boolean index has length %d, expected %d", len(mask), a.n)
	}
	out := &Array{
		dType:    a.dType,
		shape:    a.shape,
		rowBytes: a.rowBytes,
	}
	for i, ok := range mask {
		if ok {
			out.data = append(out.data, a.row(i)...)
			out.n++
		}
	}
	if out.data == nil {
		out.data = []byte{}
	}
	return out, nil
}

// Copy returns a deep copy of the Array.
func (a *Array) Copy() *Array {
	data := make([]byte, len(a.data))
	copy(data, a.data)
	return &Array{
		dType:    a.dType,
		shape:    a.shape,
		n:        a.n,
		rowBytes: a.rowBytes,
		data:     data,
	}
}

// View returns a new Array sharing the same buffer.
func (a *Array) View() *Array {
	v := *a
	return &v
}

// IsMissing reports, for each row, whether any value of its tensor is NaN.
func (a *Array) IsMissing() []bool {
	out := make([]bool, a.n)
	for i := range out {
		out[i] = hasNaN(a.dType, a.row(i))
	}
	return out
}

// StructurallyEqual reports whether other has the same data type, the
// same full shape, and all values equal. It compares the whole buffers
// and does not produce a per-row result. NaN values are never equal.
func (a *Array) StructurallyEqual(other *Array) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.dType == other.dType &&
		a.n == other.n &&
		equalShapes(a.shape, other.shape) &&
		equalData(a.dType, a.data, other.data)
}

// Concat concatenates arrays along the row dimension into a new Array.
// All arrays must share data type and element shape.
func Concat(arrays ...*Array) (*Array, error) {
	if len(arrays) == 0 {
		return nil, Errorf(KindValue, "no arrays to concatenate")
	}
	for i, x := range arrays {
		if x == nil {
			return nil, Errorf(KindValue, "array %d is nil", i)
		}
	}
	first := arrays[0]
	total := 0
	for i, x := range arrays {
		if x.dType != first.dType {
			return nil, Errorf(KindType, "array %d has type %s, expected %s", i, x.dType, first.dType)
		}
		if !equalShapes(x.shape, first.shape) {
			return nil, Errorf(KindShape, "array %d has element shape %v, expected %v", i, x.shape, first.shape)
		}
		total += len(x.data)
	}
	data := make([]byte, 0, total)
	n := 0
	for _, x := range arrays {
		data = append(data, x.data...)
		n += x.n
	}
	return &Array{
		dType:    first.dType,
		shape:    first.shape,
		n:        n,
		rowBytes: first.rowBytes,
		data:     data,
	}, nil
}
