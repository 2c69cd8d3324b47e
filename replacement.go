// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import (
	"github.com/nlpodyssey/tensorcolumn/dtype"
)

type replacementKind uint8

const (
	replaceMissing replacementKind = iota
	replaceBroadcast
	replacePerRow
)

// A Replacement is the value assigned by SetRows, SetMask and Where.
//
// The zero value is the generic missing value, resolved to the NA tensor
// of the column's data type when used.
type Replacement struct {
	kind  replacementKind
	value Tensor
	rows  []Tensor
}

// Missing returns the generic missing value replacement.
func Missing() Replacement {
	return Replacement{kind: replaceMissing}
}

// Broadcast returns a replacement assigning the same tensor to every
// selected row. A tensor with exactly one value is further broadcast to
// the element shape.
func Broadcast(t Tensor) Replacement {
	return Replacement{kind: replaceBroadcast, value: t}
}

// PerRow returns a replacement providing one tensor for each row.
func PerRow(rows []Tensor) Replacement {
	return Replacement{kind: replacePerRow, rows: rows}
}

// IsMissing reports whether r is the generic missing value.
func (r Replacement) IsMissing() bool {
	return r.kind == replaceMissing
}

// NA returns a tensor of the given type and shape filled with NaN.
// Integer types have no missing value representation.
func NA(dType dtype.DType, shape []int) (Tensor, error) {
	size, err := shapeSize(shape)
	if err != nil {
		return Tensor{}, Wrap(err, KindShape, "invalid shape")
	}
	b, err := naData(dType, size)
	if err != nil {
		return Tensor{}, err
	}
	data, err := readData(dType, b)
	if err != nil {
		return Tensor{}, Wrap(err, KindType, "invalid type")
	}
	return Tensor{dType: dType, shape: copyShape(shape), data: data}, nil
}

// resolve turns the generic missing value into the NA tensor of a's type.
func (a *Array) resolve(r Replacement) (Replacement, error) {
	if r.kind != replaceMissing {
		return r, nil
	}
	na, err := NA(a.dType, a.shape)
	if err != nil {
		return Replacement{}, err
	}
	return Broadcast(na), nil
}

// fit checks t against the array's data type and element shape,
// broadcasting a single value to the whole element.
func (a *Array) fit(t Tensor) (Tensor, error) {
	if t.dType != a.dType {
		return Tensor{}, Errorf(KindType, "value has type %s, expected %s", t.dType, a.dType)
	}
	if equalShapes(t.shape, a.shape) {
		return t, nil
	}
	if t.NumElements() != 1 {
		return Tensor{}, Errorf(KindShape, "value has shape %v, expected %v", t.shape, a.shape)
	}
	b, err := t.Bytes()
	if err != nil {
		return Tensor{}, Wrap(err, KindType, "invalid value data")
	}
	elems := a.rowBytes / len(b)
	full := make([]byte, 0, a.rowBytes)
	for i := 0; i < elems; i++ {
		full = append(full, b...)
	}
	data, err := readData(a.dType, full)
	if err != nil {
		return Tensor{}, Wrap(err, KindType, "invalid value data")
	}
	return Tensor{dType: a.dType, shape: copyShape(a.shape), data: data}, nil
}

// rowValue returns the bytes of t fitted to one row.
func (a *Array) rowValue(t Tensor) ([]byte, error) {
	t, err := a.fit(t)
	if err != nil {
		return nil, err
	}
	b, err := t.Bytes()
	if err != nil {
		return nil, Wrap(err, KindType, "invalid value data")
	}
	return b, nil
}

// Set assigns v to the row at position i, in place. Negative positions
// count from the end.
func (a *Array) Set(i int, v Tensor) error {
	j, err := a.normalizeIndex(i)
	if err != nil {
		return err
	}
	b, err := a.rowValue(v)
	if err != nil {
		return err
	}
	copy(a.row(j), b)
	return nil
}

// SetRows assigns r to the rows at the given positions, in place.
// A PerRow replacement must provide one tensor for each position.
//
// Every position and value is validated before the buffer is modified.
func (a *Array) SetRows(indices []int, r Replacement) error {
	if r.kind == replacePerRow && len(r.rows) != len(indices) {
		return Errorf(KindValue, "cannot set %d rows with %d values", len(indices), len(r.rows))
	}
	rows := make([]int, len(indices))
	used := make([]int, len(indices))
	for k, i := range indices {
		var err error
		if rows[k], err = a.normalizeIndex(i); err != nil {
			return err
		}
		used[k] = k
	}
	values, err := a.replacementValues(r, used)
	if err != nil {
		return err
	}
	for k, j := range rows {
		copy(a.row(j), values(k))
	}
	return nil
}

// SetMask assigns r to the rows for which mask is true, in place.
// A PerRow replacement is aligned with the array: row i takes the
// i-th replacement tensor. Only the tensors of selected rows are used.
//
// Every value is validated before the buffer is modified.
func (a *Array) SetMask(mask []bool, r Replacement) error {
	if len(mask) != a.n {
		return Errorf(KindIndex, "boolean index has length %d, expected %d", len(mask), a.n)
	}
	if r.kind == replacePerRow && len(r.rows) != a.n {
		return Errorf(KindValue, "cannot set an array of length %d with %d values", a.n, len(r.rows))
	}
	var selected []int
	for i, ok := range mask {
		if ok {
			selected = append(selected, i)
		}
	}
	values, err := a.replacementValues(r, selected)
	if err != nil {
		return err
	}
	for _, i := range selected {
		copy(a.row(i), values(i))
	}
	return nil
}

// replacementValues validates the values of r at the given positions,
// returning a function providing the row bytes of each of them.
//
// The generic missing value is resolved only if some position is used.
func (a *Array) replacementValues(r Replacement, positions []int) (func(k int) []byte, error) {
	if len(positions) == 0 {
		return nil, nil
	}
	r, err := a.resolve(r)
	if err != nil {
		return nil, err
	}
	if r.kind == replaceBroadcast {
		b, err := a.rowValue(r.value)
		if err != nil {
			return nil, err
		}
		return func(int) []byte { return b }, nil
	}
	values := make(map[int][]byte, len(positions))
	for _, k := range positions {
		if values[k], err = a.rowValue(r.rows[k]); err != nil {
			return nil, err
		}
	}
	return func(k int) []byte { return values[k] }, nil
}
