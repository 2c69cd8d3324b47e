// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import "github.com/nlpodyssey/tensorcolumn/dtype"

// Accessor is a read-only view over an Array's buffer.
type Accessor struct {
	a *Array
}

// Accessor returns a read-only view over the Array.
func (a *Array) Accessor() Accessor {
	return Accessor{a: a}
}

// Bytes returns a copy of the raw buffer.
func (acc Accessor) Bytes() []byte {
	b := make([]byte, len(acc.a.data))
	copy(b, acc.a.data)
	return b
}

// Values returns a copy of all the values of the buffer as a flat typed
// slice (see Tensor for the possible types).
func (acc Accessor) Values() any {
	data, err := readData(acc.a.dType, acc.a.data)
	if err != nil {
		panic(err) // unreachable for a valid Array
	}
	return data
}

// DType returns the data type of the values.
func (acc Accessor) DType() dtype.DType {
	return acc.a.dType
}

// Ndim returns the number of dimensions, row dimension included.
func (acc Accessor) Ndim() int {
	return acc.a.Ndim()
}

// Shape returns the full shape (N, d1, ..., dk).
func (acc Accessor) Shape() []int {
	return acc.a.Shape()
}

// AccessorValues is a typed version of Accessor.Values.
func AccessorValues[T Element](acc Accessor) ([]T, error) {
	if dt := dTypeOf[T](); dt != acc.a.dType {
		return nil, Errorf(KindType, "cannot get %s values from array of type %s", dt, acc.a.dType)
	}
	return acc.Values().([]T), nil
}
