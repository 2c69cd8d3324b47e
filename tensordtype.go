// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import "math"

// TensorDTypeName is the name of the logical column type.
const TensorDTypeName = "Tensor"

// TensorDType is the element type descriptor of tensor columns. It names
// the logical column type, maps it to the Array implementation and
// supplies the missing value sentinel. It holds no data.
type TensorDType struct{}

// Name returns TensorDTypeName.
func (TensorDType) Name() string {
	return TensorDTypeName
}

func (d TensorDType) String() string {
	return d.Name()
}

// Kind returns the character code of the scalar kind of the column,
// 'O' for generic objects.
func (TensorDType) Kind() byte {
	return 'O'
}

// NAValue returns the missing value sentinel, NaN.
func (TensorDType) NAValue() float64 {
	return math.NaN()
}

// ConstructArray creates an Array from a sequence of tensors.
func (TensorDType) ConstructArray(items []Tensor) (*Array, error) {
	return FromTensors(items)
}

// ConstructFromString returns the descriptor named s, failing with
// ErrType if s is not TensorDTypeName.
func ConstructFromString(s string) (TensorDType, error) {
	if s != TensorDTypeName {
		return TensorDType{}, Errorf(KindType, "cannot construct a %q from %q", TensorDTypeName, s)
	}
	return TensorDType{}, nil
}
