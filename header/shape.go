// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"fmt"
	"math"

	gojson "github.com/goccy/go-json"
)

// The Shape of a tensor.
type Shape []int

// MarshalJSON prevents a nil Shape to be serialized as "null",
// preferring an empty array "[]" instead.
func (s Shape) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return gojson.Marshal([]int(s))
}

// Equal reports whether two shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// NumElements returns the number of scalar values of a tensor with
// this shape.
func (s Shape) NumElements() (int, error) {
	size, err := tensorSizeFromShape(s)
	if err != nil {
		return 0, err
	}
	if size > math.MaxInt {
		return 0, fmt.Errorf("number of elements is too large for int type: %d", size)
	}
	return int(size), nil
}
