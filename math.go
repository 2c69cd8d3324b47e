// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import (
	"fmt"
	"math"
	"math/bits"
)

// checkedMul multiplies a and b and checks for overflow.
// Both operands must be non-negative.
func checkedMul(a, b int) (int, error) {
	hi, lo := bits.Mul(uint(a), uint(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, fmt.Errorf("multiplication overflow: %d * %d", a, b)
	}
	return int(lo), nil
}

// shapeSize returns the number of elements described by shape.
// An empty shape describes a scalar.
func shapeSize(shape []int) (int, error) {
	size := 1
	for _, v := range shape {
		if v < 0 {
			return 0, fmt.Errorf("shape contains a negative value")
		}
		var err error
		if size, err = checkedMul(size, v); err != nil {
			return 0, err
		}
	}
	return size, nil
}

func copyShape(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return s
}

func equalShapes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
