// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// Validate checks whether the content of a Header is valid, returning an
// error if a problem is encountered, otherwise nil.
//
// The Header is checked against the following rules:
//
//   - the Subtype must be valid (see dtype.DType.Validate)
//   - the Shape must have at least one dimension
//   - each dimension must be strictly positive
//   - the cell width (product of all dimensions * Subtype size) must fit
//     within the "int" type
func (h Header) Validate() error {
	if err := h.Subtype.Validate(); err != nil {
		return err
	}
	if len(h.Shape) == 0 {
		return errors.New("shape must have at least one dimension")
	}
	_, err := h.CellWidth()
	return err
}

// CellWidth returns the size in bytes of one tensor described by the
// Header: product(Shape) * Subtype.BitWidth() / 8.
func (h Header) CellWidth() (int, error) {
	if err := h.Subtype.Validate(); err != nil {
		return 0, err
	}
	size, err := tensorSizeFromShape(h.Shape)
	if err != nil {
		return 0, err
	}
	hi, byteSize := bits.Mul(size, uint(h.Subtype.BitWidth()))
	if hi != 0 {
		return 0, fmt.Errorf("int overflow computing cell width from shape")
	}
	byteSize /= 8
	if byteSize > math.MaxInt {
		return 0, fmt.Errorf("cell width computed from shape is too large for int type: %d", byteSize)
	}
	return int(byteSize), nil
}

func tensorSizeFromShape(s Shape) (uint, error) {
	size := uint(1)
	for _, v := range s {
		if v <= 0 {
			return 0, fmt.Errorf("shape contains non-positive value %d", v)
		}
		var hi uint
		if hi, size = bits.Mul(size, uint(v)); hi != 0 {
			return 0, fmt.Errorf("int overflow computing tensor elements size from shape")
		}
	}
	return size, nil
}
