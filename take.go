// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

// Take returns a new Array with the rows at the given positions.
//
// When allowFill is false, negative positions count from the end and
// out-of-range positions fail with ErrIndex.
//
// When allowFill is true, the position -1 marks a missing row, which is
// filled with fill, or with the NA tensor if fill is nil; any other
// negative position fails with ErrValue. Integer types have no NA
// tensor, so filling them requires an explicit fill value.
func (a *Array) Take(indices []int, allowFill bool, fill *Tensor) (*Array, error) {
	out := &Array{
		dType:    a.dType,
		shape:    a.shape,
		n:        len(indices),
		rowBytes: a.rowBytes,
		data:     make([]byte, 0, len(indices)*a.rowBytes),
	}

	if !allowFill {
		for _, i := range indices {
			j, err := a.normalizeIndex(i)
			if err != nil {
				return nil, err
			}
			out.data = append(out.data, a.row(j)...)
		}
		return out, nil
	}

	var fillRow []byte
	for _, i := range indices {
		switch {
		case i < -1:
			return nil, Errorf(KindValue, "invalid index %d: only -1 is allowed as missing value marker", i)
		case i >= a.n:
			return nil, Errorf(KindIndex, "index %d is out of bounds for length %d", i, a.n)
		case i >= 0:
			out.data = append(out.data, a.row(i)...)
			continue
		}
		if fillRow == nil {
			var err error
			if fillRow, err = a.fillValue(fill); err != nil {
				return nil, err
			}
		}
		out.data = append(out.data, fillRow...)
	}
	return out, nil
}

func (a *Array) fillValue(fill *Tensor) ([]byte, error) {
	if fill != nil {
		return a.rowValue(*fill)
	}
	r, err := a.resolve(Missing())
	if err != nil {
		return nil, err
	}
	return a.rowValue(r.value)
}
