// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import "errors"

// maskSetter is the in-place masked assignment used by Where.
type maskSetter func(a *Array, mask []bool, r Replacement) error

// Where returns a new Array equal to a where cond is true, and to other
// where cond is false. The generic missing value is resolved to the NA
// tensor of a's data type when cond has some false position.
//
// The replacement is first attempted in place on a copy of the buffer;
// if that is not supported, the result is rebuilt row by row.
func (a *Array) Where(cond []bool, other Replacement) (*Array, error) {
	return where(a, cond, other, (*Array).SetMask)
}

func where(a *Array, cond []bool, other Replacement, setMask maskSetter) (*Array, error) {
	if len(cond) != a.n {
		return nil, Errorf(KindIndex, "condition has length %d, expected %d", len(cond), a.n)
	}

	mask := make([]bool, len(cond))
	for i, c := range cond {
		mask[i] = !c
	}

	result := a.Copy()
	err := setMask(result, mask, other)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, ErrUnsupportedOperation) {
		return nil, err
	}
	return whereByRow(a, cond, other)
}

// whereByRow builds the result of Where one row at a time. Only the
// replacement tensors of rows where cond is false are validated, as
// SetMask does.
func whereByRow(a *Array, cond []bool, other Replacement) (*Array, error) {
	if other.kind == replacePerRow && len(other.rows) != a.n {
		return nil, Errorf(KindValue, "cannot select from %d values for an array of length %d", len(other.rows), a.n)
	}
	items := make([]Tensor, a.n)
	resolved := false
	for i, c := range cond {
		if c {
			items[i] = a.tensorAt(i)
			continue
		}
		if !resolved {
			var err error
			if other, err = a.resolve(other); err != nil {
				return nil, err
			}
			resolved = true
		}
		v := other.value
		if other.kind == replacePerRow {
			v = other.rows[i]
		}
		var err error
		if items[i], err = a.fit(v); err != nil {
			return nil, err
		}
	}
	return FromTensorsWithType(a.dType, a.shape, items)
}
