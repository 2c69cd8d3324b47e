// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import (
	"testing"

	"github.com/nlpodyssey/tensorcolumn/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray_Take(t *testing.T) {
	a := rowsF32(t, 3)

	t.Run("without fill", func(t *testing.T) {
		r, err := a.Take([]int{0, -1}, false, nil)
		require.NoError(t, err)
		require.Equal(t, 2, r.Len())
		assert.Equal(t, float32(0), rowValuesF32(t, r, 0)[0])
		assert.Equal(t, float32(20), rowValuesF32(t, r, 1)[0])
	})

	t.Run("with fill value", func(t *testing.T) {
		z := fullF32(-5)
		r, err := a.Take([]int{0, -1}, true, &z)
		require.NoError(t, err)
		require.Equal(t, 2, r.Len())
		assert.Equal(t, float32(0), rowValuesF32(t, r, 0)[0])
		assert.Equal(t, []float32{-5, -5, -5, -5, -5, -5}, rowValuesF32(t, r, 1))
	})

	t.Run("with default fill", func(t *testing.T) {
		r, err := a.Take([]int{-1, 1}, true, nil)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false}, r.IsMissing())
	})

	t.Run("repeated and empty", func(t *testing.T) {
		r, err := a.Take([]int{1, 1, 1}, false, nil)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2, 3}, r.Shape())

		r, err = a.Take(nil, false, nil)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 2, 3}, r.Shape())
	})

	t.Run("result is a copy", func(t *testing.T) {
		r, err := a.Take([]int{0}, false, nil)
		require.NoError(t, err)
		require.NoError(t, r.Set(0, fullF32(1)))
		assert.Equal(t, float32(0), rowValuesF32(t, a, 0)[0])
	})

	t.Run("errors", func(t *testing.T) {
		_, err := a.Take([]int{3}, false, nil)
		assert.ErrorIs(t, err, ErrIndex)
		_, err = a.Take([]int{-4}, false, nil)
		assert.ErrorIs(t, err, ErrIndex)
		_, err = a.Take([]int{-2}, true, nil)
		assert.ErrorIs(t, err, ErrValue)
		_, err = a.Take([]int{3}, true, nil)
		assert.ErrorIs(t, err, ErrIndex)

		wrong := MustTensorOf([]int{2}, []float32{1, 2})
		_, err = a.Take([]int{-1}, true, &wrong)
		assert.ErrorIs(t, err, ErrShape)
	})

	t.Run("integer types", func(t *testing.T) {
		ints, err := NewArray(dtype.I32, []int{2, 2}, []int32{1, 2, 3, 4})
		require.NoError(t, err)

		r, err := ints.Take([]int{1, 0}, true, nil)
		require.NoError(t, err, "no fill needed")
		assert.Equal(t, []int32{3, 4, 1, 2}, r.Accessor().Values())

		_, err = ints.Take([]int{-1}, true, nil)
		assert.ErrorIs(t, err, ErrType)

		zero := MustTensorOf(nil, []int32{0})
		r, err = ints.Take([]int{-1, 0}, true, &zero)
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 0, 1, 2}, r.Accessor().Values())
	})
}
