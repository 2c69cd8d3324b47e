// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := Errorf(KindShape, "item %d has shape %v", 1, []int{2, 4})
	assert.EqualError(t, err, "shape: item 1 has shape [2 4]")
	assert.ErrorIs(t, err, ErrShape)
	assert.NotErrorIs(t, err, ErrRank)
	assert.True(t, IsKind(err, KindShape))
	assert.False(t, IsKind(err, KindIndex))
	assert.False(t, IsKind(errors.New("foo"), KindIndex))
}

func TestWrap(t *testing.T) {
	cause := errors.New("bad input")
	err := Wrap(cause, KindValue, "failed to decode")
	assert.EqualError(t, err, "value: failed to decode: bad input")
	assert.ErrorIs(t, err, ErrValue)
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("outer: %w", err)
	assert.ErrorIs(t, wrapped, ErrValue)
	assert.True(t, IsKind(wrapped, KindValue))

	assert.NoError(t, Wrap(nil, KindValue, "nothing"))
}

func TestSentinels(t *testing.T) {
	assert.EqualError(t, ErrIndex, "index: error")
	assert.ErrorIs(t, ErrUnsupportedOperation, ErrUnsupportedOperation)
	assert.NotErrorIs(t, ErrType, ErrValue)
}
