// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import (
	"math"
	"testing"

	"github.com/nlpodyssey/tensorcolumn/dtype"
	"github.com/nlpodyssey/tensorcolumn/float16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commonDefinitions = map[string]struct {
	dType      dtype.DType
	shape      []int
	typedValue any
	bytes      []byte
}{
	"u8": {
		dtype.U8, []int{2, 2},
		[]uint8{0, 1, 254, 255},
		[]byte{0x00, 0x01, 0xfe, 0xff},
	},
	"i8": {
		dtype.I8, []int{2, 2},
		[]int8{0, 1, -2, -1},
		[]byte{0x00, 0x01, 0xfe, 0xff},
	},
	"u16": {
		dtype.U16, []int{2, 2},
		[]uint16{0, 1, 65534, 65535},
		[]byte{
			0x00, 0x00 /**/, 0x01, 0x00,
			0xfe, 0xff /**/, 0xff, 0xff,
		},
	},
	"i16": {
		dtype.I16, []int{2, 2},
		[]int16{0, 1, -2, -1},
		[]byte{
			0x00, 0x00 /**/, 0x01, 0x00,
			0xfe, 0xff /**/, 0xff, 0xff,
		},
	},
	"f16": {
		dtype.F16, []int{2, 2},
		[]float16.F16{0x0001, 0x0203, 0x0405, 0x0607},
		[]byte{
			0x01, 0x00 /**/, 0x03, 0x02,
			0x05, 0x04 /**/, 0x07, 0x06,
		},
	},
	"u32": {
		dtype.U32, []int{2, 2},
		[]uint32{1, 2, 4294967294, 4294967295},
		[]byte{
			0x01, 0x00, 0x00, 0x00 /**/, 0x02, 0x00, 0x00, 0x00,
			0xfe, 0xff, 0xff, 0xff /**/, 0xff, 0xff, 0xff, 0xff,
		},
	},
	"i32": {
		dtype.I32, []int{2, 2},
		[]int32{1, 2, -2, -1},
		[]byte{
			0x01, 0x00, 0x00, 0x00 /**/, 0x02, 0x00, 0x00, 0x00,
			0xfe, 0xff, 0xff, 0xff /**/, 0xff, 0xff, 0xff, 0xff,
		},
	},
	"f32": {
		dtype.F32, []int{2, 2},
		[]float32{1, 2, -1, -2},
		[]byte{
			0x00, 0x00, 0x80, 0x3f /**/, 0x00, 0x00, 0x00, 0x40,
			0x00, 0x00, 0x80, 0xbf /**/, 0x00, 0x00, 0x00, 0xc0,
		},
	},
	"u64": {
		dtype.U64, []int{2, 1},
		[]uint64{1, 18446744073709551615},
		[]byte{
			0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		},
	},
	"i64": {
		dtype.I64, []int{1, 2},
		[]int64{1, -1},
		[]byte{
			0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		},
	},
	"f64": {
		dtype.F64, []int{2},
		[]float64{1, -1},
		[]byte{
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0xbf,
		},
	},
	"zero data": {
		dtype.U8, []int{0},
		[]uint8{},
		nil,
	},
	"no shape scalar": {
		dtype.U8, nil,
		[]uint8{42},
		[]byte{42},
	},
}

func TestReadData(t *testing.T) {
	for name, def := range commonDefinitions {
		t.Run(name, func(t *testing.T) {
			data, err := readData(def.dType, def.bytes)
			require.NoError(t, err)
			assert.Equal(t, def.typedValue, data)
		})
	}

	t.Run("invalid length", func(t *testing.T) {
		_, err := readData(dtype.F32, []byte{1, 2, 3})
		assert.Error(t, err)
	})

	t.Run("invalid DType", func(t *testing.T) {
		_, err := readData(dtype.DType(0), []byte{1})
		assert.Error(t, err)
	})
}

func TestAppendData(t *testing.T) {
	for name, def := range commonDefinitions {
		t.Run(name, func(t *testing.T) {
			b, err := appendData(nil, def.dType, def.typedValue)
			require.NoError(t, err)
			assert.Equal(t, def.bytes, b)
		})
	}

	t.Run("appends to existing data", func(t *testing.T) {
		b, err := appendData([]byte{9}, dtype.I16, []int16{-1})
		require.NoError(t, err)
		assert.Equal(t, []byte{9, 0xff, 0xff}, b)
	})

	t.Run("mismatching data type", func(t *testing.T) {
		_, err := appendData(nil, dtype.F32, []float64{1})
		assert.Error(t, err)
	})
}

func TestHasNaN(t *testing.T) {
	f32 := func(v ...float32) []byte {
		b, err := appendData(nil, dtype.F32, v)
		require.NoError(t, err)
		return b
	}
	f64 := func(v ...float64) []byte {
		b, err := appendData(nil, dtype.F64, v)
		require.NoError(t, err)
		return b
	}
	nan32 := float32(math.NaN())

	assert.False(t, hasNaN(dtype.F32, f32(1, 2, float32(math.Inf(1)))))
	assert.True(t, hasNaN(dtype.F32, f32(1, nan32)))
	assert.False(t, hasNaN(dtype.F64, f64(0, -1)))
	assert.True(t, hasNaN(dtype.F64, f64(math.NaN(), 0)))
	assert.True(t, hasNaN(dtype.F16, []byte{0x00, 0x3c, 0x00, 0x7e}))
	assert.False(t, hasNaN(dtype.F16, []byte{0x00, 0x3c, 0x00, 0x7c}))
	assert.False(t, hasNaN(dtype.U16, []byte{0x00, 0x7e}))
	assert.False(t, hasNaN(dtype.F32, nil))
}

func TestEqualData(t *testing.T) {
	f64 := func(v ...float64) []byte {
		b, err := appendData(nil, dtype.F64, v)
		require.NoError(t, err)
		return b
	}

	assert.True(t, equalData(dtype.F64, f64(1, 2), f64(1, 2)))
	assert.False(t, equalData(dtype.F64, f64(1, 2), f64(1, 3)))
	assert.False(t, equalData(dtype.F64, f64(1), f64(1, 2)))
	assert.True(t, equalData(dtype.F64, f64(0), f64(math.Copysign(0, -1))), "+0 == -0")
	assert.False(t, equalData(dtype.F64, f64(math.NaN()), f64(math.NaN())), "NaN != NaN")
	assert.False(t, equalData(dtype.F16, []byte{0x00, 0x7e}, []byte{0x00, 0x7e}), "NaN != NaN")
	assert.True(t, equalData(dtype.F16, []byte{0x00, 0x00}, []byte{0x00, 0x80}), "+0 == -0")
	assert.True(t, equalData(dtype.I32, []byte{1, 0, 0, 0}, []byte{1, 0, 0, 0}))
	assert.False(t, equalData(dtype.I32, []byte{1, 0, 0, 0}, []byte{2, 0, 0, 0}))
}

func TestNAData(t *testing.T) {
	for _, dt := range []dtype.DType{dtype.F16, dtype.F32, dtype.F64} {
		b, err := naData(dt, 3)
		require.NoError(t, err, dt.String())
		assert.Len(t, b, 3*dt.Size())
		assert.True(t, hasNaN(dt, b))
	}

	b, err := naData(dtype.F16, 1)
	require.NoError(t, err)
	assert.Equal(t, float16.NaN, float16.F16(readUint16(b)))

	_, err = naData(dtype.I32, 1)
	assert.ErrorIs(t, err, ErrType)
}
