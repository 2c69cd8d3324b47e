// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrowext

import (
	"fmt"
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/nlpodyssey/tensorcolumn"
	"github.com/nlpodyssey/tensorcolumn/dtype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// makeArray creates an Array of n rows of shape (3, 4), with distinct
// values, negative ones included.
func makeArray(t *testing.T, dt dtype.DType, n int) *tensorcolumn.Array {
	t.Helper()
	size := n * 12
	var data any
	switch dt {
	case dtype.F32:
		v := make([]float32, size)
		for i := range v {
			v[i] = float32(i)*0.25 - 7
		}
		data = v
	case dtype.F64:
		v := make([]float64, size)
		for i := range v {
			v[i] = float64(i)*1e-3 - 1
		}
		data = v
	case dtype.I32:
		v := make([]int32, size)
		for i := range v {
			v[i] = int32(i*7919) - 5000
		}
		data = v
	default:
		t.Fatalf("unexpected type %s", dt)
	}
	a, err := tensorcolumn.NewArray(dt, []int{n, 3, 4}, data)
	require.NoError(t, err)
	return a
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, dt := range []dtype.DType{dtype.F32, dtype.F64, dtype.I32} {
		for _, n := range []int{0, 1, 100} {
			t.Run(fmt.Sprintf("%s x %d", dt, n), func(t *testing.T) {
				mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
				defer mem.AssertSize(t, 0)
				codec := NewCodec(WithAllocator(mem))

				a := makeArray(t, dt, n)
				encoded, err := codec.Encode(a)
				require.NoError(t, err)
				defer encoded.Release()

				assert.Equal(t, n, encoded.Len())
				typ := encoded.TensorType()
				assert.Equal(t, []int{3, 4}, typ.Shape())
				assert.Equal(t, dt, typ.Subtype())
				assert.Equal(t, 12*dt.Size(), typ.CellWidth())

				decoded, err := codec.Decode(encoded)
				require.NoError(t, err)
				assert.Equal(t, a.Shape(), decoded.Shape())
				assert.Equal(t, a.DType(), decoded.DType())
				assert.Equal(t, a.Bytes(), decoded.Bytes())
			})
		}
	}
}

func TestCodec_RoundTrip_PreservesNaN(t *testing.T) {
	a, err := tensorcolumn.NewArray(dtype.F64, []int{2, 2}, []float64{math.NaN(), math.Copysign(0, -1), math.Inf(1), 1})
	require.NoError(t, err)

	codec := NewCodec()
	encoded, err := codec.Encode(a)
	require.NoError(t, err)
	defer encoded.Release()

	decoded, err := codec.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes(), decoded.Bytes())
	assert.Equal(t, []bool{true, false}, decoded.IsMissing())
}

func TestCodec_Encode_IsACopy(t *testing.T) {
	a := makeArray(t, dtype.F32, 2)
	codec := NewCodec()
	encoded, err := codec.Encode(a)
	require.NoError(t, err)
	defer encoded.Release()

	before := append([]byte(nil), encoded.Cell(0)...)
	require.NoError(t, a.Set(0, tensorcolumn.MustTensorOf(nil, []float32{42})))
	assert.Equal(t, before, encoded.Cell(0))
}

func TestCodec_DecodeChunked(t *testing.T) {
	codec := NewCodec()
	a := makeArray(t, dtype.I32, 5)

	first, err := codec.Encode(a.Slice(0, 2))
	require.NoError(t, err)
	defer first.Release()
	second, err := codec.Encode(a.Slice(2, 5))
	require.NoError(t, err)
	defer second.Release()

	chunked := arrow.NewChunked(first.DataType(), []arrow.Array{first, second})
	defer chunked.Release()

	decoded, err := codec.DecodeChunked(chunked)
	require.NoError(t, err)
	assert.True(t, a.StructurallyEqual(decoded))

	empty := arrow.NewChunked(first.DataType(), nil)
	defer empty.Release()
	decoded, err = codec.DecodeChunked(empty)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 4}, decoded.Shape())
}

func TestCodec_DecodeStorage(t *testing.T) {
	codec := NewCodec()
	a := makeArray(t, dtype.F32, 3)
	encoded, err := codec.Encode(a)
	require.NoError(t, err)
	defer encoded.Release()

	decoded, err := codec.DecodeStorage(encoded.TensorType(), encoded.Storage())
	require.NoError(t, err)
	assert.True(t, a.StructurallyEqual(decoded))

	sliced := array.NewSlice(encoded, 1, 3)
	defer sliced.Release()
	decoded, err = codec.Decode(sliced)
	require.NoError(t, err)
	assert.True(t, a.Slice(1, 3).StructurallyEqual(decoded))
}

// storageWithNull creates a storage array of three cells of width 8,
// the second of which is null.
func storageWithNull(t *testing.T, mem memory.Allocator) *array.FixedSizeBinary {
	t.Helper()
	b := array.NewFixedSizeBinaryBuilder(mem, &arrow.FixedSizeBinaryType{ByteWidth: 8})
	defer b.Release()
	b.Append([]byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0x40})
	b.AppendNull()
	b.Append([]byte{0, 0, 0x40, 0x40, 0, 0, 0x80, 0x40})
	return b.NewFixedSizeBinaryArray()
}

func TestCodec_Decode_NullCells(t *testing.T) {
	codec := NewCodec()
	storage := storageWithNull(t, memory.DefaultAllocator)
	defer storage.Release()

	t.Run("float subtype", func(t *testing.T) {
		typ, err := NewTensorType([]int{2}, dtype.F32)
		require.NoError(t, err)
		arr := array.NewExtensionArrayWithStorage(typ, storage)
		defer arr.Release()

		decoded, err := codec.Decode(arr)
		require.NoError(t, err)
		assert.Equal(t, []bool{false, true, false}, decoded.IsMissing())
		values := decoded.Accessor().Values().([]float32)
		assert.Equal(t, []float32{1, 2}, values[:2])
		assert.True(t, math.IsNaN(float64(values[2])))
		assert.Equal(t, []float32{3, 4}, values[4:])
		assert.Equal(t, "(null)", arr.(*TensorArray).ValueStr(1))
		assert.Equal(t, "[3 4]", arr.(*TensorArray).ValueStr(2))
	})

	t.Run("integer subtype", func(t *testing.T) {
		typ, err := NewTensorType([]int{2}, dtype.I32)
		require.NoError(t, err)
		arr := array.NewExtensionArrayWithStorage(typ, storage)
		defer arr.Release()

		_, err = codec.Decode(arr)
		assert.ErrorIs(t, err, tensorcolumn.ErrValue)
	})
}

func TestCodec_Decode_Failure(t *testing.T) {
	codec := NewCodec()

	b := array.NewInt32Builder(memory.DefaultAllocator)
	defer b.Release()
	b.Append(1)
	ints := b.NewArray()
	defer ints.Release()

	_, err := codec.Decode(ints)
	assert.ErrorIs(t, err, tensorcolumn.ErrType)

	chunked := arrow.NewChunked(ints.DataType(), []arrow.Array{ints})
	defer chunked.Release()
	_, err = codec.DecodeChunked(chunked)
	assert.ErrorIs(t, err, tensorcolumn.ErrType)

	typ, err := NewTensorType([]int{2}, dtype.I32)
	require.NoError(t, err)
	_, err = codec.DecodeStorage(typ, ints)
	assert.ErrorIs(t, err, tensorcolumn.ErrType)

	storage := storageWithNull(t, memory.DefaultAllocator)
	defer storage.Release()
	wide, err := NewTensorType([]int{3}, dtype.I32)
	require.NoError(t, err)
	_, err = codec.DecodeStorage(wide, storage)
	assert.ErrorIs(t, err, tensorcolumn.ErrValue)
}

func TestTensorArray_String(t *testing.T) {
	a, err := tensorcolumn.NewArray(dtype.U8, []int{2, 2, 2}, []uint8{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	encoded, err := NewCodec().Encode(a)
	require.NoError(t, err)
	defer encoded.Release()

	assert.Equal(t, "[[[1 2] [3 4]] [[5 6] [7 8]]]", encoded.String())
	assert.Equal(t, "[[5 6] [7 8]]", encoded.GetOneForMarshal(1))
	assert.Equal(t, []byte{5, 6, 7, 8}, encoded.Cell(1))
}

func TestCodec_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	codec := NewCodec(WithMetrics(m))

	a := makeArray(t, dtype.F32, 3)
	encoded, err := codec.Encode(a)
	require.NoError(t, err)
	defer encoded.Release()
	_, err = codec.Decode(encoded)
	require.NoError(t, err)

	b := array.NewInt32Builder(memory.DefaultAllocator)
	defer b.Release()
	ints := b.NewArray()
	defer ints.Release()
	_, err = codec.Decode(ints)
	require.Error(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.rows.WithLabelValues(opEncode)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.rows.WithLabelValues(opDecode)))
	assert.Equal(t, 144.0, testutil.ToFloat64(m.bytes.WithLabelValues(opEncode)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.errors.WithLabelValues(opEncode)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(opDecode)))

	count, err := testutil.GatherAndCount(reg, "tensorcolumn_codec_rows_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCodec_Logger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	codec := NewCodec(WithLogger(zap.New(core)))

	encoded, err := codec.Encode(makeArray(t, dtype.F64, 2))
	require.NoError(t, err)
	defer encoded.Release()
	_, err = codec.Decode(encoded)
	require.NoError(t, err)

	entries := logs.FilterMessage("encoded tensor column").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["rows"])
	assert.Equal(t, 1, logs.FilterMessage("decoded tensor column").Len())
}

func TestCodec_DecodeStorage_SubtypeMismatch(t *testing.T) {
	codec := NewCodec()
	encoded, err := codec.Encode(makeArray(t, dtype.I32, 2))
	require.NoError(t, err)
	defer encoded.Release()

	sameWidth, err := NewTensorType([]int{3, 4}, dtype.F32)
	require.NoError(t, err)
	require.Equal(t, encoded.TensorType().CellWidth(), sameWidth.CellWidth())

	_, err = codec.DecodeStorage(sameWidth, encoded)
	assert.ErrorIs(t, err, tensorcolumn.ErrType)

	decoded, err := codec.DecodeStorage(sameWidth, encoded.Storage())
	require.NoError(t, err, "bare storage carries no subtype to check")
	assert.Equal(t, dtype.F32, decoded.DType())
}
