// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import (
	"fmt"
	"math"

	"github.com/nlpodyssey/tensorcolumn/dtype"
	"github.com/nlpodyssey/tensorcolumn/float16"
)

// appendData converts typed data to little-endian byte format,
// appending the result to dst.
func appendData(dst []byte, dt dtype.DType, data any) ([]byte, error) {
	if data == nil {
		return dst, nil
	}
	switch dt {
	case dtype.U8:
		return appendU8Data(dst, data)
	case dtype.I8:
		return appendI8Data(dst, data)
	case dtype.U16:
		return append16bitData[uint16](dst, data)
	case dtype.I16:
		return append16bitData[int16](dst, data)
	case dtype.F16:
		return append16bitData[float16.F16](dst, data)
	case dtype.U32:
		return append32bitData[uint32](dst, data)
	case dtype.I32:
		return append32bitData[int32](dst, data)
	case dtype.F32:
		return appendF32Data(dst, data)
	case dtype.U64:
		return append64bitData[uint64](dst, data)
	case dtype.I64:
		return append64bitData[int64](dst, data)
	case dtype.F64:
		return appendF64Data(dst, data)
	}
	return dst, fmt.Errorf("invalid or unsupported DType: %s", dt)
}

func appendU8Data(dst []byte, data any) ([]byte, error) {
	v, err := castSlice[uint8](data)
	if err != nil {
		return dst, err
	}
	return append(dst, v...), nil
}

func appendI8Data(dst []byte, data any) ([]byte, error) {
	v, err := castSlice[int8](data)
	if err != nil {
		return dst, err
	}
	for _, x := range v {
		dst = append(dst, byte(x))
	}
	return dst, nil
}

func append16bitData[T uint16 | int16 | float16.F16](dst []byte, data any) ([]byte, error) {
	v, err := castSlice[T](data)
	if err != nil {
		return dst, err
	}
	for _, x := range v {
		dst = append(dst, byte(x), byte(x>>8))
	}
	return dst, nil
}

func append32bitData[T uint32 | int32](dst []byte, data any) ([]byte, error) {
	v, err := castSlice[T](data)
	if err != nil {
		return dst, err
	}
	for _, x := range v {
		dst = append(dst, byte(x), byte(x>>8), byte(x>>16), byte(x>>24))
	}
	return dst, nil
}

func appendF32Data(dst []byte, data any) ([]byte, error) {
	v, err := castSlice[float32](data)
	if err != nil {
		return dst, err
	}
	for _, x := range v {
		u := math.Float32bits(x)
		dst = append(dst, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
	}
	return dst, nil
}

func append64bitData[T uint64 | int64](dst []byte, data any) ([]byte, error) {
	v, err := castSlice[T](data)
	if err != nil {
		return dst, err
	}
	for _, x := range v {
		dst = append(dst,
			byte(x), byte(x>>8), byte(x>>16), byte(x>>24),
			byte(x>>32), byte(x>>40), byte(x>>48), byte(x>>56))
	}
	return dst, nil
}

func appendF64Data(dst []byte, data any) ([]byte, error) {
	v, err := castSlice[float64](data)
	if err != nil {
		return dst, err
	}
	for _, x := range v {
		u := math.Float64bits(x)
		dst = append(dst,
			byte(u), byte(u>>8), byte(u>>16), byte(u>>24),
			byte(u>>32), byte(u>>40), byte(u>>48), byte(u>>56))
	}
	return dst, nil
}

func castSlice[T any](x any) ([]T, error) {
	y, ok := x.([]T)
	if !ok {
		return y, fmt.Errorf("expected data type %T, actual %T", y, x)
	}
	return y, nil
}

// naBits holds the little-endian bytes of the canonical NaN value
// of each floating point type.
var naBits = map[dtype.DType][]byte{
	dtype.F16: {0x00, 0x7e},
	dtype.F32: {0x00, 0x00, 0xc0, 0x7f},
	dtype.F64: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf8, 0x7f},
}

// naData returns n canonical NaN values of type dt, in byte format.
func naData(dt dtype.DType, n int) ([]byte, error) {
	if !dt.IsFloat() {
		return nil, Errorf(KindType, "type %s has no missing value representation", dt)
	}
	bits := naBits[dt]
	out := make([]byte, 0, n*len(bits))
	for i := 0; i < n; i++ {
		out = append(out, bits...)
	}
	return out, nil
}
