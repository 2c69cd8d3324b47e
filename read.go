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

// readData interprets little-endian bytes as a new typed slice.
func readData(dt dtype.DType, b []byte) (any, error) {
	size := dt.Size()
	if size <= 0 {
		return nil, fmt.Errorf("invalid or unsupported DType %s", dt)
	}
	if len(b)%size != 0 {
		return nil, fmt.Errorf("data length %d is not a multiple of %s size %d", len(b), dt, size)
	}
	n := len(b) / size

	switch dt {
	case dtype.U8:
		out := make([]uint8, n)
		copy(out, b)
		return out, nil
	case dtype.I8:
		return readI8Data(b, n), nil
	case dtype.U16:
		return read16bitData[uint16](b, n), nil
	case dtype.I16:
		return read16bitData[int16](b, n), nil
	case dtype.F16:
		return read16bitData[float16.F16](b, n), nil
	case dtype.U32:
		return read32bitData[uint32](b, n), nil
	case dtype.I32:
		return read32bitData[int32](b, n), nil
	case dtype.F32:
		return readF32Data(b, n), nil
	case dtype.U64:
		return read64bitData[uint64](b, n), nil
	case dtype.I64:
		return read64bitData[int64](b, n), nil
	case dtype.F64:
		return readF64Data(b, n), nil
	}
	return nil, fmt.Errorf("invalid or unsupported DType %s", dt)
}

func readI8Data(b []byte, size int) []int8 {
	out := make([]int8, size)
	for i := range out {
		out[i] = int8(b[i])
	}
	return out
}

func read16bitData[T uint16 | int16 | float16.F16](b []byte, size int) []T {
	out := make([]T, size)
	for i := range out {
		a := b[i*2 : i*2+2]
		out[i] = T(a[0]) | T(a[1])<<8
	}
	return out
}

func read32bitData[T uint32 | int32](b []byte, size int) []T {
	out := make([]T, size)
	for i := range out {
		a := b[i*4 : i*4+4]
		out[i] = T(a[0]) | T(a[1])<<8 | T(a[2])<<16 | T(a[3])<<24
	}
	return out
}

func readF32Data(b []byte, size int) []float32 {
	out := make([]float32, size)
	for i := range out {
		out[i] = math.Float32frombits(readUint32(b[i*4:]))
	}
	return out
}

func read64bitData[T uint64 | int64](b []byte, size int) []T {
	out := make([]T, size)
	for i := range out {
		a := b[i*8 : i*8+8]
		out[i] = T(a[0]) | T(a[1])<<8 | T(a[2])<<16 | T(a[3])<<24 |
			T(a[4])<<32 | T(a[5])<<40 | T(a[6])<<48 | T(a[7])<<56
	}
	return out
}

func readF64Data(b []byte, size int) []float64 {
	out := make([]float64, size)
	for i := range out {
		out[i] = math.Float64frombits(readUint64(b[i*8:]))
	}
	return out
}

func readUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func readUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func readUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// hasNaN reports whether any value within the little-endian data b
// is NaN. It is always false for integer types.
func hasNaN(dt dtype.DType, b []byte) bool {
	switch dt {
	case dtype.F16:
		for i := 0; i+2 <= len(b); i += 2 {
			if float16.F16(readUint16(b[i:])).IsNaN() {
				return true
			}
		}
	case dtype.F32:
		for i := 0; i+4 <= len(b); i += 4 {
			if f := math.Float32frombits(readUint32(b[i:])); f != f {
				return true
			}
		}
	case dtype.F64:
		for i := 0; i+8 <= len(b); i += 8 {
			if math.IsNaN(math.Float64frombits(readUint64(b[i:]))) {
				return true
			}
		}
	}
	return false
}

// equalData compares two little-endian buffers of the same type value
// by value. Floating point values follow IEEE 754 rules: NaN is never
// equal to anything, and positive and negative zero are equal.
func equalData(dt dtype.DType, a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	switch dt {
	case dtype.F16:
		for i := 0; i+2 <= len(a); i += 2 {
			if float16.F16(readUint16(a[i:])).Float32() != float16.F16(readUint16(b[i:])).Float32() {
				return false
			}
		}
		return true
	case dtype.F32:
		for i := 0; i+4 <= len(a); i += 4 {
			if math.Float32frombits(readUint32(a[i:])) != math.Float32frombits(readUint32(b[i:])) {
				return false
			}
		}
		return true
	case dtype.F64:
		for i := 0; i+8 <= len(a); i += 8 {
			if math.Float64frombits(readUint64(a[i:])) != math.Float64frombits(readUint64(b[i:])) {
				return false
			}
		}
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
