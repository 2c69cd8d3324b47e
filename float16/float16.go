// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package float16 provides a minimal half-precision floating-point value,
// stored as raw IEEE 754 binary16 bits.
package float16

import (
	"strconv"

	"github.com/x448/float16"
)

// F16 is a 16-bit half-precision floating-point value,
// represented as raw bits (uint16).
type F16 uint16

// NaN is the canonical quiet NaN bit pattern.
const NaN F16 = 0x7e00

// FromFloat32 converts a float32 to the nearest F16 value
// (round to nearest even).
func FromFloat32(f float32) F16 {
	return F16(float16.Fromfloat32(f).Bits())
}

// Float32 returns the value converted to float32. The conversion
// is exact.
func (f F16) Float32() float32 {
	return float16.Frombits(uint16(f)).Float32()
}

// IsNaN reports whether f is a NaN value.
func (f F16) IsNaN() bool {
	return float16.Frombits(uint16(f)).IsNaN()
}

// String formats the value in the shortest form that round-trips
// through float32.
func (f F16) String() string {
	return strconv.FormatFloat(float64(f.Float32()), 'g', -1, 32)
}
