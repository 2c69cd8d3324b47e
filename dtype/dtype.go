// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dtype

import (
	"fmt"
)

// DType represents the primitive numeric type of the scalars stored
// within a tensor.
type DType uint8

const (
	// U8 represents an 8-bit unsigned integer data type.
	U8 DType = iota + 1
	// I8 represents an 8-bit signed integer data type.
	I8
	// U16 represents a 16-bit unsigned integer data type.
	U16
	// I16 represents a 16-bit signed integer data type.
	I16
	// F16 represents a 16-bit half-precision floating point data type.
	F16
	// U32 represents a 32-bit unsigned integer data type.
	U32
	// I32 represents a 32-bit signed integer data type.
	I32
	// F32 represents a 32-bit floating point data type.
	F32
	// U64 represents a 64-bit unsigned integer data type.
	U64
	// I64 represents a 64-bit signed integer data type.
	I64
	// F64 represents a 64-bit floating point data type.
	F64
)

// All lists every valid DType, in increasing order.
var All = [...]DType{U8, I8, U16, I16, F16, U32, I32, F32, U64, I64, F64}

var (
	dTypeToString = [...]string{
		U8:  "U8",
		I8:  "I8",
		U16: "U16",
		I16: "I16",
		F16: "F16",
		U32: "U32",
		I32: "I32",
		F32: "F32",
		U64: "U64",
		I64: "I64",
		F64: "F64",
	}
	dTypeToSize = [...]int{
		U8:  1,
		I8:  1,
		U16: 2,
		I16: 2,
		F16: 2,
		U32: 4,
		I32: 4,
		F32: 4,
		U64: 8,
		I64: 8,
		F64: 8,
	}
)

// Validate returns an error if the DType is not valid, otherwise nil.
func (dt DType) Validate() error {
	if dt == 0 || dt > F64 {
		return fmt.Errorf("invalid DType(%d)", dt)
	}
	return nil
}

// String returns a string representation of a DType.
func (dt DType) String() string {
	if err := dt.Validate(); err != nil {
		return err.Error()
	}
	return dTypeToString[dt]
}

// Size returns the size in bytes of one element of this data type,
// or -1 if the DType value is invalid.
func (dt DType) Size() int {
	if err := dt.Validate(); err != nil {
		return -1
	}
	return dTypeToSize[dt]
}

// BitWidth returns the size in bits of one element of this data type,
// or -1 if the DType value is invalid.
func (dt DType) BitWidth() int {
	if err := dt.Validate(); err != nil {
		return -1
	}
	return dTypeToSize[dt] * 8
}

// IsFloat reports whether the DType is a floating point type, that is
// whether its values can represent NaN.
func (dt DType) IsFloat() bool {
	return dt == F16 || dt == F32 || dt == F64
}

// MarshalJSON satisfies json.Marshaler interface.
func (dt DType) MarshalJSON() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(`"` + dTypeToString[dt] + `"`), nil
}

// UnmarshalJSON satisfies json.Unmarshaler interface.
func (dt *DType) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("failed to JSON-unmarshal DType from value %q", s)
	}
	v, ok := parseName(s[1 : len(s)-1])
	if !ok {
		return fmt.Errorf("failed to JSON-unmarshal DType from value %q", s)
	}
	*dt = v
	return nil
}

// MarshalText satisfies encoding.TextMarshaler interface.
func (dt DType) MarshalText() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(dTypeToString[dt]), nil
}

// UnmarshalText satisfies encoding.TextUnmarshaler interface.
func (dt *DType) UnmarshalText(text []byte) error {
	v, ok := parseName(string(text))
	if !ok {
		return fmt.Errorf("failed to text-unmarshal DType from value %q", text)
	}
	*dt = v
	return nil
}

func parseName(s string) (DType, bool) {
	for _, dt := range All {
		if dTypeToString[dt] == s {
			return dt, true
		}
	}
	return 0, false
}
