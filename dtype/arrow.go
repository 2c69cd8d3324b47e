// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dtype

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// dTypeToArrowName holds the canonical Arrow type names, as printed by
// Arrow implementations and persisted within extension type metadata.
var dTypeToArrowName = [...]string{
	U8:  "uint8",
	I8:  "int8",
	U16: "uint16",
	I16: "int16",
	F16: "halffloat",
	U32: "uint32",
	I32: "int32",
	F32: "float",
	U64: "uint64",
	I64: "int64",
	F64: "double",
}

// arrowAliases maps every accepted Arrow type alias to its DType.
var arrowAliases = map[string]DType{
	"u1": U8, "uint8": U8,
	"i1": I8, "int8": I8,
	"u2": U16, "uint16": U16,
	"i2": I16, "int16": I16,
	"f2": F16, "halffloat": F16, "float16": F16,
	"u4": U32, "uint32": U32,
	"i4": I32, "int32": I32,
	"f4": F32, "float": F32, "float32": F32,
	"u8": U64, "uint64": U64,
	"i8": I64, "int64": I64,
	"f8": F64, "double": F64, "float64": F64,
}

// ArrowName returns the canonical Arrow name of the DType (for example
// "float" for F32 and "double" for F64), or an empty string if the
// DType is invalid.
func (dt DType) ArrowName() string {
	if err := dt.Validate(); err != nil {
		return ""
	}
	return dTypeToArrowName[dt]
}

// ParseArrowName parses a DType from an Arrow type name or alias
// ("float", "float32", "f4", ...). The DType's own text form ("F32")
// is accepted too.
func ParseArrowName(s string) (DType, error) {
	if dt, ok := arrowAliases[s]; ok {
		return dt, nil
	}
	if dt, ok := parseName(s); ok {
		return dt, nil
	}
	return 0, fmt.Errorf("unknown Arrow type alias %q", s)
}

// ArrowType returns the Arrow primitive data type corresponding
// to the DType. It panics if the DType is invalid.
func (dt DType) ArrowType() arrow.DataType {
	switch dt {
	case U8:
		return arrow.PrimitiveTypes.Uint8
	case I8:
		return arrow.PrimitiveTypes.Int8
	case U16:
		return arrow.PrimitiveTypes.Uint16
	case I16:
		return arrow.PrimitiveTypes.Int16
	case F16:
		return arrow.FixedWidthTypes.Float16
	case U32:
		return arrow.PrimitiveTypes.Uint32
	case I32:
		return arrow.PrimitiveTypes.Int32
	case F32:
		return arrow.PrimitiveTypes.Float32
	case U64:
		return arrow.PrimitiveTypes.Uint64
	case I64:
		return arrow.PrimitiveTypes.Int64
	case F64:
		return arrow.PrimitiveTypes.Float64
	}
	panic(fmt.Errorf("cannot get Arrow type of invalid DType %d", dt))
}
