// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import (
	"fmt"
	"strings"

	"github.com/nlpodyssey/tensorcolumn/dtype"
	"github.com/nlpodyssey/tensorcolumn/float16"
)

// Element is the set of Go types which can hold tensor values.
type Element interface {
	uint8 | int8 | uint16 | int16 | float16.F16 | uint32 | int32 | float32 | uint64 | int64 | float64
}

// A Tensor is a single element of an Array: a fixed-shape,
// multi-dimensional numeric value with data fully loaded in memory.
//
// For a correctly formed Tensor, the value of DType and the type of Data
// must match each other, according to the following pairs:
//
//	DType | Data type
//	------+---------------
//	U8    | []uint8
//	I8    | []int8
//	U16   | []uint16
//	I16   | []int16
//	F16   | []float16.F16
//	U32   | []uint32
//	I32   | []int32
//	F32   | []float32
//	U64   | []uint64
//	I64   | []int64
//	F64   | []float64
type Tensor struct {
	dType dtype.DType
	shape []int
	data  any
}

// NewTensor performs validity checks over the given properties and returns
// a Tensor with those properties if validation succeeds, otherwise an error.
//
// If the error returned is not nil, the Tensor is a zero-value that
// must not be used.
//
// Here is an overview of the rules applied for validation:
//   - the dType must be valid (see dtype.DType.Validate)
//   - an empty or nil shape is allowed (a scalar value is implied)
//   - the shape must not contain negative values
//   - the type of data must match the dType, according to the pairs listed
//     on Tensor documentation
//   - the number of data elements must match the shape
//
// The given shape is copied before being assigned to the Tensor.
// Since "data" can possibly take a large amount of memory, its value is NOT
// copied, and is directly assigned to the Tensor.
func NewTensor(dType dtype.DType, shape []int, data any) (Tensor, error) {
	dataLen, err := checkTypesAndGetDataLen(dType, data)
	if err != nil {
		return Tensor{}, Wrap(err, KindType, "invalid tensor data")
	}
	size, err := shapeSize(shape)
	if err != nil {
		return Tensor{}, Wrap(err, KindShape, "invalid tensor shape")
	}
	if size != dataLen {
		return Tensor{}, Errorf(KindShape, "the size computed from shape (%d) does not match data length (%d)", size, dataLen)
	}
	return Tensor{
		dType: dType,
		shape: copyShape(shape),
		data:  data,
	}, nil
}

// TensorOf is a typed version of NewTensor, where the DType is
// inferred from the type of data.
func TensorOf[T Element](shape []int, data []T) (Tensor, error) {
	return NewTensor(dTypeOf[T](), shape, data)
}

// MustTensorOf is like TensorOf but panics on error.
func MustTensorOf[T Element](shape []int, data []T) Tensor {
	t, err := TensorOf(shape, data)
	if err != nil {
		panic(err)
	}
	return t
}

// ValuesOf returns the data of t as a typed slice. The value returned is
// NOT a copy.
func ValuesOf[T Element](t Tensor) ([]T, error) {
	if dt := dTypeOf[T](); dt != t.dType {
		return nil, Errorf(KindType, "cannot get %s values from tensor of type %s", dt, t.dType)
	}
	if t.data == nil {
		return nil, nil
	}
	return castSlice[T](t.data)
}

func dTypeOf[T Element]() dtype.DType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return dtype.U8
	case int8:
		return dtype.I8
	case uint16:
		return dtype.U16
	case int16:
		return dtype.I16
	case float16.F16:
		return dtype.F16
	case uint32:
		return dtype.U32
	case int32:
		return dtype.I32
	case float32:
		return dtype.F32
	case uint64:
		return dtype.U64
	case int64:
		return dtype.I64
	case float64:
		return dtype.F64
	}
	panic(fmt.Sprintf("unexpected element type %T", zero))
}

func checkTypesAndGetDataLen(dt dtype.DType, data any) (int, error) {
	switch dt {
	case dtype.U8:
		return resolveDataLen[uint8](dt, data)
	case dtype.I8:
		return resolveDataLen[int8](dt, data)
	case dtype.U16:
		return resolveDataLen[uint16](dt, data)
	case dtype.I16:
		return resolveDataLen[int16](dt, data)
	case dtype.F16:
		return resolveDataLen[float16.F16](dt, data)
	case dtype.U32:
		return resolveDataLen[uint32](dt, data)
	case dtype.I32:
		return resolveDataLen[int32](dt, data)
	case dtype.F32:
		return resolveDataLen[float32](dt, data)
	case dtype.U64:
		return resolveDataLen[uint64](dt, data)
	case dtype.I64:
		return resolveDataLen[int64](dt, data)
	case dtype.F64:
		return resolveDataLen[float64](dt, data)
	}
	return 0, fmt.Errorf("invalid or unsupported DType: %s", dt)
}

func resolveDataLen[T any](dt dtype.DType, data any) (int, error) {
	if data == nil {
		return 0, nil
	}
	y, ok := data.([]T)
	if !ok {
		return 0, fmt.Errorf("expected DType %s to match data type %T, actual data type %T", dt, y, data)
	}
	return len(y), nil
}

// DType returns the data type of the tensor.
func (t Tensor) DType() dtype.DType {
	return t.dType
}

// The Shape of the tensor.
//
// If the shape is zero-length, it returns nil, otherwise a new slice
// is allocated and returned (the shape is copied to prevent tampering).
func (t Tensor) Shape() []int {
	return copyShape(t.shape)
}

// The Data of the tensor.
// Possible values are documented on the main Tensor type.
//
// The value returned is NOT a copy: any change to its content will
// affect the Tensor too.
func (t Tensor) Data() any {
	return t.data
}

// NumElements returns the number of scalar values of the tensor.
func (t Tensor) NumElements() int {
	n, _ := checkTypesAndGetDataLen(t.dType, t.data)
	return n
}

// Bytes returns the little-endian, row-major binary representation
// of the tensor's data.
func (t Tensor) Bytes() ([]byte, error) {
	n, err := checkTypesAndGetDataLen(t.dType, t.data)
	if err != nil {
		return nil, err
	}
	return appendData(make([]byte, 0, n*t.dType.Size()), t.dType, t.data)
}

// HasNaN reports whether any value of the tensor is NaN.
// It is always false for integer types, and for a Tensor whose data
// does not match its DType (such as the zero value).
func (t Tensor) HasNaN() bool {
	b, err := t.Bytes()
	if err != nil {
		return false
	}
	return hasNaN(t.dType, b)
}

// String formats the tensor's values within nested brackets, one level
// for each dimension, for example "[[1 2 3] [4 5 6]]".
func (t Tensor) String() string {
	elems := formatElements(t.data)
	if len(t.shape) == 0 && len(elems) == 1 {
		return elems[0]
	}
	var sb strings.Builder
	writeNested(&sb, t.shape, elems)
	return sb.String()
}

func writeNested(sb *strings.Builder, shape []int, elems []string) {
	if len(shape) == 0 {
		if len(elems) > 0 {
			sb.WriteString(elems[0])
		}
		return
	}
	stride := 0
	if shape[0] > 0 {
		stride = len(elems) / shape[0]
	}
	sb.WriteByte('[')
	for i := 0; i < shape[0]; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeNested(sb, shape[1:], elems[i*stride:(i+1)*stride])
	}
	sb.WriteByte(']')
}

func formatElements(data any) []string {
	switch v := data.(type) {
	case []uint8:
		return formatValues(v)
	case []int8:
		return formatValues(v)
	case []uint16:
		return formatValues(v)
	case []int16:
		return formatValues(v)
	case []float16.F16:
		return formatValues(v)
	case []uint32:
		return formatValues(v)
	case []int32:
		return formatValues(v)
	case []float32:
		return formatValues(v)
	case []uint64:
		return formatValues(v)
	case []int64:
		return formatValues(v)
	case []float64:
		return formatValues(v)
	}
	return nil
}

func formatValues[T Element](v []T) []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = fmt.Sprint(x)
	}
	return out
}
