// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arrowext implements the Arrow extension type of tensor columns,
// and the conversion between tensorcolumn.Array and Arrow arrays.
//
// Each tensor is stored as one fixed-size binary cell, holding the
// tensor's little-endian, row-major values. The extension type carries
// the tensors' shape and scalar type as JSON metadata (see package
// header), so that a column can be reconstructed from the storage alone.
package arrowext

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/nlpodyssey/tensorcolumn"
	"github.com/nlpodyssey/tensorcolumn/dtype"
	"github.com/nlpodyssey/tensorcolumn/header"
)

// ExtensionName is the registered name of TensorType.
const ExtensionName = "tensorpandas.tensor"

// TensorType is the Arrow extension type of tensor columns, parametrized
// by the shape of each tensor and by its scalar subtype.
//
// The storage type is fixed_size_binary, with a width equal to
// product(shape) * subtype bit width / 8.
type TensorType struct {
	arrow.ExtensionBase
	header header.Header
}

// NewTensorType creates a TensorType, failing if shape or subtype are
// invalid.
func NewTensorType(shape []int, subtype dtype.DType) (*TensorType, error) {
	return newTensorType(header.Header{Shape: header.Shape(shape).Clone(), Subtype: subtype})
}

func newTensorType(h header.Header) (*TensorType, error) {
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tensor type: %w", err)
	}
	subtype, ok := h.Subtype.ArrowType().(arrow.FixedWidthDataType)
	if !ok {
		return nil, fmt.Errorf("invalid tensor type: subtype %s is not fixed-width", h.Subtype.ArrowType())
	}
	elems, err := h.Shape.NumElements()
	if err != nil {
		return nil, fmt.Errorf("invalid tensor type: %w", err)
	}
	// Validate guarantees that the product fits within int.
	width := int(uint(elems) * uint(subtype.BitWidth()) / 8)
	return &TensorType{
		ExtensionBase: arrow.ExtensionBase{
			Storage: &arrow.FixedSizeBinaryType{ByteWidth: width},
		},
		header: h,
	}, nil
}

// Shape returns the shape of each tensor.
func (t *TensorType) Shape() []int {
	return t.header.Shape.Clone()
}

// Subtype returns the scalar type of the tensors' values.
func (t *TensorType) Subtype() dtype.DType {
	return t.header.Subtype
}

// CellWidth returns the size in bytes of one storage cell.
func (t *TensorType) CellWidth() int {
	return t.Storage.(*arrow.FixedSizeBinaryType).ByteWidth
}

func (*TensorType) ArrayType() reflect.Type {
	return reflect.TypeOf(TensorArray{})
}

func (*TensorType) ExtensionName() string {
	return ExtensionName
}

func (t *TensorType) String() string {
	dims := make([]string, len(t.header.Shape))
	for i, d := range t.header.Shape {
		dims[i] = fmt.Sprint(d)
	}
	return fmt.Sprintf("extension<%s<%s[%s]>>", ExtensionName, t.header.Subtype.ArrowName(), strings.Join(dims, ","))
}

// Serialize returns the JSON metadata of the type, for example
// {"shape":[3,4],"subtype":"float"}.
func (t *TensorType) Serialize() string {
	b, err := t.header.MarshalJSON()
	if err != nil {
		panic(err) // unreachable for a valid TensorType
	}
	return string(b)
}

// Deserialize creates a TensorType from its JSON metadata, checking
// the consistency of the storage type.
func (*TensorType) Deserialize(storageType arrow.DataType, data string) (arrow.ExtensionType, error) {
	h, err := header.Parse([]byte(data))
	if err != nil {
		return nil, tensorcolumn.Wrap(err, tensorcolumn.KindValue, "invalid "+ExtensionName+" metadata")
	}
	t, err := newTensorType(h)
	if err != nil {
		return nil, tensorcolumn.Wrap(err, tensorcolumn.KindValue, "invalid "+ExtensionName+" metadata")
	}
	if !arrow.TypeEqual(storageType, t.Storage) {
		return nil, tensorcolumn.Errorf(tensorcolumn.KindValue, "invalid storage type for %s: expected %s, got %s", t, t.Storage, storageType)
	}
	return t, nil
}

// ExtensionEquals reports whether other is a TensorType with the same
// shape and subtype.
func (t *TensorType) ExtensionEquals(other arrow.ExtensionType) bool {
	o, ok := other.(*TensorType)
	if !ok {
		return false
	}
	return t.header.Equal(o.header)
}

// TensorArray is the Arrow extension array of TensorType.
type TensorArray struct {
	array.ExtensionArrayBase
}

// TensorType returns the extension type of the array.
func (a *TensorArray) TensorType() *TensorType {
	return a.ExtensionType().(*TensorType)
}

// Cell returns the raw bytes of the i-th tensor, or nil if the cell
// is null. The value returned is NOT a copy.
func (a *TensorArray) Cell(i int) []byte {
	if a.IsNull(i) {
		return nil
	}
	return a.Storage().(*array.FixedSizeBinary).Value(i)
}

// ValueStr returns the text of the i-th tensor, with values within
// nested brackets.
func (a *TensorArray) ValueStr(i int) string {
	if a.IsNull(i) {
		return array.NullValueStr
	}
	t, err := cellTensor(a.TensorType(), a.Cell(i))
	if err != nil {
		return fmt.Sprintf("<invalid: %v>", err)
	}
	return t.String()
}

func (a *TensorArray) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.ValueStr(i))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a *TensorArray) GetOneForMarshal(i int) any {
	if a.IsNull(i) {
		return nil
	}
	return a.ValueStr(i)
}
