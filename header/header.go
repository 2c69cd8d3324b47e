// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package header implements the metadata blob attached to a tensor
// column's Arrow extension type.
//
// The blob is a JSON object such as
//
//	{"shape": [3, 4], "subtype": "float"}
//
// where "shape" is the shape of each tensor (the row dimension excluded)
// and "subtype" is the Arrow name of the scalar type. Unknown keys are
// ignored when reading, so that newer writers can add fields.
package header

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/nlpodyssey/tensorcolumn/dtype"
)

// Header describes the layout of every cell of a tensor column.
type Header struct {
	// Shape of each tensor, excluding the row dimension.
	Shape Shape
	// Subtype is the scalar type of the tensors' values.
	Subtype dtype.DType
}

type jsonHeader struct {
	Shape   Shape  `json:"shape"`
	Subtype string `json:"subtype"`
}

// MarshalJSON serializes the Header, using the canonical Arrow name
// of the Subtype.
func (h Header) MarshalJSON() ([]byte, error) {
	if err := h.Subtype.Validate(); err != nil {
		return nil, err
	}
	return gojson.Marshal(jsonHeader{
		Shape:   h.Shape,
		Subtype: h.Subtype.ArrowName(),
	})
}

// UnmarshalJSON is equivalent to Parse.
func (h *Header) UnmarshalJSON(b []byte) error {
	parsed, err := Parse(b)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Equal reports whether two headers describe the same layout.
func (h Header) Equal(other Header) bool {
	return h.Subtype == other.Subtype && h.Shape.Equal(other.Shape)
}

func (h Header) String() string {
	return fmt.Sprintf("%s%v", h.Subtype.ArrowName(), []int(h.Shape))
}
