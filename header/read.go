// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/nlpodyssey/tensorcolumn/dtype"
)

// Parse decodes and validates a serialized Header.
//
// Keys other than "shape" and "subtype" are ignored.
func Parse(data []byte) (Header, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		return Header{}, fmt.Errorf("failed to JSON-decode header: %w", err)
	}

	var h Header
	if h.Shape, err = convertRawShape(raw); err != nil {
		return Header{}, err
	}
	if h.Subtype, err = convertRawSubtype(raw); err != nil {
		return Header{}, err
	}
	if err = h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("header is not a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON object")
	}
	return raw, nil
}

func convertRawShape(raw map[string]any) (Shape, error) {
	rawShape, ok := raw["shape"]
	if !ok {
		return nil, errors.New(`"shape" is missing`)
	}
	rawSlice, ok := rawShape.([]any)
	if !ok {
		return nil, errors.New(`found non-array "shape" value`)
	}
	shape := make(Shape, len(rawSlice))
	for i, rawItem := range rawSlice {
		var err error
		if shape[i], err = convertPositiveInt(rawItem); err != nil {
			return nil, fmt.Errorf(`failed to interpret "shape" value at index %d: %w`, i, err)
		}
	}
	return shape, nil
}

func convertRawSubtype(raw map[string]any) (dtype.DType, error) {
	rawSubtype, ok := raw["subtype"]
	if !ok {
		return 0, errors.New(`"subtype" is missing`)
	}
	s, ok := rawSubtype.(string)
	if !ok {
		return 0, errors.New(`found non-string "subtype" value`)
	}
	dt, err := dtype.ParseArrowName(s)
	if err != nil {
		return 0, fmt.Errorf(`invalid "subtype" value: %w`, err)
	}
	return dt, nil
}

func convertPositiveInt(value any) (int, error) {
	jNum, ok := value.(gojson.Number)
	if !ok {
		return 0, errors.New("value is not a number")
	}
	num, err := strconv.ParseInt(jNum.String(), 10, strconv.IntSize)
	if err != nil {
		return 0, fmt.Errorf("failed to convert value %q to int: %w", jNum.String(), err)
	}
	if num <= 0 {
		return 0, fmt.Errorf("value is not positive: %d", num)
	}
	return int(num), nil
}
