// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"testing"

	"github.com/nlpodyssey/tensorcolumn/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Success(t *testing.T) {
	testCases := []struct {
		name     string
		data     string
		expected Header
	}{
		{
			"canonical",
			`{"shape": [3, 4], "subtype": "float"}`,
			Header{Shape: Shape{3, 4}, Subtype: dtype.F32},
		},
		{
			"alias",
			`{"shape": [2], "subtype": "f8"}`,
			Header{Shape: Shape{2}, Subtype: dtype.F64},
		},
		{
			"short name",
			`{"shape": [2], "subtype": "I16"}`,
			Header{Shape: Shape{2}, Subtype: dtype.I16},
		},
		{
			"unknown keys are ignored",
			`{"shape": [1, 2], "subtype": "uint32", "order": "C", "version": 2}`,
			Header{Shape: Shape{1, 2}, Subtype: dtype.U32},
		},
		{
			"reverse key order",
			`{"subtype": "halffloat", "shape": [7]}`,
			Header{Shape: Shape{7}, Subtype: dtype.F16},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := Parse([]byte(tc.data))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, h)
		})
	}
}

func TestParse_Failure(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"empty", ``},
		{"malformed", `{"shape": [3, 4`},
		{"trailing data", `{"shape": [3], "subtype": "float"} {}`},
		{"not an object", `[1, 2]`},
		{"null", `null`},
		{"missing shape", `{"subtype": "float"}`},
		{"missing subtype", `{"shape": [3]}`},
		{"non-array shape", `{"shape": 3, "subtype": "float"}`},
		{"non-number dimension", `{"shape": ["3"], "subtype": "float"}`},
		{"fractional dimension", `{"shape": [1.5], "subtype": "float"}`},
		{"zero dimension", `{"shape": [0], "subtype": "float"}`},
		{"negative dimension", `{"shape": [-2], "subtype": "float"}`},
		{"empty shape", `{"shape": [], "subtype": "float"}`},
		{"non-string subtype", `{"shape": [3], "subtype": 4}`},
		{"unknown subtype", `{"shape": [3], "subtype": "decimal128"}`},
		{"bool subtype", `{"shape": [3], "subtype": "bool"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}
