// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrowext

import (
	"bytes"
	"context"
	"testing"

	"github.com/nlpodyssey/tensorcolumn"
	"github.com/nlpodyssey/tensorcolumn/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_Parquet(t *testing.T) {
	testCases := []struct {
		name       string
		registered bool
		rows       int
		opts       ParquetOptions
	}{
		{"registered", true, 10, ParquetOptions{}},
		{"unregistered", false, 10, ParquetOptions{}},
		{"snappy", false, 10, ParquetOptions{Compression: "snappy"}},
		{"gzip", true, 10, ParquetOptions{Compression: "gzip"}},
		{"zstd", false, 10, ParquetOptions{Compression: "zstd"}},
		{"brotli", false, 10, ParquetOptions{Compression: "brotli"}},
		{"small row groups", false, 25, ParquetOptions{RowGroupSize: 4}},
		{"zero rows", false, 0, ParquetOptions{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.registered {
				register(t)
			}
			codec := NewCodec()
			cols := sampleColumns(t, tc.rows)

			var buf bytes.Buffer
			require.NoError(t, codec.WriteParquet(&buf, cols, tc.opts))

			read, err := codec.ReadParquet(context.Background(), bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assertSameColumns(t, cols, read)
		})
	}
}

func TestCodec_Parquet_MissingRows(t *testing.T) {
	a := makeArray(t, dtype.F64, 4)
	require.NoError(t, a.SetRows([]int{1, 3}, tensorcolumn.Missing()))

	codec := NewCodec()
	var buf bytes.Buffer
	require.NoError(t, codec.WriteParquet(&buf, []Column{{Name: "x", Array: a}}, ParquetOptions{}))

	read, err := codec.ReadParquet(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, read, 1)
	assert.Equal(t, []bool{false, true, false, true}, read[0].Array.IsMissing())
	assert.Equal(t, a.Bytes(), read[0].Array.Bytes())
}

func TestCodec_WriteParquet_Failure(t *testing.T) {
	codec := NewCodec()
	var buf bytes.Buffer

	err := codec.WriteParquet(&buf, nil, ParquetOptions{})
	assert.ErrorIs(t, err, tensorcolumn.ErrValue)

	err = codec.WriteParquet(&buf, sampleColumns(t, 2), ParquetOptions{Compression: "lzo"})
	assert.ErrorIs(t, err, tensorcolumn.ErrValue)
}
