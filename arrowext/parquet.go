// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrowext

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/nlpodyssey/tensorcolumn"
	"go.uber.org/zap"
)

// ParquetOptions configures the writing of Parquet files.
type ParquetOptions struct {
	// Compression codec: "", "none", "snappy", "gzip", "brotli" or "zstd".
	Compression string
	// RowGroupSize is the maximum number of rows of each row group.
	// The Parquet library default is used if zero or negative.
	RowGroupSize int
}

func parquetCompression(name string) (compress.Compression, error) {
	switch name {
	case "", "none":
		return compress.Codecs.Uncompressed, nil
	case "snappy":
		return compress.Codecs.Snappy, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "brotli":
		return compress.Codecs.Brotli, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	}
	return compress.Codecs.Uncompressed, fmt.Errorf("unsupported Parquet compression %q", name)
}

// WriteParquet writes the columns to w in the Parquet format.
// All columns must have the same length.
//
// Each column is stored as a fixed-length byte array, and the tensor
// type is kept within the Arrow schema stored in the file metadata.
func (c *Codec) WriteParquet(w io.Writer, cols []Column, opts ParquetOptions) error {
	rows, err := checkColumns(cols)
	if err != nil {
		return err
	}
	codec, err := parquetCompression(opts.Compression)
	if err != nil {
		return tensorcolumn.Wrap(err, tensorcolumn.KindValue, "invalid Parquet options")
	}

	fields := make([]arrow.Field, len(cols))
	storages := make([]arrow.Array, len(cols))
	defer func() {
		for _, s := range storages {
			if s != nil {
				s.Release()
			}
		}
	}()
	for i, col := range cols {
		arr, err := c.Encode(col.Array)
		if err != nil {
			return fmt.Errorf("failed to encode column %q: %w", col.Name, err)
		}
		storage := arr.Storage()
		storage.Retain()
		arr.Release()

		typ := arr.TensorType()
		storages[i] = storage
		fields[i] = arrow.Field{
			Name:     col.Name,
			Type:     storage.DataType(),
			Metadata: extensionMetadata(typ),
		}
	}
	schema := arrow.NewSchema(fields, nil)

	props := []parquet.WriterProperty{
		parquet.WithCompression(codec),
		parquet.WithAllocator(c.mem),
	}
	if opts.RowGroupSize > 0 {
		props = append(props, parquet.WithMaxRowGroupLength(int64(opts.RowGroupSize)))
	}
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
		pqarrow.WithAllocator(c.mem),
	)

	fw, err := pqarrow.NewFileWriter(schema, w, parquet.NewWriterProperties(props...), arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create Parquet writer: %w", err)
	}

	rec := array.NewRecord(schema, storages, int64(rows))
	defer rec.Release()
	if err = fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to write Parquet record: %w", err)
	}
	if err = fw.Close(); err != nil {
		return fmt.Errorf("failed to close Parquet writer: %w", err)
	}

	c.logger.Debug("wrote Parquet file",
		zap.Int("columns", len(cols)),
		zap.Int("rows", rows),
		zap.String("compression", opts.Compression))
	return nil
}

// ReadParquet reads all the tensor columns of a Parquet file written by
// WriteParquet, in schema order. Fields which do not hold tensor columns
// are skipped.
//
// The tensor column extension type does not need to be registered.
func (c *Codec) ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) ([]Column, error) {
	tbl, err := pqarrow.ReadTable(ctx, r, parquet.NewReaderProperties(c.mem), pqarrow.ArrowReadProperties{}, c.mem)
	if err != nil {
		return nil, fmt.Errorf("failed to read Parquet file: %w", err)
	}
	defer tbl.Release()

	readers, err := c.newColumnReaders(tbl.Schema())
	if err != nil {
		return nil, err
	}
	for _, cr := range readers {
		chunks := tbl.Column(cr.index).Data().Chunks()
		if len(chunks) == 0 {
			continue
		}
		if err = cr.add(chunks...); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("read Parquet file",
		zap.Int64("rows", tbl.NumRows()),
		zap.Int("columns", len(readers)))
	return collectColumns(readers)
}
