// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrowext

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/nlpodyssey/tensorcolumn"
	"go.uber.org/zap"
)

// DefaultBatchSize is the default number of rows of each record batch.
const DefaultBatchSize = 1024

// IPCOptions configures the writing of Arrow IPC files.
type IPCOptions struct {
	// Compression of the record batches body: "", "none", "lz4" or "zstd".
	Compression string
	// BatchSize is the maximum number of rows of each record batch.
	// DefaultBatchSize is used if zero or negative.
	BatchSize int
}

func ipcCompression(name string) ([]ipc.Option, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "lz4":
		return []ipc.Option{ipc.WithLZ4()}, nil
	case "zstd":
		return []ipc.Option{ipc.WithZstd()}, nil
	}
	return nil, fmt.Errorf("unsupported IPC compression %q", name)
}

// WriteIPC writes the columns to w in the Arrow IPC file format.
// All columns must have the same length.
func (c *Codec) WriteIPC(w io.Writer, cols []Column, opts IPCOptions) error {
	rows, err := checkColumns(cols)
	if err != nil {
		return err
	}
	compression, err := ipcCompression(opts.Compression)
	if err != nil {
		return tensorcolumn.Wrap(err, tensorcolumn.KindValue, "invalid IPC options")
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	fields := make([]arrow.Field, len(cols))
	encoded := make([]arrow.Array, len(cols))
	defer func() {
		for _, arr := range encoded {
			if arr != nil {
				arr.Release()
			}
		}
	}()
	for i, col := range cols {
		arr, err := c.Encode(col.Array)
		if err != nil {
			return fmt.Errorf("failed to encode column %q: %w", col.Name, err)
		}
		encoded[i] = arr
		fields[i] = arrow.Field{Name: col.Name, Type: arr.DataType()}
	}
	schema := arrow.NewSchema(fields, nil)

	fwOpts := append([]ipc.Option{ipc.WithSchema(schema), ipc.WithAllocator(c.mem)}, compression...)
	fw, err := ipc.NewFileWriter(w, fwOpts...)
	if err != nil {
		return fmt.Errorf("failed to create Arrow IPC writer: %w", err)
	}

	for lo := 0; lo < rows; lo += batchSize {
		hi := min(lo+batchSize, rows)
		if err = writeIPCBatch(fw, schema, encoded, lo, hi); err != nil {
			_ = fw.Close()
			return err
		}
	}

	if err = fw.Close(); err != nil {
		return fmt.Errorf("failed to close Arrow IPC writer: %w", err)
	}
	c.logger.Debug("wrote Arrow IPC file",
		zap.Int("columns", len(cols)),
		zap.Int("rows", rows),
		zap.Int("batchSize", batchSize),
		zap.String("compression", opts.Compression))
	return nil
}

func writeIPCBatch(fw *ipc.FileWriter, schema *arrow.Schema, encoded []arrow.Array, lo, hi int) error {
	slices := make([]arrow.Array, len(encoded))
	for i, arr := range encoded {
		slices[i] = array.NewSlice(arr, int64(lo), int64(hi))
	}
	rec := array.NewRecord(schema, slices, int64(hi-lo))
	for _, s := range slices {
		s.Release()
	}
	defer rec.Release()

	if err := fw.Write(rec); err != nil {
		return fmt.Errorf("failed to write record batch [%d, %d): %w", lo, hi, err)
	}
	return nil
}

// ReadIPC reads all the tensor columns of an Arrow IPC file, in schema
// order. Fields which do not hold tensor columns are skipped.
//
// The tensor column extension type does not need to be registered.
func (c *Codec) ReadIPC(r ipc.ReadAtSeeker) ([]Column, error) {
	fr, err := ipc.NewFileReader(r, ipc.WithAllocator(c.mem))
	if err != nil {
		return nil, tensorcolumn.Wrap(err, tensorcolumn.KindValue, "failed to create Arrow IPC reader")
	}
	defer fr.Close()

	schema := fr.Schema()
	readers, err := c.newColumnReaders(schema)
	if err != nil {
		return nil, err
	}

	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read record batch %d: %w", i, err)
		}
		for _, cr := range readers {
			if err = cr.add(rec.Column(cr.index)); err != nil {
				return nil, err
			}
		}
	}

	c.logger.Debug("read Arrow IPC file",
		zap.Int("records", fr.NumRecords()),
		zap.Int("columns", len(readers)))
	return collectColumns(readers)
}

// columnReader accumulates the decoded chunks of one tensor column.
type columnReader struct {
	codec  *Codec
	index  int
	name   string
	typ    *TensorType
	chunks []*tensorcolumn.Array
}

func (c *Codec) newColumnReaders(schema *arrow.Schema) ([]*columnReader, error) {
	var readers []*columnReader
	for i, f := range schema.Fields() {
		typ, ok, err := fieldTensorType(f)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.logger.Debug("skipping non-tensor field", zap.String("field", f.Name), zap.Stringer("type", f.Type))
			continue
		}
		readers = append(readers, &columnReader{codec: c, index: i, name: f.Name, typ: typ})
	}
	return readers, nil
}

func (cr *columnReader) add(chunks ...arrow.Array) error {
	a, err := cr.codec.DecodeStorage(cr.typ, chunks...)
	if err != nil {
		return fmt.Errorf("failed to decode column %q: %w", cr.name, err)
	}
	cr.chunks = append(cr.chunks, a)
	return nil
}

func (cr *columnReader) array() (*tensorcolumn.Array, error) {
	if len(cr.chunks) == 0 {
		return tensorcolumn.NewEmpty(cr.typ.Subtype(), cr.typ.Shape())
	}
	if len(cr.chunks) == 1 {
		return cr.chunks[0], nil
	}
	return tensorcolumn.Concat(cr.chunks...)
}

func collectColumns(readers []*columnReader) ([]Column, error) {
	cols := make([]Column, len(readers))
	for i, cr := range readers {
		a, err := cr.array()
		if err != nil {
			return nil, fmt.Errorf("failed to build column %q: %w", cr.name, err)
		}
		cols[i] = Column{Name: cr.name, Array: a}
	}
	return cols, nil
}
