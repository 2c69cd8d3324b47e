// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrowext

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/nlpodyssey/tensorcolumn"
	"go.uber.org/zap"
)

// Codec converts tensor columns to and from Arrow arrays of TensorType.
//
// A Codec is safe for concurrent use.
type Codec struct {
	mem     memory.Allocator
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures a Codec.
type Option func(*Codec)

// WithAllocator sets the allocator of the encoded arrays.
func WithAllocator(mem memory.Allocator) Option {
	return func(c *Codec) {
		c.mem = mem
	}
}

// WithLogger sets the logger of the Codec.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// WithMetrics enables the collection of metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Codec) {
		c.metrics = m
	}
}

// NewCodec creates a new Codec. By default, it uses Go's allocator and
// does not log.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		mem:    memory.DefaultAllocator,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TypeOf returns the TensorType describing the elements of a.
func TypeOf(a *tensorcolumn.Array) (*TensorType, error) {
	t, err := NewTensorType(a.ElementShape(), a.DType())
	if err != nil {
		return nil, tensorcolumn.Wrap(err, tensorcolumn.KindType, "unsupported tensor column")
	}
	return t, nil
}

// Encode converts a to an Arrow extension array, storing the bytes of
// each tensor in one fixed-size binary cell. The result must be released
// by the caller.
func (c *Codec) Encode(a *tensorcolumn.Array) (*TensorArray, error) {
	typ, err := TypeOf(a)
	if err != nil {
		c.metrics.failed(opEncode)
		return nil, err
	}

	b := array.NewFixedSizeBinaryBuilder(c.mem, typ.Storage.(*arrow.FixedSizeBinaryType))
	defer b.Release()

	data := a.Bytes()
	width := typ.CellWidth()
	b.Reserve(a.Len())
	for i := 0; i < a.Len(); i++ {
		b.Append(data[i*width : (i+1)*width])
	}

	storage := b.NewFixedSizeBinaryArray()
	defer storage.Release()

	out := array.NewExtensionArrayWithStorage(typ, storage).(*TensorArray)

	c.metrics.observe(opEncode, a.Len(), len(data))
	c.logger.Debug("encoded tensor column",
		zap.Int("rows", a.Len()),
		zap.Stringer("type", typ),
		zap.Int("cellWidth", width))
	return out, nil
}

// Decode reconstructs a tensor column from an array of TensorType.
func (c *Codec) Decode(arr arrow.Array) (*tensorcolumn.Array, error) {
	typ, ok := arr.DataType().(*TensorType)
	if !ok {
		c.metrics.failed(opDecode)
		return nil, tensorcolumn.Errorf(tensorcolumn.KindType, "cannot decode a tensor column from Arrow type %s", arr.DataType())
	}
	return c.DecodeStorage(typ, arr)
}

// DecodeChunked reconstructs a tensor column from a chunked array of
// TensorType, concatenating all chunks in order.
func (c *Codec) DecodeChunked(chunked *arrow.Chunked) (*tensorcolumn.Array, error) {
	typ, ok := chunked.DataType().(*TensorType)
	if !ok {
		c.metrics.failed(opDecode)
		return nil, tensorcolumn.Errorf(tensorcolumn.KindType, "cannot decode a tensor column from Arrow type %s", chunked.DataType())
	}
	return c.DecodeStorage(typ, chunked.Chunks()...)
}

// DecodeStorage reconstructs a tensor column of type typ from one or
// more chunks. Each chunk is either an extension array of TensorType or
// its fixed-size binary storage.
//
// Null cells are decoded as tensors filled with NaN; they cannot be
// represented for integer subtypes.
func (c *Codec) DecodeStorage(typ *TensorType, chunks ...arrow.Array) (*tensorcolumn.Array, error) {
	a, err := c.decodeStorage(typ, chunks)
	if err != nil {
		c.metrics.failed(opDecode)
		c.logger.Debug("failed to decode tensor column", zap.Stringer("type", typ), zap.Error(err))
		return nil, err
	}
	c.metrics.observe(opDecode, a.Len(), len(a.Bytes()))
	c.logger.Debug("decoded tensor column",
		zap.Int("rows", a.Len()),
		zap.Int("chunks", len(chunks)),
		zap.Stringer("type", typ))
	return a, nil
}

func (c *Codec) decodeStorage(typ *TensorType, chunks []arrow.Array) (*tensorcolumn.Array, error) {
	width := typ.CellWidth()
	rows := 0
	for _, chunk := range chunks {
		rows += chunk.Len()
	}

	var naRow []byte
	buf := make([]byte, 0, rows*width)
	for ci, chunk := range chunks {
		fsb, err := storageOf(chunk, typ)
		if err != nil {
			return nil, err
		}
		for i := 0; i < fsb.Len(); i++ {
			if fsb.IsValid(i) {
				buf = append(buf, fsb.Value(i)...)
				continue
			}
			if naRow == nil {
				if naRow, err = missingCell(typ); err != nil {
					return nil, tensorcolumn.Wrap(err, tensorcolumn.KindValue, "cannot decode null cell")
				}
			}
			c.logger.Debug("decoding null cell as missing tensor", zap.Int("chunk", ci), zap.Int("index", i))
			buf = append(buf, naRow...)
		}
	}

	shape := append([]int{rows}, typ.Shape()...)
	return tensorcolumn.FromBytes(typ.Subtype(), shape, buf)
}

func storageOf(chunk arrow.Array, typ *TensorType) (*array.FixedSizeBinary, error) {
	storage := chunk
	if ext, ok := chunk.(array.ExtensionArray); ok {
		if !typ.ExtensionEquals(ext.ExtensionType()) {
			return nil, tensorcolumn.Errorf(tensorcolumn.KindType, "chunk of type %s does not match tensor type %s", ext.DataType(), typ)
		}
		storage = ext.Storage()
	}
	width := typ.CellWidth()
	fsb, ok := storage.(*array.FixedSizeBinary)
	if !ok {
		return nil, tensorcolumn.Errorf(tensorcolumn.KindType, "unexpected tensor storage type %s", storage.DataType())
	}
	if w := fsb.DataType().(*arrow.FixedSizeBinaryType).ByteWidth; w != width {
		return nil, tensorcolumn.Errorf(tensorcolumn.KindValue, "storage cell width %d does not match tensor type width %d", w, width)
	}
	return fsb, nil
}

func missingCell(typ *TensorType) ([]byte, error) {
	na, err := tensorcolumn.NA(typ.Subtype(), typ.Shape())
	if err != nil {
		return nil, err
	}
	return na.Bytes()
}

// cellTensor interprets the raw bytes of one cell.
func cellTensor(typ *TensorType, cell []byte) (tensorcolumn.Tensor, error) {
	a, err := tensorcolumn.FromBytes(typ.Subtype(), append([]int{1}, typ.Shape()...), cell)
	if err != nil {
		return tensorcolumn.Tensor{}, err
	}
	return a.Get(0)
}
