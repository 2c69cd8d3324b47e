// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math"

	"github.com/nlpodyssey/tensorcolumn"
	"github.com/nlpodyssey/tensorcolumn/arrowext"
	"github.com/nlpodyssey/tensorcolumn/dtype"
	"github.com/nlpodyssey/tensorcolumn/float16"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateFlags struct {
	name    string
	rows    int
	shape   []int
	dType   string
	missing []int
}

func (a *app) newGenerateCmd() *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate [flags] FILE",
		Short: "Write a file with one column of sample tensors",
		Long: `Write a file with one column of sample tensors. Values count up from
zero, in row-major order across the whole column.

Example:
  tensorcolumn generate --rows 5 --shape 3,4 --dtype float out.arrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arr, err := generate(flags)
			if err != nil {
				return err
			}
			if err = a.writeColumns(args[0], []arrowext.Column{{Name: flags.name, Array: arr}}); err != nil {
				return err
			}
			a.logger.Info("generated tensor column",
				zap.String("file", args[0]),
				zap.String("column", flags.name),
				zap.Int("rows", arr.Len()),
				zap.Ints("shape", arr.ElementShape()),
				zap.Stringer("dtype", arr.DType()))
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.name, "name", "tensor", "Column name")
	cmd.Flags().IntVar(&flags.rows, "rows", 10, "Number of rows")
	cmd.Flags().IntSliceVar(&flags.shape, "shape", []int{2, 2}, "Shape of each tensor")
	cmd.Flags().StringVar(&flags.dType, "dtype", "F32", "Scalar type, as a name (F32) or an Arrow alias (float)")
	cmd.Flags().IntSliceVar(&flags.missing, "missing", nil, "Indices of rows to mark as missing (floating point types only)")
	return cmd
}

func generate(flags generateFlags) (*tensorcolumn.Array, error) {
	dt, err := dtype.ParseArrowName(flags.dType)
	if err != nil {
		return nil, err
	}
	if flags.rows < 0 {
		return nil, fmt.Errorf("number of rows must not be negative, got %d", flags.rows)
	}
	empty, err := tensorcolumn.NewEmpty(dt, flags.shape)
	if err != nil {
		return nil, err
	}
	elems := empty.RowBytes() / dt.Size()
	if flags.rows > 0 && elems > math.MaxInt/flags.rows {
		return nil, fmt.Errorf("too many rows: %d", flags.rows)
	}

	shape := append([]int{flags.rows}, flags.shape...)
	arr, err := tensorcolumn.NewArray(dt, shape, sequence(dt, flags.rows*elems))
	if err != nil {
		return nil, err
	}
	if len(flags.missing) > 0 {
		if err = arr.SetRows(flags.missing, tensorcolumn.Missing()); err != nil {
			return nil, err
		}
	}
	return arr, nil
}

// sequence returns the values 0, 1, ..., n-1 converted to dt, wrapping
// around for the narrow integer types.
func sequence(dt dtype.DType, n int) any {
	switch dt {
	case dtype.U8:
		return sequenceOf(n, func(i int) uint8 { return uint8(i) })
	case dtype.I8:
		return sequenceOf(n, func(i int) int8 { return int8(i) })
	case dtype.U16:
		return sequenceOf(n, func(i int) uint16 { return uint16(i) })
	case dtype.I16:
		return sequenceOf(n, func(i int) int16 { return int16(i) })
	case dtype.F16:
		return sequenceOf(n, func(i int) float16.F16 { return float16.FromFloat32(float32(i)) })
	case dtype.U32:
		return sequenceOf(n, func(i int) uint32 { return uint32(i) })
	case dtype.I32:
		return sequenceOf(n, func(i int) int32 { return int32(i) })
	case dtype.F32:
		return sequenceOf(n, func(i int) float32 { return float32(i) })
	case dtype.U64:
		return sequenceOf(n, func(i int) uint64 { return uint64(i) })
	case dtype.I64:
		return sequenceOf(n, func(i int) int64 { return int64(i) })
	case dtype.F64:
		return sequenceOf(n, func(i int) float64 { return float64(i) })
	}
	return nil
}

func sequenceOf[T tensorcolumn.Element](n int, conv func(int) T) []T {
	s := make([]T, n)
	for i := range s {
		s[i] = conv(i)
	}
	return s
}
