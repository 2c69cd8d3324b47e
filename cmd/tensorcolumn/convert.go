// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Copy the tensor columns of a file into a new file",
		Long: `Copy the tensor columns of a file into a new file, converting between
the Arrow IPC file format and Parquet as told by the file extensions.
Columns of other types are not copied.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			cols, err := a.readColumns(cmd.Context(), src)
			if err != nil {
				return err
			}
			if len(cols) == 0 {
				return fmt.Errorf("no tensor columns found in %q", src)
			}
			if err = a.writeColumns(dst, cols); err != nil {
				return err
			}
			a.logger.Info("converted file",
				zap.String("src", src),
				zap.String("dst", dst),
				zap.Int("columns", len(cols)))
			return nil
		},
	}
}
