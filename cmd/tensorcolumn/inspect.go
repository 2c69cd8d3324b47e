// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/nlpodyssey/tensorcolumn/arrowext"
	"github.com/spf13/cobra"
)

func (a *app) newInspectCmd() *cobra.Command {
	var maxRows int
	cmd := &cobra.Command{
		Use:   "inspect [flags] FILE",
		Short: "Print the tensor columns of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := a.readColumns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-rows") {
				maxRows = a.cfg.Display.MaxRows
			}
			return a.printColumns(cmd.OutOrStdout(), cols, maxRows)
		},
	}
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Maximum number of rows printed per column, 0 for all (default from configuration)")
	return cmd
}

func (a *app) printColumns(w io.Writer, cols []arrowext.Column, maxRows int) error {
	if len(cols) == 0 {
		_, err := fmt.Fprintln(w, "no tensor columns")
		return err
	}
	opts := a.cfg.FormatOptions()
	for i, col := range cols {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		typ, err := arrowext.TypeOf(col.Array)
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "column: %s\ntype:   %s\nrows:   %d\n", col.Name, typ, col.Array.Len()); err != nil {
			return err
		}

		shown := col.Array
		if maxRows > 0 && shown.Len() > maxRows {
			shown = shown.Slice(0, maxRows)
		}
		for j, s := range shown.Format(opts) {
			if _, err = fmt.Fprintf(w, "%d\t%s\n", j, s); err != nil {
				return err
			}
		}
		if hidden := col.Array.Len() - shown.Len(); hidden > 0 {
			if _, err = fmt.Fprintf(w, "... %d more rows\n", hidden); err != nil {
				return err
			}
		}
	}
	return nil
}
