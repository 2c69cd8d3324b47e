// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nlpodyssey/tensorcolumn/arrowext"
)

type fileFormat int

const (
	formatIPC fileFormat = iota
	formatParquet
)

func (f fileFormat) String() string {
	if f == formatParquet {
		return "parquet"
	}
	return "arrow"
}

func formatOf(path string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".arrow", ".ipc", ".feather":
		return formatIPC, nil
	case ".parquet", ".pq":
		return formatParquet, nil
	}
	return 0, fmt.Errorf("cannot tell the format of %q from its extension", path)
}

func (a *app) readColumns(ctx context.Context, path string) ([]arrowext.Column, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == formatParquet {
		return a.codec.ReadParquet(ctx, f)
	}
	return a.codec.ReadIPC(f)
}

// writeColumns writes the columns to a new file. The file writers close
// their sink when it is an io.Closer, so the file is wrapped by a
// bufio.Writer and closed here.
func (a *app) writeColumns(path string, cols []arrowext.Column) (err error) {
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(f)
	if format == formatParquet {
		err = a.codec.WriteParquet(w, cols, a.cfg.ParquetOptions())
	} else {
		err = a.codec.WriteIPC(w, cols, a.cfg.IPCOptions())
	}
	if err != nil {
		return err
	}
	return w.Flush()
}
