// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrowext

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/nlpodyssey/tensorcolumn"
	"github.com/nlpodyssey/tensorcolumn/header"
)

// Column is a named tensor column, as stored within Arrow IPC and
// Parquet files.
type Column struct {
	Name  string
	Array *tensorcolumn.Array
}

// checkColumns checks that all columns have a name, an array, and the
// same length, which is returned.
func checkColumns(cols []Column) (int, error) {
	if len(cols) == 0 {
		return 0, tensorcolumn.Errorf(tensorcolumn.KindValue, "no columns to write")
	}
	seen := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if col.Name == "" {
			return 0, tensorcolumn.Errorf(tensorcolumn.KindValue, "column %d has no name", i)
		}
		if _, dup := seen[col.Name]; dup {
			return 0, tensorcolumn.Errorf(tensorcolumn.KindValue, "duplicate column name %q", col.Name)
		}
		seen[col.Name] = struct{}{}
		if col.Array == nil {
			return 0, tensorcolumn.Errorf(tensorcolumn.KindValue, "column %q has no array", col.Name)
		}
		if n := cols[0].Array.Len(); col.Array.Len() != n {
			return 0, tensorcolumn.Errorf(tensorcolumn.KindValue, "column %q has length %d, expected %d", col.Name, col.Array.Len(), n)
		}
	}
	return cols[0].Array.Len(), nil
}

// extensionMetadata returns the field metadata identifying typ, using
// the keys of the Arrow IPC format.
func extensionMetadata(typ *TensorType) arrow.Metadata {
	return arrow.NewMetadata(
		[]string{ipc.ExtensionTypeKeyName, ipc.ExtensionMetadataKeyName},
		[]string{ExtensionName, typ.Serialize()},
	)
}

// fieldTensorType returns the TensorType of a field, and false if the
// field does not hold a tensor column.
//
// When the extension type is not registered, readers return its storage
// type and keep the extension name and metadata within the field
// metadata, from which the TensorType is recovered.
func fieldTensorType(f arrow.Field) (*TensorType, bool, error) {
	if typ, ok := f.Type.(*TensorType); ok {
		return typ, true, nil
	}
	if f.Type.ID() != arrow.FIXED_SIZE_BINARY {
		return nil, false, nil
	}
	name, ok := f.Metadata.GetValue(ipc.ExtensionTypeKeyName)
	if !ok || name != ExtensionName {
		return nil, false, nil
	}
	data, _ := f.Metadata.GetValue(ipc.ExtensionMetadataKeyName)
	h, err := header.Parse([]byte(data))
	if err != nil {
		return nil, true, tensorcolumn.Wrap(err, tensorcolumn.KindValue, "malformed tensor column metadata of field "+f.Name)
	}
	typ, err := newTensorType(h)
	if err != nil {
		return nil, true, tensorcolumn.Wrap(err, tensorcolumn.KindValue, "invalid tensor column metadata of field "+f.Name)
	}
	if !arrow.TypeEqual(f.Type, typ.Storage) {
		return nil, true, tensorcolumn.Errorf(tensorcolumn.KindValue, "field %s has storage type %s, expected %s", f.Name, f.Type, typ.Storage)
	}
	return typ, true, nil
}
