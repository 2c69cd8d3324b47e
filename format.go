// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

// DefaultNARep is the default text of missing rows.
const DefaultNARep = "NaN"

// FormatOptions configures Array.Format.
type FormatOptions struct {
	// NARep is the text of missing rows. DefaultNARep is used if empty.
	NARep string
	// Box formats a single non-missing element. Tensor.String is used
	// if nil.
	Box func(Tensor) string
}

// Format returns one display string for each row.
func (a *Array) Format(opts FormatOptions) []string {
	naRep := opts.NARep
	if naRep == "" {
		naRep = DefaultNARep
	}
	box := opts.Box
	if box == nil {
		box = Tensor.String
	}

	out := make([]string, a.n)
	for i := range out {
		if hasNaN(a.dType, a.row(i)) {
			out[i] = naRep
			continue
		}
		out[i] = box(a.tensorAt(i))
	}
	return out
}
