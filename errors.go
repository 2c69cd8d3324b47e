// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensorcolumn

import (
	"errors"
	"fmt"
)

// Kind is the category of an Error.
type Kind string

const (
	// KindRank is reported when an array would have fewer than two
	// dimensions (the row dimension plus at least one element dimension).
	KindRank Kind = "rank"
	// KindShape is reported on heterogeneous or mismatching element shapes.
	KindShape Kind = "shape"
	// KindIndex is reported on out-of-range positions.
	KindIndex Kind = "index"
	// KindValue is reported on invalid argument values and malformed
	// wire metadata.
	KindValue Kind = "value"
	// KindType is reported on mismatching or unsupported element types.
	KindType Kind = "type"
	// KindUnsupportedOperation is reported by storages refusing
	// in-place assignment.
	KindUnsupportedOperation Kind = "unsupported_operation"
)

// Sentinel errors, one for each Kind, to be used with errors.Is.
var (
	ErrRank                 = &Error{Kind: KindRank}
	ErrShape                = &Error{Kind: KindShape}
	ErrIndex                = &Error{Kind: KindIndex}
	ErrValue                = &Error{Kind: KindValue}
	ErrType                 = &Error{Kind: KindType}
	ErrUnsupportedOperation = &Error{Kind: KindUnsupportedOperation}
)

// Error is the error type returned by tensor column operations.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Cause == nil && t.Kind == e.Kind
}

// Errorf creates a new error of the given Kind, formatting its message
// as fmt.Sprintf does.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a Kind and additional context.
// It returns nil if err is nil.
func Wrap(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// IsKind reports whether the first Error found in err's chain
// has the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
