// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrowext

import (
	"fmt"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/nlpodyssey/tensorcolumn/dtype"
)

var registry struct {
	sync.Mutex
	refs int
	// owned is true if the type was registered by this package.
	owned bool
}

// Registration is the handle returned by Register.
type Registration struct {
	once sync.Once
}

// Register registers TensorType within Arrow's global extension type
// registry, so that IPC and Parquet readers reconstruct it from field
// metadata. Registering more than once is not an error: the type stays
// registered until every Registration has been released.
func Register() (*Registration, error) {
	registry.Lock()
	defer registry.Unlock()

	if registry.refs == 0 && arrow.GetExtensionType(ExtensionName) == nil {
		prototype, err := NewTensorType([]int{1}, dtype.U8)
		if err != nil {
			return nil, err
		}
		if err := arrow.RegisterExtensionType(prototype); err != nil {
			return nil, fmt.Errorf("failed to register %s extension type: %w", ExtensionName, err)
		}
		registry.owned = true
	}
	registry.refs++
	return &Registration{}, nil
}

// Release releases the registration. The extension type is unregistered
// when the last Registration is released. Calling Release more than once
// has no further effect.
func (r *Registration) Release() error {
	var err error
	r.once.Do(func() {
		registry.Lock()
		defer registry.Unlock()

		registry.refs--
		if registry.refs > 0 {
			return
		}
		registry.refs = 0
		if registry.owned {
			registry.owned = false
			if e := arrow.UnregisterExtensionType(ExtensionName); e != nil {
				err = fmt.Errorf("failed to unregister %s extension type: %w", ExtensionName, e)
			}
		}
	})
	return err
}

// IsRegistered reports whether TensorType is currently registered.
func IsRegistered() bool {
	return arrow.GetExtensionType(ExtensionName) != nil
}
