// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arrowext

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opEncode = "encode"
	opDecode = "decode"
)

// Metrics collects counters about the operations of a Codec.
type Metrics struct {
	rows   *prometheus.CounterVec // tensors processed, by operation
	bytes  *prometheus.CounterVec // cell bytes processed, by operation
	errors *prometheus.CounterVec // failed operations, by operation
}

// NewMetrics creates the codec counters, registering them with reg.
// If reg is nil, the counters are not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tensorcolumn",
				Subsystem: "codec",
				Name:      "rows_total",
				Help:      "Total number of tensors encoded or decoded",
			},
			[]string{"operation"},
		),
		bytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tensorcolumn",
				Subsystem: "codec",
				Name:      "bytes_total",
				Help:      "Total number of tensor data bytes encoded or decoded",
			},
			[]string{"operation"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tensorcolumn",
				Subsystem: "codec",
				Name:      "errors_total",
				Help:      "Total number of failed encode or decode operations",
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) observe(op string, rows, bytes int) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(op).Add(float64(rows))
	m.bytes.WithLabelValues(op).Add(float64(bytes))
}

func (m *Metrics) failed(op string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(op).Inc()
}
