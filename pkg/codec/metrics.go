package codec

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Encoder metrics, registered on the default registry.
var (
	rowsFinishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vanir_codec_rows_finished_total",
		Help: "Total number of rows encoded to completion",
	})

	rowBytesEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vanir_codec_row_bytes_emitted_total",
		Help: "Total bytes of finished row encodings",
	})

	canonicalizeTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vanir_codec_canonicalize_rewrites_total",
		Help: "Rows whose buffer was rewritten to collapse out-of-space strings",
	})
)
