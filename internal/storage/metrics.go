// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docconv_storage_bytes_written_total",
		Help: "Total number of bytes written to the working directories",
	})

	filesSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docconv_storage_files_swept_total",
		Help: "Total number of expired files removed by the janitor",
	})

	sweepErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docconv_storage_sweep_errors_total",
		Help: "Total number of janitor sweeps that hit an error",
	})
)
