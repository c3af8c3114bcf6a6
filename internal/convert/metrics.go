// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docconv_conversions_total",
		Help: "Total number of conversions by type and result",
	}, []string{"type", "result"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docconv_conversion_duration_seconds",
		Help:    "Time spent in a converter in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "docconv_conversions_in_flight",
		Help: "Number of conversions currently running",
	})
)
