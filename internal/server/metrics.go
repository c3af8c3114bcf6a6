// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docconv_http_requests_total",
		Help: "HTTP requests by method and status code.",
	}, []string{"method", "code"})

	failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docconv_conversion_request_failures_total",
		Help: "Failed conversion requests by error kind.",
	}, []string{"kind"})
)
