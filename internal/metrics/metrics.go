// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

// Package metrics provides Prometheus metrics for the vimeo provider.
//
// Metrics are registered via promauto on the default registry and exposed
// on the daemon's /metrics endpoint:
//
//   - vimeo_client_requests_total{endpoint, outcome}
//   - vimeo_client_request_duration_seconds{endpoint}
//   - vimeo_client_rate_limit_blocks_total
//   - vimeo_client_cooldown_state (0=open, 1=blocked)
//   - provider_handler_duration_seconds{source}
//   - provider_handler_errors_total{source, code}
//   - catalog_item_specs_sent_total
//   - bus_broadcasts_total{level}
//   - circuit_breaker_state{name} / circuit_breaker_transitions_total{name, from, to}
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Vimeo API client metrics

	ClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vimeo_client_requests_total",
			Help: "Total requests issued to the Vimeo API",
		},
		[]string{"endpoint", "outcome"}, // outcome: ok, not_found, rate_limited, blocked, upstream_error, protocol_error, transport_error
	)

	ClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vimeo_client_request_duration_seconds",
			Help:    "Duration of Vimeo API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	RateLimitBlocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vimeo_client_rate_limit_blocks_total",
			Help: "Total calls short-circuited by the rate-limit cooldown",
		},
	)

	CooldownState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vimeo_client_cooldown_state",
			Help: "Rate-limit cooldown state (0=open, 1=blocked)",
		},
	)

	// Provider handler metrics

	HandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_handler_duration_seconds",
			Help:    "Duration of provider query handlers in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"}, // vimeo-album, vimeo-video
	)

	HandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_handler_errors_total",
			Help: "Total provider handler failures by error code",
		},
		[]string{"source", "code"},
	)

	ItemSpecsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_item_specs_sent_total",
			Help: "Total setItemSpec commands sent to the catalog",
		},
	)

	// Bus metrics

	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_broadcasts_total",
			Help: "Total broadcast notifications published by level",
		},
		[]string{"level"},
	)

	// Circuit breaker metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)
