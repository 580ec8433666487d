// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package vimeo

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vimeo-provider/internal/logging"
	"github.com/tomtom215/vimeo-provider/internal/metrics"
)

// CircuitBreakerClient wraps a Client with the circuit breaker pattern to
// stop hammering the Vimeo API while it is unavailable or misbehaving.
//
// The breaker counts transport, protocol, and upstream failures. Caller
// bugs (CodeInvalidArgument), cooldown short-circuits (CodeBlocked), and
// not-found results are not failures: they say nothing about upstream
// health.
//
// DETERMINISM NOTE: the breaker uses real time (via sony/gobreaker) for
// its interval and timeout calculations. For unit tests, test the wrapped
// client directly.
type CircuitBreakerClient struct {
	client API
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

var _ API = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient wraps client with a circuit breaker.
// Configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(client API) *CircuitBreakerClient {
	cbName := "vimeo-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// Local short-circuits and caller bugs do not indicate upstream health.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			switch CodeOf(err) {
			case CodeInvalidArgument, CodeBlocked:
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := from.String()
			toStr := to.String()
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

// execute wraps an API call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil && (errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)) {
		logging.Warn().Err(err).Str("breaker", cbc.name).Msg("[CIRCUIT BREAKER] Request rejected")
	}
	return result, err
}

// ListAlbums delegates with breaker protection.
func (cbc *CircuitBreakerClient) ListAlbums(ctx context.Context, args Args) (*AlbumList, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.ListAlbums(ctx, args)
	})
	if err != nil {
		return nil, err
	}
	return result.(*AlbumList), nil
}

// GetAlbum delegates with breaker protection.
func (cbc *CircuitBreakerClient) GetAlbum(ctx context.Context, args Args) (*Album, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetAlbum(ctx, args)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Album), nil
}

// ListVideosInAlbum delegates with breaker protection.
func (cbc *CircuitBreakerClient) ListVideosInAlbum(ctx context.Context, args Args) (*VideoList, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.ListVideosInAlbum(ctx, args)
	})
	if err != nil {
		return nil, err
	}
	return result.(*VideoList), nil
}

// ListVideos delegates with breaker protection.
func (cbc *CircuitBreakerClient) ListVideos(ctx context.Context, args Args) (*VideoList, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.ListVideos(ctx, args)
	})
	if err != nil {
		return nil, err
	}
	return result.(*VideoList), nil
}

// GetVideo delegates with breaker protection.
func (cbc *CircuitBreakerClient) GetVideo(ctx context.Context, args Args) (*Video, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetVideo(ctx, args)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Video), nil
}

// GetVideoConfig delegates with breaker protection.
func (cbc *CircuitBreakerClient) GetVideoConfig(ctx context.Context, args Args) (*VideoConfig, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetVideoConfig(ctx, args)
	})
	if err != nil {
		return nil, err
	}
	return result.(*VideoConfig), nil
}
