// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BusServer matches the embedded NATS server's lifecycle, so tests can
// substitute a mock.
type BusServer interface {
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

// ErrBusServerDown reports that the supervised bus server stopped running
// outside of a requested shutdown.
var ErrBusServerDown = errors.New("bus server no longer running")

// BusServerService supervises an already-started embedded NATS server:
// it watches liveness and owns the graceful shutdown. Returning
// ErrBusServerDown hands the failure to suture's backoff policy.
type BusServerService struct {
	server          BusServer
	checkInterval   time.Duration
	shutdownTimeout time.Duration
	name            string
}

// NewBusServerService creates the wrapper with a 5 second liveness check
// and a 10 second shutdown bound.
func NewBusServerService(server BusServer) *BusServerService {
	return &BusServerService{
		server:          server,
		checkInterval:   5 * time.Second,
		shutdownTimeout: 10 * time.Second,
		name:            "nats-server",
	}
}

// Serve implements suture.Service.
func (s *BusServerService) Serve(ctx context.Context) error {
	if !s.server.IsRunning() {
		return ErrBusServerDown
	}

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.server.IsRunning() {
				return ErrBusServerDown
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("bus server shutdown failed: %w", err)
			}
			return ctx.Err()
		}
	}
}

// String identifies the service in suture log output.
func (s *BusServerService) String() string {
	return s.name
}
